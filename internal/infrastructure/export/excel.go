package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"contractops/internal/domain/reports"
	"contractops/pkg/format"
)

// sheet is one worksheet: a header row, data rows and a uniform column
// width.
type sheet struct {
	name     string
	headers  []string
	rows     [][]any
	colWidth float64
}

// buildWorkbook renders the sheets into a single xlsx file. The first sheet
// replaces the default one and becomes active.
func buildWorkbook(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", s.name, err)
			}
		}

		for col, header := range s.headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(s.name, cell, header)
			f.SetCellStyle(s.name, cell, cell, headerStyle)
		}

		for rowIdx, row := range s.rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				f.SetCellValue(s.name, cell, value)
			}
		}

		width := s.colWidth
		if width == 0 {
			width = 18
		}
		for col := range s.headers {
			name, _ := excelize.ColumnNumberToName(col + 1)
			f.SetColWidth(s.name, name, name, width)
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// statsSheet renders label/value pairs as a two-column Statistics sheet.
func statsSheet(pairs [][2]string) sheet {
	rows := make([][]any, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []any{p[0], p[1]})
	}
	return sheet{
		name:     "Statistics",
		headers:  []string{"Metric", "Value"},
		rows:     rows,
		colWidth: 28,
	}
}

// OperationsExcel renders the operations report workbook.
func OperationsExcel(r *reports.OperationsReport) ([]byte, error) {
	rows := make([][]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []any{
			row.Code,
			row.Name,
			row.ClientName,
			row.ClientTypeLabel,
			format.Currency(row.TotalAmount),
			format.Currency(row.TotalDeductions),
			format.Currency(row.NetAmount),
			format.Currency(row.TotalReceived),
			format.Currency(row.RemainingAmount),
			format.Percent(row.Completion),
			row.StatusLabel,
			row.ItemsCount,
			row.PaymentsCount,
			format.Date(row.CreatedAt),
		})
	}

	return buildWorkbook([]sheet{
		{
			name: "Operations",
			headers: []string{
				"Code", "Operation Name", "Client", "Client Type",
				"Total Amount", "Deductions", "Net Amount", "Received",
				"Remaining", "Completion", "Status", "Items", "Payments",
				"Created",
			},
			rows: rows,
		},
		statsSheet([][2]string{
			{"Report Date", format.Date(r.GeneratedAt)},
			{"Total Operations", fmt.Sprintf("%d", r.Totals.Operations)},
			{"Completed", fmt.Sprintf("%d", r.Totals.Completed)},
			{"In Progress", fmt.Sprintf("%d", r.Totals.InProgress)},
			{"Total Amount", format.Currency(r.Totals.TotalAmount)},
			{"Total Deductions", format.Currency(r.Totals.TotalDeductions)},
			{"Total Net Amount", format.Currency(r.Totals.TotalNetAmount)},
			{"Total Received", format.Currency(r.Totals.TotalReceived)},
			{"Total Outstanding", format.Currency(r.Totals.TotalOutstanding)},
			{"Collection Rate", format.Percent(r.Totals.CollectionRate)},
		}),
	})
}

// DetailsExcel renders the single-operation workbook: one sheet per owned
// collection plus the summary.
func DetailsExcel(d *reports.OperationDetails) ([]byte, error) {
	itemRows := make([][]any, 0, len(d.Items))
	for _, it := range d.Items {
		itemRows = append(itemRows, []any{
			it.Code, it.Description,
			format.Currency(it.Amount),
			format.Percent(it.Completion),
			format.Currency(it.ExecutedValue),
		})
	}

	deductionRows := make([][]any, 0, len(d.Deductions))
	for _, de := range d.Deductions {
		deductionRows = append(deductionRows, []any{de.Name, de.Rate, format.Currency(de.Amount)})
	}

	paymentRows := make([][]any, 0, len(d.Payments))
	for _, p := range d.Payments {
		paymentRows = append(paymentRows, []any{
			p.TypeLabel, format.Currency(p.Amount), format.Date(p.Date),
			p.CheckNumber, p.Bank, format.DatePtr(p.ReceiptDate), p.Notes,
		})
	}

	sheets := []sheet{
		{
			name:    "Summary",
			headers: []string{"Metric", "Value"},
			rows: [][]any{
				{"Operation", d.Name},
				{"Code", d.Code},
				{"Client", d.ClientName},
				{"Client Type", d.ClientTypeLabel},
				{"Created", format.Date(d.CreatedAt)},
				{"Total Amount", format.Currency(d.Summary.TotalAmount)},
				{"Executed Amount", format.Currency(d.Summary.ExecutedAmount)},
				{"Total Deductions", format.Currency(d.Summary.TotalDeductions)},
				{"Net Amount", format.Currency(d.Summary.NetAmount)},
				{"Total Received", format.Currency(d.Summary.TotalReceived)},
				{"Net Due", format.Currency(d.Summary.NetDue)},
				{"Completion", format.Percent(d.Summary.CompletionPercentage)},
			},
			colWidth: 28,
		},
		{
			name:    "Items",
			headers: []string{"Code", "Description", "Amount", "Completion", "Executed Value"},
			rows:    itemRows,
		},
		{
			name:    "Deductions",
			headers: []string{"Name", "Rate", "Amount"},
			rows:    deductionRows,
		},
		{
			name:    "Payments",
			headers: []string{"Type", "Amount", "Date", "Check Number", "Bank", "Receipt Date", "Notes"},
			rows:    paymentRows,
		},
	}

	if len(d.Checks) > 0 || len(d.Letters) > 0 {
		sheets = append(sheets, sheet{
			name:    "Guarantees",
			headers: guaranteeHeaders,
			rows:    guaranteeExcelRows(append(append([]reports.GuaranteeRow{}, d.Checks...), d.Letters...)),
		})
	}
	if len(d.Warranties) > 0 {
		sheets = append(sheets, sheet{
			name:    "Warranties",
			headers: warrantyHeaders,
			rows:    warrantyExcelRows(d.Warranties),
		})
	}

	return buildWorkbook(sheets)
}

// ChecksAndPaymentsExcel renders the payments workbook.
func ChecksAndPaymentsExcel(r *reports.ChecksAndPaymentsReport) ([]byte, error) {
	rows := make([][]any, 0, len(r.Rows))
	for _, p := range r.Rows {
		status := "Received"
		if p.Pending {
			status = "Pending"
		}
		rows = append(rows, []any{
			p.TypeLabel,
			format.Currency(p.Amount),
			format.Date(p.Date),
			p.ClientName,
			p.OperationName,
			p.OperationCode,
			p.CheckNumber,
			p.Bank,
			format.DatePtr(p.ReceiptDate),
			status,
			p.Notes,
		})
	}

	return buildWorkbook([]sheet{
		{
			name: "Checks and Payments",
			headers: []string{
				"Type", "Amount", "Date", "Client", "Operation", "Code",
				"Check Number", "Bank", "Receipt Date", "Status", "Notes",
			},
			rows: rows,
		},
		statsSheet([][2]string{
			{"Report Date", format.Date(r.GeneratedAt)},
			{"Total Payments", fmt.Sprintf("%d", len(r.Rows))},
			{"Checks", fmt.Sprintf("%d", r.CheckCount)},
			{"Cash Payments", fmt.Sprintf("%d", r.CashCount)},
			{"Pending Checks", fmt.Sprintf("%d", r.PendingChecks)},
			{"Total Amount", format.Currency(r.TotalAmount)},
		}),
	})
}

var guaranteeHeaders = []string{
	"Kind", "Number", "Amount", "Bank", "Client", "Operation", "Code",
	"Related Item", "Issue Date", "Expiry Date", "Status", "Expiry Status",
	"Return Date", "Notes",
}

func guaranteeExcelRows(rows []reports.GuaranteeRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, g := range rows {
		out = append(out, []any{
			g.Kind,
			g.Number,
			format.Currency(g.Amount),
			g.Bank,
			g.ClientName,
			g.OperationName,
			g.OperationCode,
			g.RelatedItem,
			format.Date(g.IssueDate),
			format.Date(g.ExpiryDate),
			g.StatusLabel,
			g.ExpiryStatus.Label(),
			format.DatePtr(g.ReturnDate),
			g.Notes,
		})
	}
	return out
}

// GuaranteesExcel renders the guarantees workbook: combined table, one
// sheet per instrument kind and the statistics block.
func GuaranteesExcel(r *reports.GuaranteesReport) ([]byte, error) {
	all := append(append([]reports.GuaranteeRow{}, r.Checks...), r.Letters...)

	return buildWorkbook([]sheet{
		{name: "All Guarantees", headers: guaranteeHeaders, rows: guaranteeExcelRows(all)},
		{name: "Guarantee Checks", headers: guaranteeHeaders, rows: guaranteeExcelRows(r.Checks)},
		{name: "Guarantee Letters", headers: guaranteeHeaders, rows: guaranteeExcelRows(r.Letters)},
		statsSheet([][2]string{
			{"Report Date", format.Date(r.GeneratedAt)},
			{"Total Guarantees", fmt.Sprintf("%d", r.Total)},
			{"Active", fmt.Sprintf("%d", r.Active)},
			{"Returned", fmt.Sprintf("%d", r.Returned)},
			{"Expiring Soon", fmt.Sprintf("%d", r.ExpiringSoon)},
			{"Expired", fmt.Sprintf("%d", r.Expired)},
			{"Total Amount", format.Currency(r.TotalAmount)},
		}),
	})
}

var warrantyHeaders = []string{
	"Certificate Number", "Client", "Operation", "Code", "Related Item",
	"Description", "Issue Date", "Start Date", "End Date", "Period (Months)",
	"Status", "Notes",
}

func warrantyExcelRows(rows []reports.WarrantyRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, w := range rows {
		out = append(out, []any{
			w.CertificateNumber,
			w.ClientName,
			w.OperationName,
			w.OperationCode,
			w.RelatedItem,
			w.Description,
			format.Date(w.IssueDate),
			format.Date(w.StartDate),
			format.Date(w.EndDate),
			w.PeriodMonths,
			w.StatusLabel,
			w.Notes,
		})
	}
	return out
}

// WarrantiesExcel renders the warranty certificates workbook.
func WarrantiesExcel(r *reports.WarrantiesReport) ([]byte, error) {
	return buildWorkbook([]sheet{
		{name: "Warranty Certificates", headers: warrantyHeaders, rows: warrantyExcelRows(r.Rows)},
		statsSheet([][2]string{
			{"Report Date", format.Date(r.GeneratedAt)},
			{"Total Certificates", fmt.Sprintf("%d", r.Total)},
			{"Active", fmt.Sprintf("%d", r.Active)},
			{"Expired", fmt.Sprintf("%d", r.Expired)},
		}),
	})
}

// ClientsExcel renders the client directory workbook.
func ClientsExcel(r *reports.ClientsReport) ([]byte, error) {
	rows := make([][]any, 0, len(r.Rows))
	for _, c := range r.Rows {
		rows = append(rows, []any{
			c.Name,
			c.TypeLabel,
			c.Phone,
			c.Email,
			c.Address,
			c.MainContactName,
			c.MainContactPhone,
			c.MainContactEmail,
			c.ContactPosition,
			c.ContactDepartment,
			c.ContactsCount,
			format.Date(c.CreatedAt),
		})
	}

	return buildWorkbook([]sheet{
		{
			name: "Clients",
			headers: []string{
				"Name", "Type", "Phone", "Email", "Address",
				"Main Contact", "Contact Phone", "Contact Email",
				"Position", "Department", "Contacts", "Created",
			},
			rows: rows,
		},
		statsSheet([][2]string{
			{"Report Date", format.Date(r.GeneratedAt)},
			{"Total Clients", fmt.Sprintf("%d", r.Total)},
			{"Owners", fmt.Sprintf("%d", r.Owners)},
			{"Main Contractors", fmt.Sprintf("%d", r.Contractors)},
			{"Consultants", fmt.Sprintf("%d", r.Consultants)},
		}),
	})
}

// FinancialExcel renders the comprehensive financial workbook.
func FinancialExcel(r *reports.FinancialReport) ([]byte, error) {
	clientRows := make([][]any, 0, len(r.Clients))
	for _, c := range r.Clients {
		clientRows = append(clientRows, []any{
			c.ClientName,
			c.TypeLabel,
			c.OperationsCount,
			format.Currency(c.TotalAmount),
			format.Currency(c.TotalDeductions),
			format.Currency(c.NetAmount),
			format.Currency(c.TotalReceived),
			format.Currency(c.Outstanding),
			format.Percent(c.CollectionRate),
		})
	}

	return buildWorkbook([]sheet{
		{
			name:    "General Statistics",
			headers: []string{"Metric", "Value"},
			rows: [][]any{
				{"Report Date", format.Date(r.GeneratedAt)},
				{"Total Operations", fmt.Sprintf("%d", r.Fleet.Operations)},
				{"Completed Operations", fmt.Sprintf("%d", r.Fleet.Completed)},
				{"In Progress Operations", fmt.Sprintf("%d", r.Fleet.InProgress)},
				{"Completion Rate", format.Percent(r.CompletionRate)},
				{"Total Amount", format.Currency(r.Fleet.TotalAmount)},
				{"Total Deductions", format.Currency(r.Fleet.TotalDeductions)},
				{"Total Net Amount", format.Currency(r.Fleet.TotalNetAmount)},
				{"Total Received", format.Currency(r.Fleet.TotalReceived)},
				{"Total Outstanding", format.Currency(r.Fleet.TotalOutstanding)},
				{"Collection Rate", format.Percent(r.Fleet.CollectionRate)},
			},
			colWidth: 28,
		},
		{
			name: "Client Statistics",
			headers: []string{
				"Client", "Type", "Operations", "Total Amount", "Deductions",
				"Net Amount", "Received", "Outstanding", "Collection Rate",
			},
			rows: clientRows,
		},
	})
}
