package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"contractops/internal/domain/reports"
	"contractops/pkg/format"
)

// writeCSV renders a header row plus records. Values pass through the csv
// writer's quoting, so commas in formatted currency are safe.
func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// OperationsCSV renders the operations table.
func OperationsCSV(r *reports.OperationsReport) ([]byte, error) {
	records := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		records = append(records, []string{
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
			fmt.Sprintf("%d", row.ItemsCount),
			fmt.Sprintf("%d", row.PaymentsCount),
			format.Date(row.CreatedAt),
		})
	}
	return writeCSV([]string{
		"Code", "Operation Name", "Client", "Client Type", "Total Amount",
		"Deductions", "Net Amount", "Received", "Remaining", "Completion",
		"Status", "Items", "Payments", "Created",
	}, records)
}

// DetailsCSV renders the single-operation items table. The flat CSV format
// carries only the line items; use Excel or PDF for the full breakdown.
func DetailsCSV(d *reports.OperationDetails) ([]byte, error) {
	records := make([][]string, 0, len(d.Items))
	for _, it := range d.Items {
		records = append(records, []string{
			it.Code,
			it.Description,
			format.Currency(it.Amount),
			format.Percent(it.Completion),
			format.Currency(it.ExecutedValue),
		})
	}
	return writeCSV([]string{"Code", "Description", "Amount", "Completion", "Executed Value"}, records)
}

// ChecksAndPaymentsCSV renders the payments table.
func ChecksAndPaymentsCSV(r *reports.ChecksAndPaymentsReport) ([]byte, error) {
	records := make([][]string, 0, len(r.Rows))
	for _, p := range r.Rows {
		status := "Received"
		if p.Pending {
			status = "Pending"
		}
		records = append(records, []string{
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
	return writeCSV([]string{
		"Type", "Amount", "Date", "Client", "Operation", "Code",
		"Check Number", "Bank", "Receipt Date", "Status", "Notes",
	}, records)
}

func guaranteeCSVRecords(rows []reports.GuaranteeRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, g := range rows {
		records = append(records, []string{
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
	return records
}

// GuaranteesCSV renders checks and letters as one table.
func GuaranteesCSV(r *reports.GuaranteesReport) ([]byte, error) {
	all := append(append([]reports.GuaranteeRow{}, r.Checks...), r.Letters...)
	return writeCSV(guaranteeHeaders, guaranteeCSVRecords(all))
}

// WarrantiesCSV renders the warranty certificates table.
func WarrantiesCSV(r *reports.WarrantiesReport) ([]byte, error) {
	records := make([][]string, 0, len(r.Rows))
	for _, w := range r.Rows {
		records = append(records, []string{
			w.CertificateNumber,
			w.ClientName,
			w.OperationName,
			w.OperationCode,
			w.RelatedItem,
			w.Description,
			format.Date(w.IssueDate),
			format.Date(w.StartDate),
			format.Date(w.EndDate),
			fmt.Sprintf("%d", w.PeriodMonths),
			w.StatusLabel,
			w.Notes,
		})
	}
	return writeCSV(warrantyHeaders, records)
}

// ClientsCSV renders the client directory table.
func ClientsCSV(r *reports.ClientsReport) ([]byte, error) {
	records := make([][]string, 0, len(r.Rows))
	for _, c := range r.Rows {
		records = append(records, []string{
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
			fmt.Sprintf("%d", c.ContactsCount),
			format.Date(c.CreatedAt),
		})
	}
	return writeCSV([]string{
		"Name", "Type", "Phone", "Email", "Address", "Main Contact",
		"Contact Phone", "Contact Email", "Position", "Department",
		"Contacts", "Created",
	}, records)
}

// FinancialCSV renders the per-client financial breakdown.
func FinancialCSV(r *reports.FinancialReport) ([]byte, error) {
	records := make([][]string, 0, len(r.Clients))
	for _, c := range r.Clients {
		records = append(records, []string{
			c.ClientName,
			c.TypeLabel,
			fmt.Sprintf("%d", c.OperationsCount),
			format.Currency(c.TotalAmount),
			format.Currency(c.TotalDeductions),
			format.Currency(c.NetAmount),
			format.Currency(c.TotalReceived),
			format.Currency(c.Outstanding),
			format.Percent(c.CollectionRate),
		})
	}
	return writeCSV([]string{
		"Client", "Type", "Operations", "Total Amount", "Deductions",
		"Net Amount", "Received", "Outstanding", "Collection Rate",
	}, records)
}
