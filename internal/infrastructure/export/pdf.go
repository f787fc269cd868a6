package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"contractops/internal/domain/reports"
	"contractops/pkg/format"
)

// newReportPDF starts a landscape A4 document with the report title and the
// generation date centered at the top.
func newReportPDF(title string, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Report Date: "+format.Date(generatedAt), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

// pdfTable renders a bordered table. Widths are relative weights scaled to
// the printable page width; the header repeats nowhere, long reports just
// flow across pages.
func pdfTable(pdf *fpdf.Fpdf, headers []string, weights []float64, rows [][]string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / totalWeight
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for rowIdx, row := range rows {
		fill := rowIdx%2 == 1
		pdf.SetFillColor(240, 244, 250)
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// pdfStats renders a statistics block as label/value lines.
func pdfStats(pdf *fpdf.Fpdf, title string, pairs [][2]string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range pairs {
		pdf.CellFormat(60, 6, p[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, p[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func renderPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// OperationsPDF renders the operations report document.
func OperationsPDF(r *reports.OperationsReport) ([]byte, error) {
	pdf := newReportPDF("Operations Report", r.GeneratedAt)

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Code,
			row.Name,
			row.ClientName,
			format.Currency(row.TotalAmount),
			format.Currency(row.NetAmount),
			format.Currency(row.TotalReceived),
			format.Currency(row.RemainingAmount),
			format.Percent(row.Completion),
			row.StatusLabel,
		})
	}
	pdfTable(pdf,
		[]string{"Code", "Operation", "Client", "Total", "Net", "Received", "Remaining", "Completion", "Status"},
		[]float64{2, 3.5, 2.5, 2, 2, 2, 2, 1.5, 2.5},
		rows)

	pdfStats(pdf, "Statistics", [][2]string{
		{"Total Operations", fmt.Sprintf("%d", r.Totals.Operations)},
		{"Completed", fmt.Sprintf("%d", r.Totals.Completed)},
		{"In Progress", fmt.Sprintf("%d", r.Totals.InProgress)},
		{"Total Amount", format.Currency(r.Totals.TotalAmount)},
		{"Total Net Amount", format.Currency(r.Totals.TotalNetAmount)},
		{"Total Received", format.Currency(r.Totals.TotalReceived)},
		{"Total Outstanding", format.Currency(r.Totals.TotalOutstanding)},
		{"Collection Rate", format.Percent(r.Totals.CollectionRate)},
	})

	return renderPDF(pdf)
}

// DetailsPDF renders the single-operation document.
func DetailsPDF(d *reports.OperationDetails) ([]byte, error) {
	pdf := newReportPDF("Operation Report: "+d.Name, d.GeneratedAt)

	pdfStats(pdf, "Overview", [][2]string{
		{"Code", d.Code},
		{"Client", d.ClientName},
		{"Client Type", d.ClientTypeLabel},
		{"Created", format.Date(d.CreatedAt)},
	})

	pdfStats(pdf, "Financial Summary", [][2]string{
		{"Total Amount", format.Currency(d.Summary.TotalAmount)},
		{"Executed Amount", format.Currency(d.Summary.ExecutedAmount)},
		{"Total Deductions", format.Currency(d.Summary.TotalDeductions)},
		{"Net Amount", format.Currency(d.Summary.NetAmount)},
		{"Total Received", format.Currency(d.Summary.TotalReceived)},
		{"Net Due", format.Currency(d.Summary.NetDue)},
		{"Completion", format.Percent(d.Summary.CompletionPercentage)},
	})

	if len(d.Items) > 0 {
		itemRows := make([][]string, 0, len(d.Items))
		for _, it := range d.Items {
			itemRows = append(itemRows, []string{
				it.Code, it.Description,
				format.Currency(it.Amount),
				format.Percent(it.Completion),
				format.Currency(it.ExecutedValue),
			})
		}
		pdfTable(pdf,
			[]string{"Code", "Description", "Amount", "Completion", "Executed"},
			[]float64{2, 5, 2, 1.5, 2},
			itemRows)
	}

	if len(d.Deductions) > 0 {
		dedRows := make([][]string, 0, len(d.Deductions))
		for _, de := range d.Deductions {
			dedRows = append(dedRows, []string{de.Name, de.Rate, format.Currency(de.Amount)})
		}
		pdfTable(pdf, []string{"Deduction", "Rate", "Amount"}, []float64{4, 2, 2}, dedRows)
	}

	if len(d.Payments) > 0 {
		payRows := make([][]string, 0, len(d.Payments))
		for _, p := range d.Payments {
			payRows = append(payRows, []string{
				p.TypeLabel, format.Currency(p.Amount), format.Date(p.Date), p.CheckNumber, p.Bank,
			})
		}
		pdfTable(pdf,
			[]string{"Type", "Amount", "Date", "Check Number", "Bank"},
			[]float64{2, 2, 2, 2, 2},
			payRows)
	}

	return renderPDF(pdf)
}

// ChecksAndPaymentsPDF renders the payments document.
func ChecksAndPaymentsPDF(r *reports.ChecksAndPaymentsReport) ([]byte, error) {
	pdf := newReportPDF("Checks and Payments Report", r.GeneratedAt)

	rows := make([][]string, 0, len(r.Rows))
	for _, p := range r.Rows {
		status := "Received"
		if p.Pending {
			status = "Pending"
		}
		rows = append(rows, []string{
			p.TypeLabel,
			format.Currency(p.Amount),
			format.Date(p.Date),
			p.ClientName,
			p.OperationName,
			p.CheckNumber,
			p.Bank,
			status,
		})
	}
	pdfTable(pdf,
		[]string{"Type", "Amount", "Date", "Client", "Operation", "Check Number", "Bank", "Status"},
		[]float64{1.5, 2, 1.8, 2.5, 3, 2, 2, 1.5},
		rows)

	pdfStats(pdf, "Statistics", [][2]string{
		{"Total Payments", fmt.Sprintf("%d", len(r.Rows))},
		{"Checks", fmt.Sprintf("%d", r.CheckCount)},
		{"Cash Payments", fmt.Sprintf("%d", r.CashCount)},
		{"Pending Checks", fmt.Sprintf("%d", r.PendingChecks)},
		{"Total Amount", format.Currency(r.TotalAmount)},
	})

	return renderPDF(pdf)
}

func guaranteePDFRows(rows []reports.GuaranteeRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, g := range rows {
		out = append(out, []string{
			g.Kind,
			g.Number,
			format.Currency(g.Amount),
			g.Bank,
			g.ClientName,
			g.OperationName,
			format.Date(g.ExpiryDate),
			g.StatusLabel,
			g.ExpiryStatus.Label(),
		})
	}
	return out
}

// GuaranteesPDF renders the guarantees document.
func GuaranteesPDF(r *reports.GuaranteesReport) ([]byte, error) {
	pdf := newReportPDF("Guarantees Report", r.GeneratedAt)

	all := append(append([]reports.GuaranteeRow{}, r.Checks...), r.Letters...)
	pdfTable(pdf,
		[]string{"Kind", "Number", "Amount", "Bank", "Client", "Operation", "Expiry", "Status", "Expiry Status"},
		[]float64{2, 1.8, 2, 2, 2.5, 3, 1.8, 1.5, 1.8},
		guaranteePDFRows(all))

	pdfStats(pdf, "Statistics", [][2]string{
		{"Total Guarantees", fmt.Sprintf("%d", r.Total)},
		{"Active", fmt.Sprintf("%d", r.Active)},
		{"Returned", fmt.Sprintf("%d", r.Returned)},
		{"Expiring Soon", fmt.Sprintf("%d", r.ExpiringSoon)},
		{"Expired", fmt.Sprintf("%d", r.Expired)},
		{"Total Amount", format.Currency(r.TotalAmount)},
	})

	return renderPDF(pdf)
}

// WarrantiesPDF renders the warranty certificates document.
func WarrantiesPDF(r *reports.WarrantiesReport) ([]byte, error) {
	pdf := newReportPDF("Warranty Certificates Report", r.GeneratedAt)

	rows := make([][]string, 0, len(r.Rows))
	for _, w := range r.Rows {
		rows = append(rows, []string{
			w.CertificateNumber,
			w.ClientName,
			w.OperationName,
			w.RelatedItem,
			format.Date(w.StartDate),
			format.Date(w.EndDate),
			fmt.Sprintf("%d", w.PeriodMonths),
			w.StatusLabel,
		})
	}
	pdfTable(pdf,
		[]string{"Certificate", "Client", "Operation", "Related Item", "Start", "End", "Months", "Status"},
		[]float64{2, 2.5, 3, 2.5, 1.8, 1.8, 1.2, 1.5},
		rows)

	pdfStats(pdf, "Statistics", [][2]string{
		{"Total Certificates", fmt.Sprintf("%d", r.Total)},
		{"Active", fmt.Sprintf("%d", r.Active)},
		{"Expired", fmt.Sprintf("%d", r.Expired)},
	})

	return renderPDF(pdf)
}

// ClientsPDF renders the client directory document.
func ClientsPDF(r *reports.ClientsReport) ([]byte, error) {
	pdf := newReportPDF("Clients Report", r.GeneratedAt)

	rows := make([][]string, 0, len(r.Rows))
	for _, c := range r.Rows {
		rows = append(rows, []string{
			c.Name,
			c.TypeLabel,
			c.Phone,
			c.Email,
			c.MainContactName,
			c.MainContactPhone,
			fmt.Sprintf("%d", c.ContactsCount),
		})
	}
	pdfTable(pdf,
		[]string{"Name", "Type", "Phone", "Email", "Main Contact", "Contact Phone", "Contacts"},
		[]float64{3, 2, 2, 3, 2.5, 2, 1.2},
		rows)

	pdfStats(pdf, "Statistics", [][2]string{
		{"Total Clients", fmt.Sprintf("%d", r.Total)},
		{"Owners", fmt.Sprintf("%d", r.Owners)},
		{"Main Contractors", fmt.Sprintf("%d", r.Contractors)},
		{"Consultants", fmt.Sprintf("%d", r.Consultants)},
	})

	return renderPDF(pdf)
}

// FinancialPDF renders the comprehensive financial document.
func FinancialPDF(r *reports.FinancialReport) ([]byte, error) {
	pdf := newReportPDF("Comprehensive Financial Report", r.GeneratedAt)

	pdfStats(pdf, "General Statistics", [][2]string{
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
	})

	rows := make([][]string, 0, len(r.Clients))
	for _, c := range r.Clients {
		rows = append(rows, []string{
			c.ClientName,
			c.TypeLabel,
			fmt.Sprintf("%d", c.OperationsCount),
			format.Currency(c.TotalAmount),
			format.Currency(c.NetAmount),
			format.Currency(c.TotalReceived),
			format.Currency(c.Outstanding),
			format.Percent(c.CollectionRate),
		})
	}
	pdfTable(pdf,
		[]string{"Client", "Type", "Ops", "Total", "Net", "Received", "Outstanding", "Collection"},
		[]float64{3, 2, 1, 2, 2, 2, 2, 1.5},
		rows)

	return renderPDF(pdf)
}
