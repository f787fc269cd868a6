// Package export renders report structures into downloadable files.
// Excel is the primary format; CSV and PDF cover the same tables with a
// reduced layout. All writers are pure: report in, bytes out.
package export

import (
	"fmt"
	"time"
)

// Format is a supported download format.
type Format string

const (
	FormatExcel Format = "excel"
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
)

// ParseFormat validates a format query value. Empty defaults to Excel.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatExcel):
		return FormatExcel, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatPDF):
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	default:
		return "xlsx"
	}
}

// ContentType returns the MIME type used for the download response.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename builds the download name, e.g. "operations-report-2026-01-15.xlsx".
func Filename(report string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", report, now.Format("2006-01-02"), f.Ext())
}
