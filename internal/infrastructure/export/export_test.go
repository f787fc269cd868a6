package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractops/internal/core/types"
	"contractops/internal/domain/operation"
	"contractops/internal/domain/reports"
)

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{
		"":      FormatExcel,
		"excel": FormatExcel,
		"csv":   FormatCSV,
		"pdf":   FormatPDF,
	} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "operations-report-2026-01-15.xlsx", Filename("operations-report", FormatExcel, now))
	assert.Equal(t, "guarantees-report-2026-01-15.csv", Filename("guarantees-report", FormatCSV, now))
	assert.Equal(t, "financial-report-2026-01-15.pdf", Filename("financial-report", FormatPDF, now))
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Contains(t, FormatExcel.ContentType(), "spreadsheetml")
}

func sampleOperationsReport() *reports.OperationsReport {
	return &reports.OperationsReport{
		GeneratedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Rows: []reports.OperationRow{
			{
				Code:            "ABC-TOW-1234",
				Name:            "Tower",
				ClientName:      "Alpha, Holdings", // comma exercises csv quoting
				ClientTypeLabel: "Owner",
				TotalAmount:     types.NewMoneyFromInt(1000000),
				TotalDeductions: types.NewMoneyFromInt(4500),
				NetAmount:       types.NewMoneyFromInt(995500),
				TotalReceived:   types.NewMoneyFromInt(500000),
				RemainingAmount: types.NewMoneyFromInt(495500),
				Completion:      types.Hundred,
				StatusLabel:     "Completed - Partial Payment",
				ItemsCount:      2,
			},
		},
		Totals: operation.FleetTotals{
			Operations:       1,
			TotalAmount:      types.NewMoneyFromInt(1000000),
			TotalDeductions:  types.NewMoneyFromInt(4500),
			TotalNetAmount:   types.NewMoneyFromInt(995500),
			TotalReceived:    types.NewMoneyFromInt(500000),
			TotalOutstanding: types.NewMoneyFromInt(495500),
			CollectionRate:   types.MustMoney("50.2"),
		},
	}
}

func TestOperationsCSV(t *testing.T) {
	data, err := OperationsCSV(sampleOperationsReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Code,Operation Name,Client"))
	assert.Contains(t, lines[1], "ABC-TOW-1234")
	assert.Contains(t, lines[1], `"Alpha, Holdings"`)
	assert.Contains(t, lines[1], `"1,000,000.00 EGP"`)
}

func TestOperationsExcelSmoke(t *testing.T) {
	data, err := OperationsExcel(sampleOperationsReport())
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// xlsx containers are zip files.
	assert.Equal(t, "PK", string(data[:2]))
}

func TestOperationsPDFSmoke(t *testing.T) {
	data, err := OperationsPDF(sampleOperationsReport())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
