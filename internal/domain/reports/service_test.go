package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractops/internal/core/clock"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/client"
	"contractops/internal/domain/operation"
	"contractops/internal/infrastructure/storage/memory"
)

var reportNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// seedReportData loads two clients and three operations: a completed and an
// in-progress one for Alpha, and one whose client reference dangles. Beta
// has no operations at all.
func seedReportData(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	clientRepo := memory.NewClientRepo()
	operationRepo := memory.NewOperationRepo()

	alpha := client.New("Alpha Holdings", client.TypeOwner)
	alpha.Contacts = []client.Contact{
		{ID: id.New(), Name: "Nora Adel", Phone: "0100", IsMainContact: true},
		{ID: id.New(), Name: "Samir Fathi"},
	}
	beta := client.New("Beta Contracting", client.TypeMainContractor)
	require.NoError(t, clientRepo.Save(ctx, alpha))
	require.NoError(t, clientRepo.Save(ctx, beta))

	receipt := reportNow.AddDate(0, 0, -1)
	completed := &operation.Operation{
		ID:       id.New(),
		Code:     "ALP-TOW-0001",
		Name:     "Tower",
		ClientID: alpha.ID,
		Status:   operation.StatusCompleted,
		Items: []operation.OperationItem{
			{ID: id.New(), Code: "ALP-TOW-0001-001", Description: "Works", Amount: types.NewMoneyFromInt(1000), ExecutionPercentage: types.Hundred},
		},
		ReceivedPayments: []operation.ReceivedPayment{
			{ID: id.New(), Type: operation.PaymentCheck, Amount: types.NewMoneyFromInt(1000), Date: receipt, CheckNumber: "CHK-1", Bank: "NBE", ReceiptDate: &receipt},
		},
		CreatedAt: reportNow.AddDate(0, -2, 0),
	}

	inProgress := &operation.Operation{
		ID:       id.New(),
		Code:     "ALP-BRI-0002",
		Name:     "Bridge",
		ClientID: alpha.ID,
		Status:   operation.StatusInProgress,
		Items: []operation.OperationItem{
			{ID: id.New(), Code: "ALP-BRI-0002-001", Description: "Earthworks", Amount: types.NewMoneyFromInt(2000), ExecutionPercentage: types.NewMoneyFromInt(50)},
		},
		Deductions: []operation.Deduction{
			{ID: id.New(), Name: "Withholding tax", Type: operation.DeductionPercentage, Value: types.NewMoneyFromInt(1), IsActive: true},
			{ID: id.New(), Name: "Old levy", Type: operation.DeductionFixed, Value: types.NewMoneyFromInt(100), IsActive: false},
		},
		GuaranteeChecks: []operation.GuaranteeCheck{
			{ID: id.New(), CheckNumber: "GC-1", Amount: types.NewMoneyFromInt(500), Bank: "CIB", ExpiryDate: reportNow.AddDate(0, 0, 10), RelatedTo: operation.RelatedToOperation},
		},
		GuaranteeLetters: []operation.GuaranteeLetter{
			{ID: id.New(), LetterNumber: "GL-1", Amount: types.NewMoneyFromInt(700), Bank: "CIB", DueDate: reportNow.AddDate(1, 0, 0), RelatedTo: operation.RelatedToOperation, IsReturned: true, ReturnDate: &receipt},
		},
		WarrantyCertificates: []operation.WarrantyCertificate{
			{ID: id.New(), CertificateNumber: "WC-1", StartDate: reportNow, EndDate: reportNow.AddDate(1, 0, 0), WarrantyPeriodMonths: 12, RelatedTo: operation.RelatedToOperation, IsActive: true},
		},
		ReceivedPayments: []operation.ReceivedPayment{
			{ID: id.New(), Type: operation.PaymentCheck, Amount: types.NewMoneyFromInt(300), Date: reportNow, CheckNumber: "CHK-2", Bank: "CIB"},
		},
		CreatedAt: reportNow.AddDate(0, -1, 0),
	}
	// Item-scoped check referencing the first line item.
	itemID := inProgress.Items[0].ID
	inProgress.GuaranteeChecks = append(inProgress.GuaranteeChecks, operation.GuaranteeCheck{
		ID: id.New(), CheckNumber: "GC-2", Amount: types.NewMoneyFromInt(200), Bank: "CIB",
		ExpiryDate: reportNow.AddDate(0, 0, -3), RelatedTo: operation.RelatedToItem, RelatedItemID: &itemID,
	})

	dangling := &operation.Operation{
		ID:        id.New(),
		Code:      "UNK-GHO-0003",
		Name:      "Ghost",
		ClientID:  id.New(),
		Status:    operation.StatusInProgress,
		CreatedAt: reportNow,
	}

	for _, op := range []*operation.Operation{completed, inProgress, dangling} {
		require.NoError(t, operationRepo.Save(ctx, op))
	}

	return NewService(operationRepo, clientRepo, clock.At(reportNow))
}

func TestOperationsReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Operations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reportNow, report.GeneratedAt)
	require.Len(t, report.Rows, 3)

	byCode := make(map[string]OperationRow, len(report.Rows))
	for _, row := range report.Rows {
		byCode[row.Code] = row
	}

	tower := byCode["ALP-TOW-0001"]
	assert.Equal(t, "Alpha Holdings", tower.ClientName)
	assert.Equal(t, "Owner", tower.ClientTypeLabel)
	assert.Equal(t, "Completed", tower.StatusLabel)
	assert.True(t, types.NewMoneyFromInt(1000).Equal(tower.TotalAmount))
	assert.True(t, types.Zero().Equal(tower.RemainingAmount))

	bridge := byCode["ALP-BRI-0002"]
	// 2000 at 50% executed with a 1% deduction: 1000 - 10 = 990 net,
	// 300 received leaves 690.
	assert.True(t, types.NewMoneyFromInt(10).Equal(bridge.TotalDeductions))
	assert.True(t, types.NewMoneyFromInt(990).Equal(bridge.NetAmount))
	assert.True(t, types.NewMoneyFromInt(690).Equal(bridge.RemainingAmount))
	assert.Equal(t, 2, bridge.ChecksCount)

	assert.Equal(t, 3, report.Totals.Operations)
	assert.Equal(t, 1, report.Totals.Completed)
	assert.Equal(t, 2, report.Totals.InProgress)
}

func TestOperationsReportUnknownClient(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Operations(context.Background())
	require.NoError(t, err)

	var ghost *OperationRow
	for i := range report.Rows {
		if report.Rows[i].Code == "UNK-GHO-0003" {
			ghost = &report.Rows[i]
		}
	}
	require.NotNil(t, ghost)
	assert.Equal(t, UnknownClientLabel, ghost.ClientName)
	assert.Equal(t, UnknownClientLabel, ghost.ClientTypeLabel)
}

func TestDetailsReport(t *testing.T) {
	svc := seedReportData(t)
	ctx := context.Background()

	ops, err := svc.operations.List(ctx)
	require.NoError(t, err)
	var bridgeID id.ID
	for _, op := range ops {
		if op.Code == "ALP-BRI-0002" {
			bridgeID = op.ID
		}
	}

	details, err := svc.Details(ctx, bridgeID)
	require.NoError(t, err)

	assert.Equal(t, "Bridge", details.Name)
	assert.Equal(t, "Alpha Holdings", details.ClientName)

	require.Len(t, details.Items, 1)
	assert.True(t, types.NewMoneyFromInt(1000).Equal(details.Items[0].ExecutedValue))

	// The inactive levy is omitted.
	require.Len(t, details.Deductions, 1)
	assert.Equal(t, "Withholding tax", details.Deductions[0].Name)
	assert.Equal(t, "1%", details.Deductions[0].Rate)
	assert.True(t, types.NewMoneyFromInt(10).Equal(details.Deductions[0].Amount))

	require.Len(t, details.Checks, 2)
	assert.Equal(t, FullOperationLabel, details.Checks[0].RelatedItem)
	assert.Equal(t, "Earthworks", details.Checks[1].RelatedItem)
	assert.Equal(t, operation.ExpiryExpired, details.Checks[1].ExpiryStatus)

	require.Len(t, details.Payments, 1)
	assert.True(t, details.Payments[0].Pending)
}

func TestChecksAndPaymentsReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.ChecksAndPayments(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, 2, report.CheckCount)
	assert.Equal(t, 0, report.CashCount)
	assert.Equal(t, 1, report.PendingChecks)
	assert.True(t, types.NewMoneyFromInt(1300).Equal(report.TotalAmount))
}

func TestGuaranteesReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Guarantees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Returned)
	assert.Equal(t, 2, report.Active)
	assert.Equal(t, 1, report.ExpiringSoon)
	assert.Equal(t, 1, report.Expired)
	assert.True(t, types.NewMoneyFromInt(1400).Equal(report.TotalAmount))
}

func TestWarrantiesReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Warranties(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Active)
	assert.Equal(t, 0, report.Expired)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 12, report.Rows[0].PeriodMonths)
}

func TestClientsReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Clients(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Owners)
	assert.Equal(t, 1, report.Contractors)
	assert.Equal(t, 0, report.Consultants)

	byName := make(map[string]ClientRow, len(report.Rows))
	for _, row := range report.Rows {
		byName[row.Name] = row
	}
	alpha := byName["Alpha Holdings"]
	assert.Equal(t, "Nora Adel", alpha.MainContactName)
	assert.Equal(t, 2, alpha.ContactsCount)
}

func TestFinancialReport(t *testing.T) {
	svc := seedReportData(t)

	report, err := svc.Financial(context.Background())
	require.NoError(t, err)

	// 1 completed of 3 operations.
	assert.True(t, types.MustMoney("33.33").Equal(report.CompletionRate.Round(2)))

	// Beta has no operations and the dangling client is not in the
	// directory, so only Alpha gets a row.
	require.Len(t, report.Clients, 1)
	alpha := report.Clients[0]
	assert.Equal(t, "Alpha Holdings", alpha.ClientName)
	assert.Equal(t, 2, alpha.OperationsCount)
	assert.True(t, types.NewMoneyFromInt(3000).Equal(alpha.TotalAmount))
	assert.True(t, types.NewMoneyFromInt(1990).Equal(alpha.NetAmount))
	assert.True(t, types.NewMoneyFromInt(1300).Equal(alpha.TotalReceived))
	assert.True(t, types.NewMoneyFromInt(690).Equal(alpha.Outstanding))
}
