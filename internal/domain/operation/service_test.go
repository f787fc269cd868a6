package operation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractops/internal/core/apperror"
	"contractops/internal/core/clock"
	"contractops/internal/core/codegen"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/client"
)

// fakeRepo is a minimal in-memory Repository for service tests.
type fakeRepo struct {
	ops map[id.ID]*Operation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{ops: make(map[id.ID]*Operation)}
}

func (r *fakeRepo) Save(ctx context.Context, op *Operation) error {
	r.ops[op.ID] = op.Clone()
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, opID id.ID) (*Operation, error) {
	op, ok := r.ops[opID]
	if !ok {
		return nil, apperror.NewNotFound("operation", opID)
	}
	return op.Clone(), nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*Operation, error) {
	out := make([]*Operation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op.Clone())
	}
	return out, nil
}

func (r *fakeRepo) ListByClient(ctx context.Context, clientID id.ID) ([]*Operation, error) {
	var out []*Operation
	for _, op := range r.ops {
		if op.ClientID == clientID {
			out = append(out, op.Clone())
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, opID id.ID) error {
	if _, ok := r.ops[opID]; !ok {
		return apperror.NewNotFound("operation", opID)
	}
	delete(r.ops, opID)
	return nil
}

// fakeDirectory resolves a single known client.
type fakeDirectory struct {
	client *client.Client
}

func (d *fakeDirectory) FindByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	if d.client != nil && d.client.ID == clientID {
		return d.client, nil
	}
	return nil, apperror.NewNotFound("client", clientID)
}

// serviceNow has 234 ms past a second ending in 0, so generated codes get
// the 0234 suffix.
var serviceNow = time.Date(2024, 5, 10, 12, 0, 0, 234_000_000, time.UTC)

func newTestService() (*Service, *fakeRepo, *client.Client) {
	cl := client.New("ABC Construction", client.TypeOwner)
	repo := newFakeRepo()
	clk := clock.At(serviceNow)
	svc := NewService(repo, &fakeDirectory{client: cl}, codegen.New(clk), clk)
	return svc, repo, cl
}

func createInput(clientID id.ID) CreateInput {
	return CreateInput{
		Name:     "Tower Project",
		ClientID: clientID,
		Items: []OperationItem{
			{Description: "Foundation", Amount: types.NewMoneyFromInt(1000), ExecutionPercentage: types.NewMoneyFromInt(50)},
			{Description: "Structure", Amount: types.NewMoneyFromInt(2000), ExecutionPercentage: types.NewMoneyFromInt(25)},
		},
	}
}

func TestCreateSeedsDefaultDeductions(t *testing.T) {
	svc, _, cl := newTestService()

	op, err := svc.Create(context.Background(), createInput(cl.ID))
	require.NoError(t, err)

	require.Len(t, op.Deductions, 4)
	names := make([]string, 0, 4)
	for _, d := range op.Deductions {
		names = append(names, d.Name)
		assert.True(t, d.IsActive)
		assert.False(t, id.IsNil(d.ID))
	}
	assert.Equal(t, []string{
		"Withholding tax",
		"Contracting insurance",
		"Irregular labor fund",
		"Engineering stamp duty",
	}, names)
}

func TestCreateExplicitEmptyDeductions(t *testing.T) {
	svc, _, cl := newTestService()

	in := createInput(cl.ID)
	in.Deductions = []Deduction{}

	op, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, op.Deductions)
}

func TestCreateGeneratesCodes(t *testing.T) {
	svc, _, cl := newTestService()

	op, err := svc.Create(context.Background(), createInput(cl.ID))
	require.NoError(t, err)

	assert.Equal(t, "ABC-TOW-0234", op.Code)
	require.Len(t, op.Items, 2)
	assert.Equal(t, op.Code+"-001", op.Items[0].Code)
	assert.Equal(t, op.Code+"-002", op.Items[1].Code)
}

func TestCreateRefreshesSnapshots(t *testing.T) {
	svc, _, cl := newTestService()

	op, err := svc.Create(context.Background(), createInput(cl.ID))
	require.NoError(t, err)

	moneyEqual(t, "3000", op.TotalAmount)
	moneyEqual(t, "0", op.TotalReceived)
	moneyEqual(t, "33.33", op.OverallExecutionPercentage.Round(2))
	assert.Equal(t, StatusInProgress, op.Status)
}

func TestCreateUnknownClient(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), createInput(id.New()))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateUnknownDeductionType(t *testing.T) {
	svc, _, cl := newTestService()

	in := createInput(cl.ID)
	in.Deductions = []Deduction{
		{Name: "Mystery", Type: "mystery", Value: types.NewMoneyFromInt(1), IsActive: true},
	}

	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnknownDeductionType, appErr.Code)
}

func TestAddItemAssignsNextCode(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	op, err := svc.Create(ctx, createInput(cl.ID))
	require.NoError(t, err)

	op, err = svc.AddItem(ctx, op.ID, OperationItem{
		Description: "Finishing",
		Amount:      types.NewMoneyFromInt(500),
	})
	require.NoError(t, err)

	require.Len(t, op.Items, 3)
	assert.Equal(t, op.Code+"-003", op.Items[2].Code)
	moneyEqual(t, "3500", op.TotalAmount)
}

func TestRemoveItemRenumbers(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	in := createInput(cl.ID)
	in.Items = append(in.Items, OperationItem{
		Description: "Finishing",
		Amount:      types.NewMoneyFromInt(500),
	})

	op, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.Len(t, op.Items, 3)

	// Removing the middle item closes the gap: the third item becomes -002.
	op, err = svc.RemoveItem(ctx, op.ID, op.Items[1].ID)
	require.NoError(t, err)

	require.Len(t, op.Items, 2)
	assert.Equal(t, "Foundation", op.Items[0].Description)
	assert.Equal(t, "Finishing", op.Items[1].Description)
	assert.Equal(t, op.Code+"-001", op.Items[0].Code)
	assert.Equal(t, op.Code+"-002", op.Items[1].Code)
}

func TestRemoveItemNotFound(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	op, err := svc.Create(ctx, createInput(cl.ID))
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, op.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddPaymentUpdatesStatus(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	in := createInput(cl.ID)
	for i := range in.Items {
		in.Items[i].ExecutionPercentage = types.Hundred
	}
	in.Deductions = []Deduction{}

	op, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, StatusCompletedPartialPayment, op.Status)

	op, err = svc.AddPayment(ctx, op.ID, ReceivedPayment{
		Type:   PaymentCash,
		Amount: types.NewMoneyFromInt(3000),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, op.Status)
	moneyEqual(t, "3000", op.TotalReceived)
	require.Len(t, op.ReceivedPayments, 1)
	assert.False(t, id.IsNil(op.ReceivedPayments[0].ID))
	assert.Equal(t, serviceNow, op.ReceivedPayments[0].Date)
}

func TestAddPaymentUnknownType(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	op, err := svc.Create(ctx, createInput(cl.ID))
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, op.ID, ReceivedPayment{
		Type:   "barter",
		Amount: types.NewMoneyFromInt(100),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnknownPaymentType, appErr.Code)
}

func TestReturnGuaranteeCheck(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	in := createInput(cl.ID)
	in.GuaranteeChecks = []GuaranteeCheck{
		{CheckNumber: "CHK-100", Amount: types.NewMoneyFromInt(5000), Bank: "NBE", ExpiryDate: serviceNow.AddDate(1, 0, 0), RelatedTo: RelatedToOperation},
	}

	op, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.Len(t, op.GuaranteeChecks, 1)
	assert.False(t, op.GuaranteeChecks[0].IsReturned)

	op, err = svc.ReturnGuaranteeCheck(ctx, op.ID, op.GuaranteeChecks[0].ID)
	require.NoError(t, err)

	assert.True(t, op.GuaranteeChecks[0].IsReturned)
	require.NotNil(t, op.GuaranteeChecks[0].ReturnDate)
	assert.Equal(t, serviceNow, *op.GuaranteeChecks[0].ReturnDate)
}

func TestCreateRecalculatesWarrantyEndDates(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	in := createInput(cl.ID)
	in.WarrantyCertificates = []WarrantyCertificate{
		{
			CertificateNumber:    "WC-1",
			StartDate:            start,
			EndDate:              start, // stale, must be recomputed
			WarrantyPeriodMonths: 12,
			RelatedTo:            RelatedToOperation,
			IsActive:             true,
		},
	}

	op, err := svc.Create(ctx, in)
	require.NoError(t, err)

	require.Len(t, op.WarrantyCertificates, 1)
	assert.Equal(t, start.AddDate(0, 12, 0), op.WarrantyCertificates[0].EndDate)
}

func TestExpiringGuarantees(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	in := createInput(cl.ID)
	in.GuaranteeChecks = []GuaranteeCheck{
		{CheckNumber: "CHK-EXPIRED", ExpiryDate: serviceNow.AddDate(0, 0, -5), RelatedTo: RelatedToOperation},
		{CheckNumber: "CHK-SOON", ExpiryDate: serviceNow.AddDate(0, 0, 10), RelatedTo: RelatedToOperation},
		{CheckNumber: "CHK-SAFE", ExpiryDate: serviceNow.AddDate(1, 0, 0), RelatedTo: RelatedToOperation},
	}
	in.GuaranteeLetters = []GuaranteeLetter{
		{LetterNumber: "LTR-SOON", DueDate: serviceNow.AddDate(0, 0, 20), RelatedTo: RelatedToOperation},
	}

	op, err := svc.Create(ctx, in)
	require.NoError(t, err)

	// Returned instruments drop out of the warning list.
	_, err = svc.ReturnGuaranteeCheck(ctx, op.ID, op.GuaranteeChecks[1].ID)
	require.NoError(t, err)

	expiring, err := svc.ExpiringGuarantees(ctx)
	require.NoError(t, err)

	byNumber := make(map[string]ExpiringGuarantee, len(expiring))
	for _, g := range expiring {
		byNumber[g.Number] = g
	}

	require.Len(t, expiring, 2)
	assert.Equal(t, ExpiryExpired, byNumber["CHK-EXPIRED"].Status)
	assert.Equal(t, ExpiryExpiringSoon, byNumber["LTR-SOON"].Status)
	assert.Equal(t, 20, byNumber["LTR-SOON"].DaysLeft)
	assert.NotContains(t, byNumber, "CHK-SOON")
	assert.NotContains(t, byNumber, "CHK-SAFE")
}

func TestUpdateKeepsOperationCode(t *testing.T) {
	svc, _, cl := newTestService()
	ctx := context.Background()

	op, err := svc.Create(ctx, createInput(cl.ID))
	require.NoError(t, err)
	code := op.Code

	in := createInput(cl.ID)
	in.Name = "Tower Project Phase 2"

	updated, err := svc.Update(ctx, op.ID, in)
	require.NoError(t, err)

	assert.Equal(t, code, updated.Code)
	assert.Equal(t, "Tower Project Phase 2", updated.Name)
}

func TestSummaryNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Summary(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
