// Package operation provides the Operation aggregate and the financial
// derivation engine that turns its raw records (line items, deduction rules,
// received payments) into the authoritative figures every consumer displays.
//
// Raw entities are the source of truth. The snapshot fields on Operation
// (TotalAmount, TotalReceived, OverallExecutionPercentage, Status) are
// refreshed by the service on every mutation and exist for listing
// convenience only; read paths that need live figures call Summarize.
package operation

import (
	"context"
	"time"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
)

// Status is the lifecycle state of an operation.
type Status string

const (
	StatusInProgress              Status = "in_progress"
	StatusCompleted               Status = "completed"
	StatusCompletedPartialPayment Status = "completed_partial_payment"

	// StatusCompletedFullPayment appears in imported data and report label
	// tables but is never produced by the classifier.
	StatusCompletedFullPayment Status = "completed_full_payment"
)

// Label returns the display name used in reports.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCompletedPartialPayment:
		return "Completed - Partial Payment"
	case StatusCompletedFullPayment:
		return "Completed - Full Payment"
	default:
		return "Unknown"
	}
}

// DeductionType distinguishes percentage-of-executed from fixed deductions.
type DeductionType string

const (
	DeductionPercentage DeductionType = "percentage"
	DeductionFixed      DeductionType = "fixed"
)

// PaymentType distinguishes cash from check payments.
type PaymentType string

const (
	PaymentCash  PaymentType = "cash"
	PaymentCheck PaymentType = "check"
)

// Label returns the display name used in reports.
func (t PaymentType) Label() string {
	if t == PaymentCash {
		return "Cash"
	}
	return "Check"
}

// RelatedTo scopes a guarantee or warranty to the whole operation or to a
// single line item.
type RelatedTo string

const (
	RelatedToOperation RelatedTo = "operation"
	RelatedToItem      RelatedTo = "item"
)

// OperationItem is one billable line of work.
type OperationItem struct {
	ID id.ID `json:"id"`

	// Code is derived from the parent operation code and the item's position;
	// it is regenerated whenever the position changes.
	Code string `json:"code"`

	Description string `json:"description"`

	// Amount is the full contracted value of this line.
	Amount types.Money `json:"amount"`

	// ExecutionPercentage in [0,100] is the completed fraction of Amount.
	ExecutionPercentage types.Percent `json:"executionPercentage"`

	ContractNumber string     `json:"contractNumber,omitempty"`
	ContractDate   *time.Time `json:"contractDate,omitempty"`

	AddedAt time.Time `json:"addedAt"`
}

// Validate checks item invariants.
func (i *OperationItem) Validate(ctx context.Context) error {
	if i.Description == "" {
		return apperror.NewValidation("item description is required").
			WithDetail("field", "description").
			WithDetail("item_id", i.ID.String())
	}
	if i.Amount.IsNegative() {
		return apperror.NewValidation("item amount must not be negative").
			WithDetail("field", "amount").
			WithDetail("item_id", i.ID.String())
	}
	if i.ExecutionPercentage.IsNegative() || i.ExecutionPercentage.GreaterThan(types.Hundred) {
		return apperror.NewValidation("execution percentage must be between 0 and 100").
			WithDetail("field", "executionPercentage").
			WithDetail("item_id", i.ID.String())
	}
	return nil
}

// Deduction is a withholding rule applied against executed value.
// Percentage deductions are always computed against the executed total,
// never the full contracted total.
type Deduction struct {
	ID   id.ID         `json:"id"`
	Name string        `json:"name"`
	Type DeductionType `json:"type"`

	// Value is percentage points or an absolute amount, depending on Type.
	Value types.Money `json:"value"`

	// IsActive gates the rule; inactive deductions contribute nothing.
	IsActive bool `json:"isActive"`
}

// Validate checks deduction invariants.
func (d *Deduction) Validate(ctx context.Context) error {
	if d.Type != DeductionPercentage && d.Type != DeductionFixed {
		return apperror.NewUnknownDeductionType(d.ID.String(), string(d.Type))
	}
	if d.Value.IsNegative() {
		return apperror.NewValidation("deduction value must not be negative").
			WithDetail("field", "value").
			WithDetail("deduction_id", d.ID.String())
	}
	return nil
}

// DefaultDeductions returns the standard set seeded on every new operation.
// The set is freely editable afterwards.
func DefaultDeductions() []Deduction {
	return []Deduction{
		{ID: id.New(), Name: "Withholding tax", Type: DeductionPercentage, Value: types.NewMoneyFromInt(1), IsActive: true},
		{ID: id.New(), Name: "Contracting insurance", Type: DeductionPercentage, Value: types.MustMoney("2.5"), IsActive: true},
		{ID: id.New(), Name: "Irregular labor fund", Type: DeductionPercentage, Value: types.NewMoneyFromInt(1), IsActive: true},
		{ID: id.New(), Name: "Engineering stamp duty", Type: DeductionFixed, Value: types.NewMoneyFromInt(500), IsActive: true},
	}
}

// GuaranteeCheck is a bank check held as security for the contract.
type GuaranteeCheck struct {
	ID          id.ID       `json:"id"`
	CheckNumber string      `json:"checkNumber"`
	Amount      types.Money `json:"amount"`
	Bank        string      `json:"bank"`

	CheckDate    time.Time `json:"checkDate"`
	DeliveryDate time.Time `json:"deliveryDate"`
	ExpiryDate   time.Time `json:"expiryDate"`

	RelatedTo     RelatedTo `json:"relatedTo"`
	RelatedItemID *id.ID    `json:"relatedItemId,omitempty"`

	IsReturned bool       `json:"isReturned"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// GuaranteeLetter is a bank letter of guarantee securing the contract.
type GuaranteeLetter struct {
	ID           id.ID       `json:"id"`
	LetterNumber string      `json:"letterNumber"`
	Amount       types.Money `json:"amount"`
	Bank         string      `json:"bank"`

	LetterDate time.Time `json:"letterDate"`
	DueDate    time.Time `json:"dueDate"`

	RelatedTo     RelatedTo `json:"relatedTo"`
	RelatedItemID *id.ID    `json:"relatedItemId,omitempty"`

	IsReturned bool       `json:"isReturned"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// WarrantyCertificate is a post-completion defect-liability record.
type WarrantyCertificate struct {
	ID                id.ID  `json:"id"`
	CertificateNumber string `json:"certificateNumber"`
	Description       string `json:"description"`

	IssueDate time.Time `json:"issueDate"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	WarrantyPeriodMonths int `json:"warrantyPeriodMonths"`

	RelatedTo     RelatedTo `json:"relatedTo"`
	RelatedItemID *id.ID    `json:"relatedItemId,omitempty"`

	IsActive bool   `json:"isActive"`
	Notes    string `json:"notes,omitempty"`
}

// RecalculateEndDate re-anchors EndDate to StartDate plus the warranty
// period. Call whenever StartDate or WarrantyPeriodMonths changes.
func (w *WarrantyCertificate) RecalculateEndDate() {
	w.EndDate = WarrantyEndDate(w.StartDate, w.WarrantyPeriodMonths)
}

// ReceivedPayment is a cash or check payment received against an operation.
type ReceivedPayment struct {
	ID     id.ID       `json:"id"`
	Type   PaymentType `json:"type"`
	Amount types.Money `json:"amount"`
	Date   time.Time   `json:"date"`

	// Check fields. ReceiptDate present means the check has cleared;
	// absent means it is still pending.
	CheckNumber string     `json:"checkNumber,omitempty"`
	Bank        string     `json:"bank,omitempty"`
	ReceiptDate *time.Time `json:"receiptDate,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// IsPending reports whether this is a check that has not cleared yet.
func (p *ReceivedPayment) IsPending() bool {
	return p.Type == PaymentCheck && p.ReceiptDate == nil
}

// Validate checks payment invariants.
func (p *ReceivedPayment) Validate(ctx context.Context) error {
	if p.Type != PaymentCash && p.Type != PaymentCheck {
		return apperror.NewUnknownPaymentType(p.ID.String(), string(p.Type))
	}
	if p.Amount.IsNegative() {
		return apperror.NewValidation("payment amount must not be negative").
			WithDetail("field", "amount").
			WithDetail("payment_id", p.ID.String())
	}
	return nil
}

// Operation is the aggregate root: a billable contract tracked end-to-end.
// It exclusively owns its items, deductions, guarantees, warranties and
// payments; the client is referenced by ID only.
type Operation struct {
	ID       id.ID  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	ClientID id.ID  `json:"clientId"`

	// Items order is significant: it drives item code numbering.
	Items []OperationItem `json:"items"`

	Deductions           []Deduction           `json:"deductions"`
	GuaranteeChecks      []GuaranteeCheck      `json:"guaranteeChecks"`
	GuaranteeLetters     []GuaranteeLetter     `json:"guaranteeLetters"`
	WarrantyCertificates []WarrantyCertificate `json:"warrantyCertificates"`
	ReceivedPayments     []ReceivedPayment     `json:"receivedPayments"`

	// Derived snapshots, refreshed on every mutation. Convenience only;
	// Summarize is authoritative.
	TotalAmount                types.Money   `json:"totalAmount"`
	TotalReceived              types.Money   `json:"totalReceived"`
	OverallExecutionPercentage types.Percent `json:"overallExecutionPercentage"`
	Status                     Status        `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the aggregate and all owned entities.
func (o *Operation) Validate(ctx context.Context) error {
	if o.Name == "" {
		return apperror.NewValidation("operation name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(o.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(ctx); err != nil {
			return err
		}
	}
	for i := range o.Deductions {
		if err := o.Deductions[i].Validate(ctx); err != nil {
			return err
		}
	}
	for i := range o.ReceivedPayments {
		if err := o.ReceivedPayments[i].Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FindItem returns the item with the given ID, or nil.
func (o *Operation) FindItem(itemID id.ID) *OperationItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the aggregate.
func (o *Operation) Clone() *Operation {
	cp := *o
	cp.Items = append([]OperationItem(nil), o.Items...)
	cp.Deductions = append([]Deduction(nil), o.Deductions...)
	cp.GuaranteeChecks = append([]GuaranteeCheck(nil), o.GuaranteeChecks...)
	cp.GuaranteeLetters = append([]GuaranteeLetter(nil), o.GuaranteeLetters...)
	cp.WarrantyCertificates = append([]WarrantyCertificate(nil), o.WarrantyCertificates...)
	cp.ReceivedPayments = append([]ReceivedPayment(nil), o.ReceivedPayments...)
	return &cp
}
