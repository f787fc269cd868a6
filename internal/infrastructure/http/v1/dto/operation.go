package dto

import (
	"time"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/operation"
)

// ItemRequest is one line item in an operation payload.
type ItemRequest struct {
	Description         string        `json:"description" binding:"required"`
	Amount              types.Money   `json:"amount"`
	ExecutionPercentage types.Percent `json:"executionPercentage"`
	ContractNumber      string        `json:"contractNumber"`
	ContractDate        *time.Time    `json:"contractDate"`
}

// DeductionRequest is one withholding rule in an operation payload.
type DeductionRequest struct {
	Name     string      `json:"name" binding:"required"`
	Type     string      `json:"type" binding:"required,oneof=percentage fixed"`
	Value    types.Money `json:"value"`
	IsActive *bool       `json:"isActive"`
}

// GuaranteeCheckRequest is one guarantee check in an operation payload.
type GuaranteeCheckRequest struct {
	CheckNumber  string      `json:"checkNumber" binding:"required"`
	Amount       types.Money `json:"amount"`
	Bank         string      `json:"bank"`
	CheckDate    time.Time   `json:"checkDate"`
	DeliveryDate time.Time   `json:"deliveryDate"`
	ExpiryDate   time.Time   `json:"expiryDate"`
	RelatedTo    string      `json:"relatedTo" binding:"omitempty,oneof=operation item"`
	RelatedItem  *string     `json:"relatedItemId"`
	Notes        string      `json:"notes"`
}

// GuaranteeLetterRequest is one guarantee letter in an operation payload.
type GuaranteeLetterRequest struct {
	LetterNumber string      `json:"letterNumber" binding:"required"`
	Amount       types.Money `json:"amount"`
	Bank         string      `json:"bank"`
	LetterDate   time.Time   `json:"letterDate"`
	DueDate      time.Time   `json:"dueDate"`
	RelatedTo    string      `json:"relatedTo" binding:"omitempty,oneof=operation item"`
	RelatedItem  *string     `json:"relatedItemId"`
	Notes        string      `json:"notes"`
}

// WarrantyCertificateRequest is one warranty certificate in an operation
// payload. EndDate is always derived from StartDate and the period.
type WarrantyCertificateRequest struct {
	CertificateNumber    string    `json:"certificateNumber" binding:"required"`
	Description          string    `json:"description"`
	IssueDate            time.Time `json:"issueDate"`
	StartDate            time.Time `json:"startDate"`
	WarrantyPeriodMonths int       `json:"warrantyPeriodMonths" binding:"min=0"`
	RelatedTo            string    `json:"relatedTo" binding:"omitempty,oneof=operation item"`
	RelatedItem          *string   `json:"relatedItemId"`
	IsActive             *bool     `json:"isActive"`
	Notes                string    `json:"notes"`
}

// PaymentRequest is one received payment in an operation payload.
type PaymentRequest struct {
	Type        string      `json:"type" binding:"required,oneof=cash check"`
	Amount      types.Money `json:"amount"`
	Date        time.Time   `json:"date"`
	CheckNumber string      `json:"checkNumber"`
	Bank        string      `json:"bank"`
	ReceiptDate *time.Time  `json:"receiptDate"`
	Notes       string      `json:"notes"`
}

// CreateOperationRequest for creating operations. An omitted deductions
// field seeds the standard defaults; an explicit empty array means none.
type CreateOperationRequest struct {
	Name     string `json:"name" binding:"required"`
	ClientID string `json:"clientId" binding:"required,uuid"`

	Items                []ItemRequest                `json:"items"`
	Deductions           []DeductionRequest           `json:"deductions"`
	GuaranteeChecks      []GuaranteeCheckRequest      `json:"guaranteeChecks"`
	GuaranteeLetters     []GuaranteeLetterRequest     `json:"guaranteeLetters"`
	WarrantyCertificates []WarrantyCertificateRequest `json:"warrantyCertificates"`
	ReceivedPayments     []PaymentRequest             `json:"receivedPayments"`
}

// UpdateOperationRequest for updating operations. Same shape as create; the
// aggregate is replaced and all derived figures recomputed.
type UpdateOperationRequest = CreateOperationRequest

// ToInput maps the request onto the service input.
func (r CreateOperationRequest) ToInput() (operation.CreateInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return operation.CreateInput{}, apperror.NewValidation("invalid client id").
			WithDetail("field", "clientId").
			WithDetail("value", r.ClientID)
	}

	in := operation.CreateInput{
		Name:     r.Name,
		ClientID: clientID,
	}

	for _, it := range r.Items {
		in.Items = append(in.Items, it.ToItem())
	}
	if r.Deductions != nil {
		in.Deductions = make([]operation.Deduction, 0, len(r.Deductions))
		for _, d := range r.Deductions {
			in.Deductions = append(in.Deductions, d.toDeduction())
		}
	}
	for _, g := range r.GuaranteeChecks {
		check, err := g.toCheck()
		if err != nil {
			return operation.CreateInput{}, err
		}
		in.GuaranteeChecks = append(in.GuaranteeChecks, check)
	}
	for _, g := range r.GuaranteeLetters {
		letter, err := g.toLetter()
		if err != nil {
			return operation.CreateInput{}, err
		}
		in.GuaranteeLetters = append(in.GuaranteeLetters, letter)
	}
	for _, w := range r.WarrantyCertificates {
		warranty, err := w.toWarranty()
		if err != nil {
			return operation.CreateInput{}, err
		}
		in.WarrantyCertificates = append(in.WarrantyCertificates, warranty)
	}
	for _, p := range r.ReceivedPayments {
		in.ReceivedPayments = append(in.ReceivedPayments, p.ToPayment())
	}

	return in, nil
}

// ToItem maps the request onto a domain item. Exported for the add-item
// endpoint.
func (r ItemRequest) ToItem() operation.OperationItem {
	return operation.OperationItem{
		Description:         r.Description,
		Amount:              r.Amount,
		ExecutionPercentage: r.ExecutionPercentage,
		ContractNumber:      r.ContractNumber,
		ContractDate:        r.ContractDate,
	}
}

func (r DeductionRequest) toDeduction() operation.Deduction {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return operation.Deduction{
		Name:     r.Name,
		Type:     operation.DeductionType(r.Type),
		Value:    r.Value,
		IsActive: active,
	}
}

func (r GuaranteeCheckRequest) toCheck() (operation.GuaranteeCheck, error) {
	relatedTo, relatedItem, err := parseRelated(r.RelatedTo, r.RelatedItem)
	if err != nil {
		return operation.GuaranteeCheck{}, err
	}
	return operation.GuaranteeCheck{
		CheckNumber:   r.CheckNumber,
		Amount:        r.Amount,
		Bank:          r.Bank,
		CheckDate:     r.CheckDate,
		DeliveryDate:  r.DeliveryDate,
		ExpiryDate:    r.ExpiryDate,
		RelatedTo:     relatedTo,
		RelatedItemID: relatedItem,
		Notes:         r.Notes,
	}, nil
}

func (r GuaranteeLetterRequest) toLetter() (operation.GuaranteeLetter, error) {
	relatedTo, relatedItem, err := parseRelated(r.RelatedTo, r.RelatedItem)
	if err != nil {
		return operation.GuaranteeLetter{}, err
	}
	return operation.GuaranteeLetter{
		LetterNumber:  r.LetterNumber,
		Amount:        r.Amount,
		Bank:          r.Bank,
		LetterDate:    r.LetterDate,
		DueDate:       r.DueDate,
		RelatedTo:     relatedTo,
		RelatedItemID: relatedItem,
		Notes:         r.Notes,
	}, nil
}

func (r WarrantyCertificateRequest) toWarranty() (operation.WarrantyCertificate, error) {
	relatedTo, relatedItem, err := parseRelated(r.RelatedTo, r.RelatedItem)
	if err != nil {
		return operation.WarrantyCertificate{}, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return operation.WarrantyCertificate{
		CertificateNumber:    r.CertificateNumber,
		Description:          r.Description,
		IssueDate:            r.IssueDate,
		StartDate:            r.StartDate,
		WarrantyPeriodMonths: r.WarrantyPeriodMonths,
		RelatedTo:            relatedTo,
		RelatedItemID:        relatedItem,
		IsActive:             active,
		Notes:                r.Notes,
	}, nil
}

// ToPayment maps the request onto a domain payment. Exported for the
// add-payment endpoint.
func (r PaymentRequest) ToPayment() operation.ReceivedPayment {
	return operation.ReceivedPayment{
		Type:        operation.PaymentType(r.Type),
		Amount:      r.Amount,
		Date:        r.Date,
		CheckNumber: r.CheckNumber,
		Bank:        r.Bank,
		ReceiptDate: r.ReceiptDate,
		Notes:       r.Notes,
	}
}

// parseRelated normalizes the related-to scope. Empty defaults to the whole
// operation; an item scope requires a valid item ID.
func parseRelated(relatedTo string, relatedItem *string) (operation.RelatedTo, *id.ID, error) {
	if relatedTo == "" || relatedTo == string(operation.RelatedToOperation) {
		return operation.RelatedToOperation, nil, nil
	}
	if relatedItem == nil {
		return "", nil, apperror.NewValidation("relatedItemId is required for item-scoped records").
			WithDetail("field", "relatedItemId")
	}
	itemID, err := id.Parse(*relatedItem)
	if err != nil {
		return "", nil, apperror.NewValidation("invalid related item id").
			WithDetail("field", "relatedItemId").
			WithDetail("value", *relatedItem)
	}
	return operation.RelatedToItem, &itemID, nil
}
