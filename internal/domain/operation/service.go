package operation

import (
	"context"
	"time"

	"contractops/internal/core/apperror"
	"contractops/internal/core/clock"
	"contractops/internal/core/codegen"
	"contractops/internal/core/id"
	"contractops/internal/domain/client"
	"contractops/pkg/logger"
)

// ClientDirectory is the subset of the client service the operation service
// needs: resolving a client for code generation and existence checks.
type ClientDirectory interface {
	FindByID(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// Service provides business logic for the Operation aggregate. All derived
// snapshot fields are refreshed on every mutation, so stored figures track
// the raw records.
type Service struct {
	repo    Repository
	clients ClientDirectory
	codes   *codegen.Generator
	clock   clock.Clock
}

// NewService creates a new operation Service.
func NewService(repo Repository, clients ClientDirectory, codes *codegen.Generator, clk clock.Clock) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		codes:   codes,
		clock:   clk,
	}
}

// CreateInput carries everything accepted at operation creation.
// Nil Deductions seeds the standard default set.
type CreateInput struct {
	Name     string
	ClientID id.ID

	Items                []OperationItem
	Deductions           []Deduction
	GuaranteeChecks      []GuaranteeCheck
	GuaranteeLetters     []GuaranteeLetter
	WarrantyCertificates []WarrantyCertificate
	ReceivedPayments     []ReceivedPayment
}

// Create builds, validates and stores a new operation. The operation code is
// generated from the client and operation names; item codes are assigned from
// list position.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Operation, error) {
	cl, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	op := &Operation{
		ID:                   id.New(),
		Code:                 s.codes.OperationCode(cl.Name, in.Name),
		Name:                 in.Name,
		ClientID:             in.ClientID,
		Items:                append([]OperationItem(nil), in.Items...),
		Deductions:           in.Deductions,
		GuaranteeChecks:      append([]GuaranteeCheck(nil), in.GuaranteeChecks...),
		GuaranteeLetters:     append([]GuaranteeLetter(nil), in.GuaranteeLetters...),
		WarrantyCertificates: append([]WarrantyCertificate(nil), in.WarrantyCertificates...),
		ReceivedPayments:     append([]ReceivedPayment(nil), in.ReceivedPayments...),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if op.Deductions == nil {
		op.Deductions = DefaultDeductions()
	} else {
		op.Deductions = append([]Deduction(nil), in.Deductions...)
	}

	s.prepareOwned(op, now)
	renumberItems(op)

	if err := op.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.refreshDerived(op); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}

	logger.Info(ctx, "operation created",
		"operation_id", op.ID,
		"code", op.Code,
		"client_id", op.ClientID,
		"items", len(op.Items),
		"status", op.Status,
	)
	return op, nil
}

// Get retrieves an operation by ID.
func (s *Service) Get(ctx context.Context, opID id.ID) (*Operation, error) {
	return s.repo.FindByID(ctx, opID)
}

// List returns all operations.
func (s *Service) List(ctx context.Context) ([]*Operation, error) {
	return s.repo.List(ctx)
}

// ListByClient returns all operations for one client.
func (s *Service) ListByClient(ctx context.Context, clientID id.ID) ([]*Operation, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Delete removes an operation and everything it owns.
func (s *Service) Delete(ctx context.Context, opID id.ID) error {
	return s.repo.Delete(ctx, opID)
}

// Update replaces the editable parts of an operation. The operation code is
// stable after creation; item codes are renumbered against it.
func (s *Service) Update(ctx context.Context, opID id.ID, in CreateInput) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	if in.ClientID != op.ClientID {
		if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
			return nil, err
		}
		op.ClientID = in.ClientID
	}

	now := s.clock.Now()
	op.Name = in.Name
	op.Items = append([]OperationItem(nil), in.Items...)
	op.Deductions = append([]Deduction(nil), in.Deductions...)
	op.GuaranteeChecks = append([]GuaranteeCheck(nil), in.GuaranteeChecks...)
	op.GuaranteeLetters = append([]GuaranteeLetter(nil), in.GuaranteeLetters...)
	op.WarrantyCertificates = append([]WarrantyCertificate(nil), in.WarrantyCertificates...)
	op.ReceivedPayments = append([]ReceivedPayment(nil), in.ReceivedPayments...)
	op.UpdatedAt = now

	s.prepareOwned(op, now)
	renumberItems(op)

	if err := op.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.refreshDerived(op); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddItem appends a line item, assigning the next contiguous code.
func (s *Service) AddItem(ctx context.Context, opID id.ID, item OperationItem) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	if id.IsNil(item.ID) {
		item.ID = id.New()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = s.clock.Now()
	}
	item.Code = codegen.ItemCode(op.Code, len(op.Items))

	if err := item.Validate(ctx); err != nil {
		return nil, err
	}

	op.Items = append(op.Items, item)
	return s.saveMutated(ctx, op)
}

// RemoveItem removes a line item and renumbers the remaining codes so the
// sequence stays contiguous from 001.
func (s *Service) RemoveItem(ctx context.Context, opID, itemID id.ID) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	kept := op.Items[:0:0]
	for _, it := range op.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(op.Items) {
		return nil, apperror.NewNotFound("operation item", itemID)
	}

	op.Items = kept
	renumberItems(op)
	return s.saveMutated(ctx, op)
}

// AddPayment records a received payment.
func (s *Service) AddPayment(ctx context.Context, opID id.ID, payment ReceivedPayment) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	if id.IsNil(payment.ID) {
		payment.ID = id.New()
	}
	if payment.Date.IsZero() {
		payment.Date = s.clock.Now()
	}
	if err := payment.Validate(ctx); err != nil {
		return nil, err
	}

	op.ReceivedPayments = append(op.ReceivedPayments, payment)
	return s.saveMutated(ctx, op)
}

// ReturnGuaranteeCheck marks a guarantee check as returned.
func (s *Service) ReturnGuaranteeCheck(ctx context.Context, opID, checkID id.ID) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	for i := range op.GuaranteeChecks {
		if op.GuaranteeChecks[i].ID == checkID {
			now := s.clock.Now()
			op.GuaranteeChecks[i].IsReturned = true
			op.GuaranteeChecks[i].ReturnDate = &now
			return s.saveMutated(ctx, op)
		}
	}
	return nil, apperror.NewNotFound("guarantee check", checkID)
}

// ReturnGuaranteeLetter marks a guarantee letter as returned.
func (s *Service) ReturnGuaranteeLetter(ctx context.Context, opID, letterID id.ID) (*Operation, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}

	for i := range op.GuaranteeLetters {
		if op.GuaranteeLetters[i].ID == letterID {
			now := s.clock.Now()
			op.GuaranteeLetters[i].IsReturned = true
			op.GuaranteeLetters[i].ReturnDate = &now
			return s.saveMutated(ctx, op)
		}
	}
	return nil, apperror.NewNotFound("guarantee letter", letterID)
}

// Summary re-derives the financial summary for one operation.
func (s *Service) Summary(ctx context.Context, opID id.ID) (FinancialSummary, error) {
	op, err := s.repo.FindByID(ctx, opID)
	if err != nil {
		return FinancialSummary{}, err
	}
	return Summarize(op)
}

// ExpiringGuarantee is one unreturned guarantee instrument with its derived
// expiry classification.
type ExpiringGuarantee struct {
	OperationID   id.ID        `json:"operationId"`
	OperationCode string       `json:"operationCode"`
	Kind          string       `json:"kind"` // "check" or "letter"
	Number        string       `json:"number"`
	Bank          string       `json:"bank"`
	ExpiryDate    time.Time    `json:"expiryDate"`
	DaysLeft      int          `json:"daysLeft"`
	Status        ExpiryStatus `json:"status"`
}

// ExpiringGuarantees lists all unreturned guarantees that are expired or
// expiring within the warning window, across every operation.
func (s *Service) ExpiringGuarantees(ctx context.Context) ([]ExpiringGuarantee, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var out []ExpiringGuarantee
	for _, op := range ops {
		for i := range op.GuaranteeChecks {
			c := &op.GuaranteeChecks[i]
			if c.IsReturned {
				continue
			}
			if st := ClassifyExpiryAt(c.ExpiryDate, now); st != ExpiryActive {
				out = append(out, ExpiringGuarantee{
					OperationID:   op.ID,
					OperationCode: op.Code,
					Kind:          "check",
					Number:        c.CheckNumber,
					Bank:          c.Bank,
					ExpiryDate:    c.ExpiryDate,
					DaysLeft:      DaysUntil(c.ExpiryDate, now),
					Status:        st,
				})
			}
		}
		for i := range op.GuaranteeLetters {
			l := &op.GuaranteeLetters[i]
			if l.IsReturned {
				continue
			}
			if st := ClassifyExpiryAt(l.DueDate, now); st != ExpiryActive {
				out = append(out, ExpiringGuarantee{
					OperationID:   op.ID,
					OperationCode: op.Code,
					Kind:          "letter",
					Number:        l.LetterNumber,
					Bank:          l.Bank,
					ExpiryDate:    l.DueDate,
					DaysLeft:      DaysUntil(l.DueDate, now),
					Status:        st,
				})
			}
		}
	}
	return out, nil
}

// saveMutated refreshes derived snapshots and persists.
func (s *Service) saveMutated(ctx context.Context, op *Operation) (*Operation, error) {
	op.UpdatedAt = s.clock.Now()
	if err := s.refreshDerived(op); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// refreshDerived rewrites the snapshot fields from the raw records. Keeping
// this on every write path means a stored operation can never disagree with
// the derivation engine.
func (s *Service) refreshDerived(op *Operation) error {
	summary, err := Summarize(op)
	if err != nil {
		return err
	}
	op.TotalAmount = summary.TotalAmount
	op.TotalReceived = summary.TotalReceived
	op.OverallExecutionPercentage = summary.CompletionPercentage
	op.Status = ClassifyStatus(op.Items, op.ReceivedPayments)
	return nil
}

// prepareOwned assigns IDs and timestamps to owned entities that lack them
// and recomputes warranty end dates from their periods.
func (s *Service) prepareOwned(op *Operation, now time.Time) {
	for i := range op.Items {
		if id.IsNil(op.Items[i].ID) {
			op.Items[i].ID = id.New()
		}
		if op.Items[i].AddedAt.IsZero() {
			op.Items[i].AddedAt = now
		}
	}
	for i := range op.Deductions {
		if id.IsNil(op.Deductions[i].ID) {
			op.Deductions[i].ID = id.New()
		}
	}
	for i := range op.GuaranteeChecks {
		if id.IsNil(op.GuaranteeChecks[i].ID) {
			op.GuaranteeChecks[i].ID = id.New()
		}
	}
	for i := range op.GuaranteeLetters {
		if id.IsNil(op.GuaranteeLetters[i].ID) {
			op.GuaranteeLetters[i].ID = id.New()
		}
	}
	for i := range op.WarrantyCertificates {
		w := &op.WarrantyCertificates[i]
		if id.IsNil(w.ID) {
			w.ID = id.New()
		}
		w.RecalculateEndDate()
	}
	for i := range op.ReceivedPayments {
		if id.IsNil(op.ReceivedPayments[i].ID) {
			op.ReceivedPayments[i].ID = id.New()
		}
	}
}

// renumberItems regenerates every item code from list position so the
// sequence is contiguous starting at 001.
func renumberItems(op *Operation) {
	for i := range op.Items {
		op.Items[i].Code = codegen.ItemCode(op.Code, i)
	}
}
