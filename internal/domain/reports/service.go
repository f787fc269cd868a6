package reports

import (
	"context"
	"fmt"

	"contractops/internal/core/clock"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/client"
	"contractops/internal/domain/operation"
)

// Service joins operations with the client directory and derives report
// rows. All figures are recomputed through the derivation engine at build
// time; nothing is read from stored snapshots.
type Service struct {
	operations operation.Repository
	clients    client.Repository
	clock      clock.Clock
}

// NewService creates a reports Service.
func NewService(operations operation.Repository, clients client.Repository, clk clock.Clock) *Service {
	return &Service{operations: operations, clients: clients, clock: clk}
}

// clientIndex resolves client IDs to records, with the Unknown sentinel for
// dangling references.
type clientIndex map[id.ID]*client.Client

func (idx clientIndex) name(clientID id.ID) string {
	if c, ok := idx[clientID]; ok {
		return c.Name
	}
	return UnknownClientLabel
}

func (idx clientIndex) typeLabel(clientID id.ID) string {
	if c, ok := idx[clientID]; ok {
		return c.Type.Label()
	}
	return UnknownClientLabel
}

func (s *Service) loadIndex(ctx context.Context) (clientIndex, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(clientIndex, len(clients))
	for _, c := range clients {
		idx[c.ID] = c
	}
	return idx, nil
}

// Operations builds the fleet-wide operations report.
func (s *Service) Operations(ctx context.Context) (*OperationsReport, error) {
	ops, err := s.operations.List(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]OperationRow, 0, len(ops))
	for _, op := range ops {
		summary, err := operation.Summarize(op)
		if err != nil {
			return nil, err
		}
		rows = append(rows, OperationRow{
			OperationID:     op.ID,
			Code:            op.Code,
			Name:            op.Name,
			ClientName:      idx.name(op.ClientID),
			ClientTypeLabel: idx.typeLabel(op.ClientID),
			TotalAmount:     summary.TotalAmount,
			TotalDeductions: summary.TotalDeductions,
			NetAmount:       summary.NetAmount,
			TotalReceived:   summary.TotalReceived,
			RemainingAmount: summary.NetDue,
			Completion:      summary.CompletionPercentage,
			StatusLabel:     op.Status.Label(),
			ItemsCount:      len(op.Items),
			ChecksCount:     len(op.GuaranteeChecks),
			LettersCount:    len(op.GuaranteeLetters),
			WarrantiesCount: len(op.WarrantyCertificates),
			PaymentsCount:   len(op.ReceivedPayments),
			CreatedAt:       op.CreatedAt,
			UpdatedAt:       op.UpdatedAt,
		})
	}

	totals, err := operation.SummarizeAll(ops)
	if err != nil {
		return nil, err
	}

	return &OperationsReport{
		GeneratedAt: s.clock.Now(),
		Rows:        rows,
		Totals:      totals,
	}, nil
}

// Details builds the single-operation report.
func (s *Service) Details(ctx context.Context, opID id.ID) (*OperationDetails, error) {
	op, err := s.operations.FindByID(ctx, opID)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := operation.Summarize(op)
	if err != nil {
		return nil, err
	}

	items := make([]ItemRow, 0, len(op.Items))
	for _, it := range op.Items {
		items = append(items, ItemRow{
			Code:          it.Code,
			Description:   it.Description,
			Amount:        it.Amount,
			Completion:    it.ExecutionPercentage,
			ExecutedValue: operation.ItemExecutedValue(it),
		})
	}

	// Only active deductions appear in the details table.
	deductions := make([]DeductionRow, 0, len(op.Deductions))
	for _, d := range op.Deductions {
		if !d.IsActive {
			continue
		}
		amount, err := operation.DeductionAmount(summary.ExecutedAmount, d)
		if err != nil {
			return nil, err
		}
		rate := "Fixed Amount"
		if d.Type == operation.DeductionPercentage {
			rate = fmt.Sprintf("%s%%", d.Value.String())
		}
		deductions = append(deductions, DeductionRow{Name: d.Name, Rate: rate, Amount: amount})
	}

	now := s.clock.Now()
	details := &OperationDetails{
		GeneratedAt:     now,
		Code:            op.Code,
		Name:            op.Name,
		ClientName:      idx.name(op.ClientID),
		ClientTypeLabel: idx.typeLabel(op.ClientID),
		CreatedAt:       op.CreatedAt,
		Summary:         summary,
		Items:           items,
		Deductions:      deductions,
		Checks:          s.guaranteeCheckRows(op, idx),
		Letters:         s.guaranteeLetterRows(op, idx),
		Warranties:      warrantyRows(op, idx),
		Payments:        paymentRows(op, idx),
	}
	return details, nil
}

// ChecksAndPayments builds the flattened payments report.
func (s *Service) ChecksAndPayments(ctx context.Context) (*ChecksAndPaymentsReport, error) {
	ops, err := s.operations.List(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := &ChecksAndPaymentsReport{
		GeneratedAt: s.clock.Now(),
		TotalAmount: types.Zero(),
	}
	for _, op := range ops {
		for _, row := range paymentRows(op, idx) {
			report.Rows = append(report.Rows, row)
			report.TotalAmount = report.TotalAmount.Add(row.Amount)
			if row.TypeLabel == operation.PaymentCheck.Label() {
				report.CheckCount++
				if row.Pending {
					report.PendingChecks++
				}
			} else {
				report.CashCount++
			}
		}
	}
	return report, nil
}

// Guarantees builds the detailed guarantees report.
func (s *Service) Guarantees(ctx context.Context) (*GuaranteesReport, error) {
	ops, err := s.operations.List(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := &GuaranteesReport{
		GeneratedAt: s.clock.Now(),
		TotalAmount: types.Zero(),
	}
	for _, op := range ops {
		report.Checks = append(report.Checks, s.guaranteeCheckRows(op, idx)...)
		report.Letters = append(report.Letters, s.guaranteeLetterRows(op, idx)...)
	}

	for _, rows := range [][]GuaranteeRow{report.Checks, report.Letters} {
		for i := range rows {
			row := &rows[i]
			report.Total++
			report.TotalAmount = report.TotalAmount.Add(row.Amount)
			if row.StatusLabel == "Returned" {
				report.Returned++
				continue
			}
			report.Active++
			switch row.ExpiryStatus {
			case operation.ExpiryExpiringSoon:
				report.ExpiringSoon++
			case operation.ExpiryExpired:
				report.Expired++
			}
		}
	}
	return report, nil
}

// Warranties builds the warranty certificates report.
func (s *Service) Warranties(ctx context.Context) (*WarrantiesReport, error) {
	ops, err := s.operations.List(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := &WarrantiesReport{GeneratedAt: s.clock.Now()}
	for _, op := range ops {
		report.Rows = append(report.Rows, warrantyRows(op, idx)...)
	}
	report.Total = len(report.Rows)
	for i := range report.Rows {
		if report.Rows[i].StatusLabel == "Active" {
			report.Active++
		} else {
			report.Expired++
		}
	}
	return report, nil
}

// Clients builds the client directory report.
func (s *Service) Clients(ctx context.Context) (*ClientsReport, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ClientsReport{GeneratedAt: s.clock.Now(), Total: len(clients)}
	for _, c := range clients {
		row := ClientRow{
			Name:          c.Name,
			TypeLabel:     c.Type.Label(),
			Phone:         c.Phone,
			Email:         c.Email,
			Address:       c.Address,
			ContactsCount: len(c.Contacts),
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		}
		if mc := c.MainContact(); mc != nil {
			row.MainContactName = mc.Name
			row.MainContactPhone = mc.Phone
			row.MainContactEmail = mc.Email
			row.ContactPosition = mc.Position
			row.ContactDepartment = mc.Department
		}
		report.Rows = append(report.Rows, row)

		switch c.Type {
		case client.TypeOwner:
			report.Owners++
		case client.TypeMainContractor:
			report.Contractors++
		case client.TypeConsultant:
			report.Consultants++
		}
	}
	return report, nil
}

// Financial builds the comprehensive financial report with per-client
// statistics.
func (s *Service) Financial(ctx context.Context) (*FinancialReport, error) {
	ops, err := s.operations.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}

	fleet, err := operation.SummarizeAll(ops)
	if err != nil {
		return nil, err
	}

	report := &FinancialReport{
		GeneratedAt:    s.clock.Now(),
		Fleet:          fleet,
		CompletionRate: types.Zero(),
	}
	if fleet.Operations > 0 {
		report.CompletionRate = types.NewMoneyFromInt(int64(fleet.Completed)).
			Div(types.NewMoneyFromInt(int64(fleet.Operations))).
			Mul(types.Hundred)
	}

	for _, c := range clients {
		var clientOps []*operation.Operation
		for _, op := range ops {
			if op.ClientID == c.ID {
				clientOps = append(clientOps, op)
			}
		}
		if len(clientOps) == 0 {
			continue
		}

		totals, err := operation.SummarizeAll(clientOps)
		if err != nil {
			return nil, err
		}
		rate := types.Zero()
		if totals.TotalNetAmount.IsPositive() {
			rate = totals.TotalReceived.Div(totals.TotalNetAmount).Mul(types.Hundred)
		}
		report.Clients = append(report.Clients, ClientFinancialRow{
			ClientName:      c.Name,
			TypeLabel:       c.Type.Label(),
			OperationsCount: len(clientOps),
			TotalAmount:     totals.TotalAmount,
			TotalDeductions: totals.TotalDeductions,
			NetAmount:       totals.TotalNetAmount,
			TotalReceived:   totals.TotalReceived,
			Outstanding:     totals.TotalOutstanding,
			CollectionRate:  rate,
		})
	}
	return report, nil
}

// --- row builders shared across reports ---

func (s *Service) guaranteeCheckRows(op *operation.Operation, idx clientIndex) []GuaranteeRow {
	now := s.clock.Now()
	rows := make([]GuaranteeRow, 0, len(op.GuaranteeChecks))
	for i := range op.GuaranteeChecks {
		c := &op.GuaranteeChecks[i]
		delivery := c.DeliveryDate
		rows = append(rows, GuaranteeRow{
			Kind:          "Guarantee Check",
			Number:        c.CheckNumber,
			Amount:        c.Amount,
			Bank:          c.Bank,
			ClientName:    idx.name(op.ClientID),
			OperationName: op.Name,
			OperationCode: op.Code,
			RelatedItem:   relatedItemLabel(op, c.RelatedTo, c.RelatedItemID),
			IssueDate:     c.CheckDate,
			DeliveryDate:  &delivery,
			ExpiryDate:    c.ExpiryDate,
			StatusLabel:   returnLabel(c.IsReturned),
			ExpiryStatus:  operation.ClassifyExpiryAt(c.ExpiryDate, now),
			ReturnDate:    c.ReturnDate,
			Notes:         c.Notes,
		})
	}
	return rows
}

func (s *Service) guaranteeLetterRows(op *operation.Operation, idx clientIndex) []GuaranteeRow {
	now := s.clock.Now()
	rows := make([]GuaranteeRow, 0, len(op.GuaranteeLetters))
	for i := range op.GuaranteeLetters {
		l := &op.GuaranteeLetters[i]
		rows = append(rows, GuaranteeRow{
			Kind:          "Guarantee Letter",
			Number:        l.LetterNumber,
			Amount:        l.Amount,
			Bank:          l.Bank,
			ClientName:    idx.name(op.ClientID),
			OperationName: op.Name,
			OperationCode: op.Code,
			RelatedItem:   relatedItemLabel(op, l.RelatedTo, l.RelatedItemID),
			IssueDate:     l.LetterDate,
			ExpiryDate:    l.DueDate,
			StatusLabel:   returnLabel(l.IsReturned),
			ExpiryStatus:  operation.ClassifyExpiryAt(l.DueDate, now),
			ReturnDate:    l.ReturnDate,
			Notes:         l.Notes,
		})
	}
	return rows
}

func warrantyRows(op *operation.Operation, idx clientIndex) []WarrantyRow {
	rows := make([]WarrantyRow, 0, len(op.WarrantyCertificates))
	for i := range op.WarrantyCertificates {
		w := &op.WarrantyCertificates[i]
		status := "Expired"
		if w.IsActive {
			status = "Active"
		}
		rows = append(rows, WarrantyRow{
			CertificateNumber: w.CertificateNumber,
			ClientName:        idx.name(op.ClientID),
			OperationName:     op.Name,
			OperationCode:     op.Code,
			RelatedItem:       relatedItemLabel(op, w.RelatedTo, w.RelatedItemID),
			Description:       w.Description,
			IssueDate:         w.IssueDate,
			StartDate:         w.StartDate,
			EndDate:           w.EndDate,
			PeriodMonths:      w.WarrantyPeriodMonths,
			StatusLabel:       status,
			Notes:             w.Notes,
		})
	}
	return rows
}

func paymentRows(op *operation.Operation, idx clientIndex) []PaymentRow {
	rows := make([]PaymentRow, 0, len(op.ReceivedPayments))
	for i := range op.ReceivedPayments {
		p := &op.ReceivedPayments[i]
		rows = append(rows, PaymentRow{
			TypeLabel:     p.Type.Label(),
			Amount:        p.Amount,
			Date:          p.Date,
			ClientName:    idx.name(op.ClientID),
			OperationName: op.Name,
			OperationCode: op.Code,
			CheckNumber:   p.CheckNumber,
			Bank:          p.Bank,
			ReceiptDate:   p.ReceiptDate,
			Pending:       p.IsPending(),
			Notes:         p.Notes,
		})
	}
	return rows
}

func relatedItemLabel(op *operation.Operation, relatedTo operation.RelatedTo, itemID *id.ID) string {
	if relatedTo == operation.RelatedToItem && itemID != nil {
		if item := op.FindItem(*itemID); item != nil {
			return item.Description
		}
	}
	return FullOperationLabel
}

func returnLabel(isReturned bool) string {
	if isReturned {
		return "Returned"
	}
	return "Active"
}
