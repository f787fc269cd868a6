package operation

import (
	"contractops/internal/core/apperror"
	"contractops/internal/core/types"
)

// This file is the financial derivation engine: pure, stateless computations
// from raw records to authoritative figures. Every function here is total for
// well-typed input and safe to re-run on every read.

// ItemExecutedValue returns the executed portion of a line item:
// amount * executionPercentage / 100.
func ItemExecutedValue(item OperationItem) types.Money {
	return item.Amount.Mul(item.ExecutionPercentage).Div(types.Hundred)
}

// OperationTotal sums the full contracted value across items.
// An empty list totals zero.
func OperationTotal(items []OperationItem) types.Money {
	total := types.Zero()
	for i := range items {
		total = total.Add(items[i].Amount)
	}
	return total
}

// ExecutedTotal sums the executed value across items.
// An empty list totals zero.
func ExecutedTotal(items []OperationItem) types.Money {
	total := types.Zero()
	for i := range items {
		total = total.Add(ItemExecutedValue(items[i]))
	}
	return total
}

// OverallExecutionPercentage is the value-weighted completion figure:
// executed / total * 100. An item with a larger amount pulls the overall
// figure harder than a simple average of per-item percentages would.
// Returns zero for an empty list or a zero contracted total.
func OverallExecutionPercentage(items []OperationItem) types.Percent {
	total := OperationTotal(items)
	if !total.IsPositive() {
		return types.Zero()
	}
	return ExecutedTotal(items).Div(total).Mul(types.Hundred)
}

// TotalDeductions applies the active deduction rules to an executed-amount
// base. Percentage deductions take value% of executedTotal; fixed deductions
// add their value. Inactive deductions are skipped entirely. An unrecognized
// deduction type is an error, never a silent zero.
//
// The base is the EXECUTED total, not the contracted total: a 1% deduction on
// a half-executed operation is 1% of the executed half.
func TotalDeductions(executedTotal types.Money, deductions []Deduction) (types.Money, error) {
	total := types.Zero()
	for i := range deductions {
		d := &deductions[i]
		if !d.IsActive {
			continue
		}
		switch d.Type {
		case DeductionPercentage:
			total = total.Add(executedTotal.Mul(d.Value).Div(types.Hundred))
		case DeductionFixed:
			total = total.Add(d.Value)
		default:
			return types.Zero(), apperror.NewUnknownDeductionType(d.ID.String(), string(d.Type))
		}
	}
	return total, nil
}

// DeductionAmount returns a single deduction's contribution against an
// executed base. Inactive deductions contribute zero.
func DeductionAmount(executedTotal types.Money, d Deduction) (types.Money, error) {
	if !d.IsActive {
		return types.Zero(), nil
	}
	switch d.Type {
	case DeductionPercentage:
		return executedTotal.Mul(d.Value).Div(types.Hundred), nil
	case DeductionFixed:
		return d.Value, nil
	default:
		return types.Zero(), apperror.NewUnknownDeductionType(d.ID.String(), string(d.Type))
	}
}

// TotalReceivedFromPayments sums all received payment amounts.
func TotalReceivedFromPayments(payments []ReceivedPayment) types.Money {
	total := types.Zero()
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total
}

// FinancialSummary holds every derived figure for one operation, computed
// fresh from the raw records.
type FinancialSummary struct {
	// TotalAmount is the full contracted value across items.
	TotalAmount types.Money `json:"totalAmount"`

	// ExecutedAmount is the execution-weighted value across items.
	ExecutedAmount types.Money `json:"executedAmount"`

	// TotalDeductions is the withholding applied to the executed amount.
	TotalDeductions types.Money `json:"totalDeductions"`

	// NetAmount is executed value after deductions.
	NetAmount types.Money `json:"netAmount"`

	// TotalReceived sums the received payments.
	TotalReceived types.Money `json:"totalReceived"`

	// NetDue is the outstanding balance: NetAmount - TotalReceived.
	NetDue types.Money `json:"netDue"`

	// CompletionPercentage is the value-weighted execution figure.
	CompletionPercentage types.Percent `json:"completionPercentage"`
}

// Summarize derives the full financial summary for one operation from its
// raw items, deductions and payments. It never reads the snapshot fields,
// so the result cannot be stale.
func Summarize(op *Operation) (FinancialSummary, error) {
	executed := ExecutedTotal(op.Items)
	deductions, err := TotalDeductions(executed, op.Deductions)
	if err != nil {
		return FinancialSummary{}, err
	}

	net := executed.Sub(deductions)
	received := TotalReceivedFromPayments(op.ReceivedPayments)

	return FinancialSummary{
		TotalAmount:          OperationTotal(op.Items),
		ExecutedAmount:       executed,
		TotalDeductions:      deductions,
		NetAmount:            net,
		TotalReceived:        received,
		NetDue:               net.Sub(received),
		CompletionPercentage: OverallExecutionPercentage(op.Items),
	}, nil
}

// FleetTotals aggregates per-operation summaries across a collection, the
// batch application reports are built on.
type FleetTotals struct {
	Operations      int         `json:"operations"`
	Completed       int         `json:"completed"`
	InProgress      int         `json:"inProgress"`
	TotalAmount     types.Money `json:"totalAmount"`
	TotalDeductions types.Money `json:"totalDeductions"`
	TotalNetAmount  types.Money `json:"totalNetAmount"`
	TotalReceived   types.Money `json:"totalReceived"`

	// TotalOutstanding is TotalNetAmount - TotalReceived.
	TotalOutstanding types.Money `json:"totalOutstanding"`

	// CollectionRate is received over net due, as a percentage.
	// Zero when nothing is due.
	CollectionRate types.Percent `json:"collectionRate"`
}

// SummarizeAll maps Summarize over a collection and reduces it to fleet
// totals.
func SummarizeAll(ops []*Operation) (FleetTotals, error) {
	totals := FleetTotals{
		Operations:       len(ops),
		TotalAmount:      types.Zero(),
		TotalDeductions:  types.Zero(),
		TotalNetAmount:   types.Zero(),
		TotalReceived:    types.Zero(),
		TotalOutstanding: types.Zero(),
		CollectionRate:   types.Zero(),
	}

	for _, op := range ops {
		s, err := Summarize(op)
		if err != nil {
			return FleetTotals{}, err
		}
		totals.TotalAmount = totals.TotalAmount.Add(s.TotalAmount)
		totals.TotalDeductions = totals.TotalDeductions.Add(s.TotalDeductions)
		totals.TotalNetAmount = totals.TotalNetAmount.Add(s.NetAmount)
		totals.TotalReceived = totals.TotalReceived.Add(s.TotalReceived)

		switch op.Status {
		case StatusCompleted:
			totals.Completed++
		case StatusInProgress:
			totals.InProgress++
		}
	}

	totals.TotalOutstanding = totals.TotalNetAmount.Sub(totals.TotalReceived)
	if totals.TotalNetAmount.IsPositive() {
		totals.CollectionRate = totals.TotalReceived.Div(totals.TotalNetAmount).Mul(types.Hundred)
	}
	return totals, nil
}
