package operation

import "contractops/internal/core/types"

// ClassifyStatus derives the lifecycle state from the raw items and payments.
//
// A fully executed operation is completed when the payments cover the full
// contracted total, completed-partial-payment otherwise. Anything under 100%
// execution is in progress regardless of how much has been paid.
func ClassifyStatus(items []OperationItem, payments []ReceivedPayment) Status {
	pct := OverallExecutionPercentage(items)
	if pct.LessThan(types.Hundred) {
		return StatusInProgress
	}
	if TotalReceivedFromPayments(payments).GreaterThanOrEqual(OperationTotal(items)) {
		return StatusCompleted
	}
	return StatusCompletedPartialPayment
}
