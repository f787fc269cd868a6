// Package reports builds the tabular rows behind every exported report.
// Each report has a dedicated row type constructed by an explicit join of
// operations with the client directory; consumers (Excel/CSV/PDF writers,
// JSON endpoints) only ever see these shapes.
package reports

import (
	"time"

	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/operation"
)

// UnknownClientLabel is the sentinel used when a clientId cannot be
// resolved. Reports must still render partial data, so a missing client is
// never a hard failure.
const UnknownClientLabel = "Unknown"

// FullOperationLabel is the related-item sentinel for guarantees and
// warranties that secure the whole operation rather than a single item.
const FullOperationLabel = "Full Operation"

// --- Operations report ---

// OperationRow is one operation with resolved client and freshly derived
// financial figures.
type OperationRow struct {
	OperationID     id.ID         `json:"operationId"`
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	ClientName      string        `json:"clientName"`
	ClientTypeLabel string        `json:"clientType"`
	TotalAmount     types.Money   `json:"totalAmount"`
	TotalDeductions types.Money   `json:"totalDeductions"`
	NetAmount       types.Money   `json:"netAmount"`
	TotalReceived   types.Money   `json:"totalReceived"`
	RemainingAmount types.Money   `json:"remainingAmount"`
	Completion      types.Percent `json:"completion"`
	StatusLabel     string        `json:"status"`
	ItemsCount      int           `json:"itemsCount"`
	ChecksCount     int           `json:"guaranteeChecks"`
	LettersCount    int           `json:"guaranteeLetters"`
	WarrantiesCount int           `json:"warrantyCertificates"`
	PaymentsCount   int           `json:"paymentsCount"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// OperationsReport is the fleet-wide operations table with its statistics
// block.
type OperationsReport struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Rows        []OperationRow        `json:"rows"`
	Totals      operation.FleetTotals `json:"totals"`
}

// --- Operation details ---

// ItemRow is one line item with its executed value.
type ItemRow struct {
	Code          string        `json:"code"`
	Description   string        `json:"description"`
	Amount        types.Money   `json:"amount"`
	Completion    types.Percent `json:"completion"`
	ExecutedValue types.Money   `json:"executedValue"`
}

// DeductionRow is one active deduction with its computed contribution.
type DeductionRow struct {
	Name string `json:"name"`

	// Rate is "1.5%" for percentage deductions, "Fixed Amount" otherwise.
	Rate   string      `json:"rate"`
	Amount types.Money `json:"amount"`
}

// OperationDetails is the single-operation report: header, summary and all
// owned-entity tables.
type OperationDetails struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	ClientName      string    `json:"clientName"`
	ClientTypeLabel string    `json:"clientType"`
	CreatedAt       time.Time `json:"createdAt"`

	Summary operation.FinancialSummary `json:"summary"`

	Items      []ItemRow      `json:"items"`
	Deductions []DeductionRow `json:"deductions"`
	Checks     []GuaranteeRow `json:"guaranteeChecks"`
	Letters    []GuaranteeRow `json:"guaranteeLetters"`
	Warranties []WarrantyRow  `json:"warrantyCertificates"`
	Payments   []PaymentRow   `json:"receivedPayments"`
}

// --- Checks and payments report ---

// PaymentRow is one received payment joined with its operation and client.
type PaymentRow struct {
	TypeLabel     string      `json:"type"`
	Amount        types.Money `json:"amount"`
	Date          time.Time   `json:"date"`
	ClientName    string      `json:"clientName"`
	OperationName string      `json:"operationName"`
	OperationCode string      `json:"operationCode"`
	CheckNumber   string      `json:"checkNumber,omitempty"`
	Bank          string      `json:"bank,omitempty"`
	ReceiptDate   *time.Time  `json:"receiptDate,omitempty"`
	Pending       bool        `json:"pending"`
	Notes         string      `json:"notes,omitempty"`
}

// ChecksAndPaymentsReport is the flattened payments table with totals.
type ChecksAndPaymentsReport struct {
	GeneratedAt   time.Time    `json:"generatedAt"`
	Rows          []PaymentRow `json:"rows"`
	TotalAmount   types.Money  `json:"totalAmount"`
	CheckCount    int          `json:"checkCount"`
	CashCount     int          `json:"cashCount"`
	PendingChecks int          `json:"pendingChecks"`
}

// --- Guarantees report ---

// GuaranteeRow is one guarantee check or letter with resolved client,
// operation and related-item context.
type GuaranteeRow struct {
	Kind          string      `json:"kind"` // "Guarantee Check" or "Guarantee Letter"
	Number        string      `json:"number"`
	Amount        types.Money `json:"amount"`
	Bank          string      `json:"bank"`
	ClientName    string      `json:"clientName"`
	OperationName string      `json:"operationName"`
	OperationCode string      `json:"operationCode"`
	RelatedItem   string      `json:"relatedItem"`
	IssueDate     time.Time   `json:"issueDate"`
	DeliveryDate  *time.Time  `json:"deliveryDate,omitempty"`
	ExpiryDate    time.Time   `json:"expiryDate"`

	// StatusLabel is the return lifecycle: "Returned" or "Active".
	StatusLabel string `json:"status"`

	// ExpiryStatus is the derived classification against the report instant.
	ExpiryStatus operation.ExpiryStatus `json:"expiryStatus"`

	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// GuaranteesReport is the detailed guarantees table with instrument counts.
type GuaranteesReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Checks      []GuaranteeRow `json:"checks"`
	Letters     []GuaranteeRow `json:"letters"`

	Total        int         `json:"total"`
	Active       int         `json:"active"`
	Returned     int         `json:"returned"`
	ExpiringSoon int         `json:"expiringSoon"`
	Expired      int         `json:"expired"`
	TotalAmount  types.Money `json:"totalAmount"`
}

// --- Warranty certificates report ---

// WarrantyRow is one warranty certificate with resolved context.
type WarrantyRow struct {
	CertificateNumber string    `json:"certificateNumber"`
	ClientName        string    `json:"clientName"`
	OperationName     string    `json:"operationName"`
	OperationCode     string    `json:"operationCode"`
	RelatedItem       string    `json:"relatedItem"`
	Description       string    `json:"description"`
	IssueDate         time.Time `json:"issueDate"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	PeriodMonths      int       `json:"periodMonths"`
	StatusLabel       string    `json:"status"` // "Active" or "Expired"
	Notes             string    `json:"notes,omitempty"`
}

// WarrantiesReport is the warranty certificates table.
type WarrantiesReport struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Rows        []WarrantyRow `json:"rows"`
	Total       int           `json:"total"`
	Active      int           `json:"active"`
	Expired     int           `json:"expired"`
}

// --- Clients report ---

// ClientRow is one client with its main contact resolved.
type ClientRow struct {
	Name              string    `json:"name"`
	TypeLabel         string    `json:"type"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	MainContactName   string    `json:"mainContactName,omitempty"`
	MainContactPhone  string    `json:"mainContactPhone,omitempty"`
	MainContactEmail  string    `json:"mainContactEmail,omitempty"`
	ContactPosition   string    `json:"contactPosition,omitempty"`
	ContactDepartment string    `json:"contactDepartment,omitempty"`
	ContactsCount     int       `json:"contactsCount"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ClientsReport is the client directory table with per-type counts.
type ClientsReport struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Rows        []ClientRow `json:"rows"`
	Total       int         `json:"total"`
	Owners      int         `json:"owners"`
	Contractors int         `json:"contractors"`
	Consultants int         `json:"consultants"`
}

// --- Comprehensive financial report ---

// ClientFinancialRow aggregates the derived figures over one client's
// operations. Clients without operations are filtered out.
type ClientFinancialRow struct {
	ClientName      string        `json:"clientName"`
	TypeLabel       string        `json:"clientType"`
	OperationsCount int           `json:"operationsCount"`
	TotalAmount     types.Money   `json:"totalAmount"`
	TotalDeductions types.Money   `json:"totalDeductions"`
	NetAmount       types.Money   `json:"netAmount"`
	TotalReceived   types.Money   `json:"totalReceived"`
	Outstanding     types.Money   `json:"outstanding"`
	CollectionRate  types.Percent `json:"collectionRate"`
}

// FinancialReport is the comprehensive fleet report: general statistics,
// financial rollups and per-client breakdown.
type FinancialReport struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Fleet       operation.FleetTotals `json:"fleet"`

	// CompletionRate is completed operations over all operations, percent.
	CompletionRate types.Percent `json:"completionRate"`

	Clients []ClientFinancialRow `json:"clients"`
}
