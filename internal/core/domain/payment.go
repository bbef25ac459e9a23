package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a batch pays its lines out.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCash         PaymentMethod = "CASH"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	MethodCheque       PaymentMethod = "CHEQUE"
)

// BatchStatus is the payment batch state machine:
// DRAFT -> APPROVAL_PENDING -> APPROVED -> EXECUTED -> {PARTIALLY_RECONCILED, RECONCILED},
// with CANCELLED reachable from DRAFT, APPROVAL_PENDING and APPROVED.
type BatchStatus string

const (
	BatchDraft               BatchStatus = "DRAFT"
	BatchApprovalPending     BatchStatus = "APPROVAL_PENDING"
	BatchApproved            BatchStatus = "APPROVED"
	BatchExecuted            BatchStatus = "EXECUTED"
	BatchPartiallyReconciled BatchStatus = "PARTIALLY_RECONCILED"
	BatchReconciled          BatchStatus = "RECONCILED"
	BatchCancelled           BatchStatus = "CANCELLED"
)

// batchRank orders batch statuses for the monotonicity invariant: a batch
// status never moves backward.
var batchRank = map[BatchStatus]int{
	BatchDraft:               0,
	BatchApprovalPending:     1,
	BatchApproved:            2,
	BatchExecuted:            3,
	BatchPartiallyReconciled: 4,
	BatchReconciled:          5,
	BatchCancelled:           6,
}

// CanTransition reports whether moving from to next is a legal forward step.
func (s BatchStatus) CanTransition(next BatchStatus) bool {
	if next == BatchCancelled {
		return s == BatchDraft || s == BatchApprovalPending || s == BatchApproved
	}
	from, ok := batchRank[s]
	if !ok {
		return false
	}
	to, ok := batchRank[next]
	if !ok {
		return false
	}
	return to > from && s != BatchCancelled
}

// PaymentBatch groups outbound payment lines executed together against one
// funding source.
type PaymentBatch struct {
	BatchID       string        `json:"batchID"`
	InstitutionID string        `json:"institutionID"`
	Branch        string        `json:"branch"`
	SourceType    SourceType    `json:"sourceType"`
	SourceID      string        `json:"sourceID"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Description   string        `json:"description"`
	PlannedDate   time.Time     `json:"plannedDate"`
	Status        BatchStatus   `json:"status"`
	Currency      string        `json:"currency"`
	// TotalAmount is derived: sum of non-cancelled line amounts. Recomputed on
	// submit and execute, never trusted from the caller.
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ReferenceNumber string          `json:"referenceNumber"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	ExecutedBy      string          `json:"executedBy,omitempty"`
	ExecutedAt      *time.Time      `json:"executedAt,omitempty"`
	AuditFields
}

// PayeeType classifies whom a payment line pays.
type PayeeType string

const (
	PayeeEmployee PayeeType = "EMPLOYEE"
	PayeeVendor   PayeeType = "VENDOR"
	PayeeOther    PayeeType = "OTHER"
)

// LineStatus is the payment line state.
type LineStatus string

const (
	LinePending   LineStatus = "PENDING"
	LinePaid      LineStatus = "PAID"
	LineFailed    LineStatus = "FAILED"
	LineCancelled LineStatus = "CANCELLED"
)

// PaymentLine is a single outbound payment within a batch.
type PaymentLine struct {
	LineID        string          `json:"lineID"`
	InstitutionID string          `json:"institutionID"`
	BatchID       string          `json:"batchID"`
	PayeeType     PayeeType       `json:"payeeType"`
	PayeeID       string          `json:"payeeID"`
	PayeeName     string          `json:"payeeName"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        LineStatus      `json:"status"`
	// ExternalReference is the reference the bank/mobile-money provider echoes
	// back on the statement; the reconciliation matcher keys on it.
	ExternalReference string `json:"externalReference"`
	LinkedObjectType  string `json:"linkedObjectType,omitempty"` // e.g. PAYSLIP
	LinkedObjectID    string `json:"linkedObjectID,omitempty"`
	FailureReason     string `json:"failureReason,omitempty"`

	RequiresApproval bool       `json:"requiresApproval"`
	Approved         bool       `json:"approved"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`

	ReconciledAt *time.Time `json:"reconciledAt,omitempty"`
	AuditFields
}

// TotalOfLines sums non-cancelled line amounts, the derived batch total.
func TotalOfLines(lines []PaymentLine) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range lines {
		if ln.Status == LineCancelled {
			continue
		}
		total = total.Add(ln.Amount)
	}
	return total
}
