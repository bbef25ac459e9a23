package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money enters or leaves a funding source.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// TransactionCategory is a coarse classification of a money movement.
type TransactionCategory string

const (
	CategoryDeposit      TransactionCategory = "DEPOSIT"
	CategoryWithdrawal   TransactionCategory = "WITHDRAWAL"
	CategoryTransfer     TransactionCategory = "TRANSFER"
	CategoryBatchPayment TransactionCategory = "BATCH_PAYMENT"
	CategoryAdjustment   TransactionCategory = "ADJUSTMENT"
	CategoryReversal     TransactionCategory = "REVERSAL"
)

// TransactionStatus is the ledger entry state. Only POSTED entries affect the
// balance; an entry never mutates after POSTED except by a counter-entry.
type TransactionStatus string

const (
	TxnDraft           TransactionStatus = "DRAFT"
	TxnApprovalPending TransactionStatus = "APPROVAL_PENDING"
	TxnApproved        TransactionStatus = "APPROVED"
	TxnPosted          TransactionStatus = "POSTED"
	TxnCancelled       TransactionStatus = "CANCELLED"
)

// TreasuryTransaction is one immutable ledger entry. The ledger is the single
// source of truth for what happened: currentBalance of a source always equals
// openingBalance plus the signed sum of its POSTED entries.
type TreasuryTransaction struct {
	TransactionID string              `json:"transactionID"`
	InstitutionID string              `json:"institutionID"`
	SourceType    SourceType          `json:"sourceType"`
	SourceID      string              `json:"sourceID"`
	Direction     Direction           `json:"direction"`
	Category      TransactionCategory `json:"category"`
	Amount        decimal.Decimal     `json:"amount"` // always positive; Direction carries the sign
	Currency      string              `json:"currency"`
	TransactionDate  time.Time `json:"transactionDate"`
	Reference        string    `json:"reference"`
	CounterpartyName string    `json:"counterpartyName,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Status           TransactionStatus `json:"status"`
	LinkedObjectType string            `json:"linkedObjectType,omitempty"` // e.g. PAYMENT_LINE
	LinkedObjectID   string            `json:"linkedObjectID,omitempty"`
	// CashdeskSessionID stamps cash movements with the open session so the
	// session close can total them.
	CashdeskSessionID string `json:"cashdeskSessionID,omitempty"`
	// ReversesTransactionID links a REVERSAL counter-entry to its original.
	ReversesTransactionID string `json:"reversesTransactionID,omitempty"`
	ApprovedBy            string `json:"approvedBy,omitempty"`
	ReconciledAt          *time.Time `json:"reconciledAt,omitempty"`
	AuditFields
}

// SignedAmount returns the amount with the direction's sign applied.
func (t TreasuryTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DirectionFromSigned derives a direction from a signed statement amount.
func DirectionFromSigned(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return DirectionOut
	}
	return DirectionIn
}
