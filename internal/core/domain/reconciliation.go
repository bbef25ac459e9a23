package domain

import "time"

// MatchType says what kind of internal record a statement line was matched to.
type MatchType string

const (
	MatchPaymentLine         MatchType = "PAYMENT_LINE"
	MatchTreasuryTransaction MatchType = "TREASURY_TRANSACTION"
)

// MatchStatus is the reconciliation match state.
type MatchStatus string

const (
	MatchSuggested MatchStatus = "SUGGESTED"
	MatchConfirmed MatchStatus = "CONFIRMED"
	MatchRejected  MatchStatus = "REJECTED"
)

// Confidence tiers produced by the matcher. Reference matches outrank
// amount/date window matches.
const (
	ConfidenceLineReference = 98 // referenceRaw/externalID equals PaymentLine.externalReference
	ConfidenceTxnReference  = 96 // equals TreasuryTransaction.reference, or substring of its notes
	ConfidenceLineWindow    = 90 // amount+currency match, batch planned date within window
	ConfidenceTxnWindow     = 85 // amount+currency+direction match, txn date within window
)

// ReconciliationMatch links a statement line to the internal record believed
// to have caused it. A line may carry several SUGGESTED matches but at most
// one CONFIRMED one.
type ReconciliationMatch struct {
	MatchID         string      `json:"matchID"`
	InstitutionID   string      `json:"institutionID"`
	StatementLineID string      `json:"statementLineID"`
	MatchType       MatchType   `json:"matchType"`
	MatchedID       string      `json:"matchID_ref"` // PaymentLine.lineID or TreasuryTransaction.transactionID
	Confidence      int         `json:"confidence"`  // 0..100
	Status          MatchStatus `json:"status"`
	ConfirmedBy     string      `json:"confirmedBy,omitempty"`
	ConfirmedAt     *time.Time  `json:"confirmedAt,omitempty"`
	RejectedReason  string      `json:"rejectedReason,omitempty"`
	AuditFields
}
