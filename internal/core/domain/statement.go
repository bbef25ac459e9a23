package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementStatus is the bank statement lifecycle. States are additive:
// IMPORTED on ingest, READY once auto-matching has run, ARCHIVED when closed
// out by an operator.
type StatementStatus string

const (
	StatementImported StatementStatus = "IMPORTED"
	StatementReady    StatementStatus = "READY"
	StatementArchived StatementStatus = "ARCHIVED"
)

// BankStatement is one imported statement for a bank account and period.
// Lines arrive pre-parsed; raw bank file handling is an external concern.
type BankStatement struct {
	StatementID   string          `json:"statementID"`
	InstitutionID string          `json:"institutionID"`
	BankAccountID string          `json:"bankAccountID"`
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	Status        StatementStatus `json:"status"`
	LineCount     int             `json:"lineCount"`
	AuditFields
}

// BankStatementLine is one structured row of a statement. AmountSigned
// encodes direction in its sign. Matched is derived: the line has at least
// one CONFIRMED reconciliation match.
type BankStatementLine struct {
	LineID        string          `json:"lineID"`
	InstitutionID string          `json:"institutionID"`
	StatementID   string          `json:"statementID"`
	TxnDate       time.Time       `json:"txnDate"`
	Description   string          `json:"description"`
	AmountSigned  decimal.Decimal `json:"amountSigned"`
	Currency      string          `json:"currency"`
	ReferenceRaw  string          `json:"referenceRaw"`
	ExternalID    string          `json:"externalID"`
	Matched       bool            `json:"matched"`
	AuditFields
}
