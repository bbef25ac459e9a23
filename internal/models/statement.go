package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankStatement is the row shape of treasury_bank_statements.
type BankStatement struct {
	StatementID   string    `db:"statement_id"`
	InstitutionID string    `db:"institution_id"`
	BankAccountID string    `db:"bank_account_id"`
	PeriodStart   time.Time `db:"period_start"`
	PeriodEnd     time.Time `db:"period_end"`
	Status        string    `db:"status"`
	LineCount     int       `db:"line_count"`
	AuditFields
}

// BankStatementLine is the row shape of treasury_bank_statement_lines.
// matched is maintained by the reconciliation confirm path.
type BankStatementLine struct {
	LineID        string          `db:"line_id"`
	InstitutionID string          `db:"institution_id"`
	StatementID   string          `db:"statement_id"`
	TxnDate       time.Time       `db:"txn_date"`
	Description   string          `db:"description"`
	AmountSigned  decimal.Decimal `db:"amount_signed"`
	Currency      string          `db:"currency"`
	ReferenceRaw  string          `db:"reference_raw"`
	ExternalID    string          `db:"external_id"`
	Matched       bool            `db:"matched"`
	AuditFields
}
