package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreasuryTransaction is the row shape of treasury_transactions. Rows are
// append-only; POSTED entries are never updated except for the reconciled_at
// stamp.
type TreasuryTransaction struct {
	TransactionID         string          `db:"transaction_id"`
	InstitutionID         string          `db:"institution_id"`
	SourceType            string          `db:"source_type"`
	SourceID              string          `db:"source_id"`
	Direction             string          `db:"direction"`
	Category              string          `db:"category"`
	Amount                decimal.Decimal `db:"amount"`
	Currency              string          `db:"currency"`
	TransactionDate       time.Time       `db:"transaction_date"`
	Reference             string          `db:"reference"`
	CounterpartyName      string          `db:"counterparty_name"`
	Notes                 string          `db:"notes"`
	Status                string          `db:"status"`
	LinkedObjectType      string          `db:"linked_object_type"`
	LinkedObjectID        string          `db:"linked_object_id"`
	CashdeskSessionID     string          `db:"cashdesk_session_id"`
	ReversesTransactionID string          `db:"reverses_transaction_id"`
	ApprovedBy            string          `db:"approved_by"`
	ReconciledAt          *time.Time      `db:"reconciled_at"`
	AuditFields
}
