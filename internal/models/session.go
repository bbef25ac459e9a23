package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashDeskSession is the row shape of treasury_cashdesk_sessions. A partial
// unique index on (source_id) WHERE status = 'OPEN' enforces the single open
// session invariant.
type CashDeskSession struct {
	SessionID     string `db:"session_id"`
	InstitutionID string `db:"institution_id"`
	SourceID      string `db:"source_id"`
	Status        string `db:"status"`

	OpenedBy     string          `db:"opened_by"`
	OpenedAt     time.Time       `db:"opened_at"`
	OpeningCount decimal.Decimal `db:"opening_count"`

	ClosedBy     string           `db:"closed_by"`
	ClosedAt     *time.Time       `db:"closed_at"`
	ClosingCount *decimal.Decimal `db:"closing_count"`

	Discrepancy     *decimal.Decimal `db:"discrepancy"`
	DiscrepancyNote string           `db:"discrepancy_note"`
	AuditFields
}
