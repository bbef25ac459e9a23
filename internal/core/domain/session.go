package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the cash desk session state: (none) -> OPEN -> CLOSED.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashDeskSession tracks one counting period on a cash desk. At most one OPEN
// session exists per desk at any time.
type CashDeskSession struct {
	SessionID     string        `json:"sessionID"`
	InstitutionID string        `json:"institutionID"`
	SourceID      string        `json:"sourceID"` // the cash desk
	Status        SessionStatus `json:"status"`

	OpenedBy     string          `json:"openedBy"`
	OpenedAt     time.Time       `json:"openedAt"`
	OpeningCount decimal.Decimal `json:"openingCountAmount"`

	ClosedBy     string           `json:"closedBy,omitempty"`
	ClosedAt     *time.Time       `json:"closedAt,omitempty"`
	ClosingCount *decimal.Decimal `json:"closingCountAmount,omitempty"`

	// Discrepancy = closingCount - (openingCount + net signed movements
	// recorded while the session was open).
	Discrepancy     *decimal.Decimal `json:"discrepancyAmount,omitempty"`
	DiscrepancyNote string           `json:"discrepancyNote,omitempty"`
	AuditFields
}
