package models

import "time"

// ReconciliationMatch is the row shape of treasury_reconciliation_matches.
type ReconciliationMatch struct {
	MatchID         string     `db:"match_id"`
	InstitutionID   string     `db:"institution_id"`
	StatementLineID string     `db:"statement_line_id"`
	MatchType       string     `db:"match_type"`
	MatchedID       string     `db:"matched_id"`
	Confidence      int        `db:"confidence"`
	Status          string     `db:"status"`
	ConfirmedBy     string     `db:"confirmed_by"`
	ConfirmedAt     *time.Time `db:"confirmed_at"`
	RejectedReason  string     `db:"rejected_reason"`
	AuditFields
}
