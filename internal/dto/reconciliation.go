package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// MatchResponse is the API view of a reconciliation match.
type MatchResponse struct {
	MatchID         string     `json:"matchID"`
	StatementLineID string     `json:"statementLineID"`
	MatchType       string     `json:"matchType"`
	MatchedID       string     `json:"matchedID"`
	Confidence      int        `json:"confidence"`
	Status          string     `json:"status"`
	ConfirmedBy     string     `json:"confirmedBy,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	RejectedReason  string     `json:"rejectedReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// AutoMatchResult summarizes one auto-match run over a statement.
type AutoMatchResult struct {
	StatementID    string `json:"statementID"`
	LinesProcessed int    `json:"linesProcessed"`
	Suggested      int    `json:"suggested"`
	AutoConfirmed  int    `json:"autoConfirmed"`
	Ambiguous      int    `json:"ambiguous"` // tied at/above threshold, left for a human
	Unmatched      int    `json:"unmatched"`
}

// ToMatchResponse converts a match to its DTO.
func ToMatchResponse(m *domain.ReconciliationMatch) MatchResponse {
	return MatchResponse{
		MatchID:         m.MatchID,
		StatementLineID: m.StatementLineID,
		MatchType:       string(m.MatchType),
		MatchedID:       m.MatchedID,
		Confidence:      m.Confidence,
		Status:          string(m.Status),
		ConfirmedBy:     m.ConfirmedBy,
		ConfirmedAt:     m.ConfirmedAt,
		RejectedReason:  m.RejectedReason,
		CreatedAt:       m.CreatedAt,
	}
}

// ToListMatchResponse converts a slice of matches.
func ToListMatchResponse(matches []domain.ReconciliationMatch) []MatchResponse {
	res := make([]MatchResponse, len(matches))
	for i := range matches {
		res[i] = ToMatchResponse(&matches[i])
	}
	return res
}
