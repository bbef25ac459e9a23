package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens a counting session on a cash desk.
type OpenSessionRequest struct {
	OpeningCountAmount decimal.Decimal `json:"opening_count_amount" binding:"required"`
}

// CloseSessionRequest closes the desk's open session.
type CloseSessionRequest struct {
	ClosingCountAmount decimal.Decimal `json:"closing_count_amount" binding:"required"`
	DiscrepancyNote    string          `json:"discrepancy_note"`
}

// SessionResponse is the API view of a cash desk session.
type SessionResponse struct {
	SessionID       string           `json:"sessionID"`
	SourceID        string           `json:"sourceID"`
	Status          string           `json:"status"`
	OpenedBy        string           `json:"openedBy"`
	OpenedAt        time.Time        `json:"openedAt"`
	OpeningCount    decimal.Decimal  `json:"openingCountAmount"`
	ClosedBy        string           `json:"closedBy,omitempty"`
	ClosedAt        *time.Time       `json:"closedAt,omitempty"`
	ClosingCount    *decimal.Decimal `json:"closingCountAmount,omitempty"`
	Discrepancy     *decimal.Decimal `json:"discrepancyAmount,omitempty"`
	DiscrepancyNote string           `json:"discrepancyNote,omitempty"`
}

// ToSessionResponse converts a domain session to its response DTO.
func ToSessionResponse(s *domain.CashDeskSession) SessionResponse {
	return SessionResponse{
		SessionID:       s.SessionID,
		SourceID:        s.SourceID,
		Status:          string(s.Status),
		OpenedBy:        s.OpenedBy,
		OpenedAt:        s.OpenedAt,
		OpeningCount:    s.OpeningCount,
		ClosedBy:        s.ClosedBy,
		ClosedAt:        s.ClosedAt,
		ClosingCount:    s.ClosingCount,
		Discrepancy:     s.Discrepancy,
		DiscrepancyNote: s.DiscrepancyNote,
	}
}

// ToListSessionResponse converts a slice of sessions.
func ToListSessionResponse(sessions []domain.CashDeskSession) []SessionResponse {
	res := make([]SessionResponse, len(sessions))
	for i := range sessions {
		res[i] = ToSessionResponse(&sessions[i])
	}
	return res
}
