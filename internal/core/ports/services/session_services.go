package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// SessionSvcFacade enforces the cash desk open/close session protocol.
type SessionSvcFacade interface {
	// OpenSession opens a counting session; fails with
	// apperrors.ErrSessionAlreadyOpen when one is already open on the desk.
	OpenSession(ctx context.Context, institutionID string, deskID string, req dto.OpenSessionRequest, userID string) (*domain.CashDeskSession, error)

	// CloseSession closes the open session, computing the discrepancy from
	// the movements recorded during it. May lock the desk as a side effect
	// when the discrepancy exceeds tolerance and auto-lock is on.
	CloseSession(ctx context.Context, institutionID string, deskID string, req dto.CloseSessionRequest, userID string) (*domain.CashDeskSession, error)

	GetOpenSession(ctx context.Context, institutionID string, deskID string) (*domain.CashDeskSession, error)

	ListSessions(ctx context.Context, institutionID string, deskID string, limit int, offset int) ([]domain.CashDeskSession, int, error)
}
