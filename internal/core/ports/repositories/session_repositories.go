package repositories

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// SessionRepository persists cash desk sessions. The at-most-one-OPEN-per-desk
// invariant is enforced at the storage layer (partial unique index), so a
// concurrent double open surfaces as apperrors.ErrSessionAlreadyOpen.
type SessionRepository interface {
	// SaveSession inserts a new OPEN session. Returns
	// apperrors.ErrSessionAlreadyOpen when the desk already has one.
	SaveSession(ctx context.Context, session domain.CashDeskSession) error

	// FindOpenSessionBySource returns the desk's OPEN session, or
	// apperrors.ErrNoOpenSession.
	FindOpenSessionBySource(ctx context.Context, institutionID string, sourceID string) (*domain.CashDeskSession, error)

	FindSessionByID(ctx context.Context, institutionID string, sessionID string) (*domain.CashDeskSession, error)

	// CloseSession writes the closing fields and flips status to CLOSED. The
	// session must still be OPEN; otherwise apperrors.ErrInvalidStateTransition.
	CloseSession(ctx context.Context, session domain.CashDeskSession) error

	// ListSessions returns one page of a desk's sessions, newest first, and
	// the total count.
	ListSessions(ctx context.Context, institutionID string, sourceID string, limit int, offset int) ([]domain.CashDeskSession, int, error)
}
