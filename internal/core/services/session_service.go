package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/events"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// sessionService enforces the cash desk open/close counting protocol.
type sessionService struct {
	configSvc   portssvc.ConfigSvcFacade
	sourceRepo  portsrepo.FundingSourceRepository
	sessionRepo portsrepo.SessionRepository
	ledgerRepo  portsrepo.LedgerRepository
	emitter     events.Emitter
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	configSvc portssvc.ConfigSvcFacade,
	sourceRepo portsrepo.FundingSourceRepository,
	sessionRepo portsrepo.SessionRepository,
	ledgerRepo portsrepo.LedgerRepository,
	emitter events.Emitter,
) portssvc.SessionSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &sessionService{
		configSvc:   configSvc,
		sourceRepo:  sourceRepo,
		sessionRepo: sessionRepo,
		ledgerRepo:  ledgerRepo,
		emitter:     emitter,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// OpenSession opens a counting session on a cash desk.
func (s *sessionService) OpenSession(ctx context.Context, institutionID string, deskID string, req dto.OpenSessionRequest, userID string) (*domain.CashDeskSession, error) {
	desk, err := s.sourceRepo.FindSourceByID(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	if desk.SourceType != domain.SourceCashDesk {
		return nil, fmt.Errorf("%w: source %s is not a cash desk", apperrors.ErrValidation, deskID)
	}
	if !desk.IsActive() {
		return nil, fmt.Errorf("%w: cash desk %s is %s", apperrors.ErrSourceNotActive, deskID, desk.State)
	}
	if req.OpeningCountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: opening count must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	session := domain.CashDeskSession{
		SessionID:     uuid.NewString(),
		InstitutionID: institutionID,
		SourceID:      deskID,
		Status:        domain.SessionOpen,
		OpenedBy:      userID,
		OpenedAt:      now,
		OpeningCount:  req.OpeningCountAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	// The storage layer enforces the single open session invariant; a lost
	// race surfaces here as ErrSessionAlreadyOpen.
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.SessionOpened, map[string]any{
		"sessionID": session.SessionID,
		"deskID":    deskID,
	})
	return &session, nil
}

// CloseSession closes the desk's open session. The discrepancy is the
// closing count minus what the ledger says should be in the drawer; past
// tolerance the desk may be auto-locked.
func (s *sessionService) CloseSession(ctx context.Context, institutionID string, deskID string, req dto.CloseSessionRequest, userID string) (*domain.CashDeskSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	if req.ClosingCountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: closing count must not be negative", apperrors.ErrValidation)
	}

	movements, err := s.ledgerRepo.SumSessionMovements(ctx, institutionID, session.SessionID)
	if err != nil {
		return nil, err
	}
	expected := session.OpeningCount.Add(movements)
	discrepancy := req.ClosingCountAmount.Sub(expected)

	if !discrepancy.IsZero() && req.DiscrepancyNote == "" {
		return nil, fmt.Errorf("%w: a discrepancy note is required when counts do not reconcile", apperrors.ErrValidation)
	}

	now := time.Now()
	closing := req.ClosingCountAmount
	session.Status = domain.SessionClosed
	session.ClosedBy = userID
	session.ClosedAt = &now
	session.ClosingCount = &closing
	session.Discrepancy = &discrepancy
	session.DiscrepancyNote = req.DiscrepancyNote
	session.LastUpdatedAt = now
	session.LastUpdatedBy = userID

	if err := s.sessionRepo.CloseSession(ctx, *session); err != nil {
		return nil, err
	}

	if discrepancy.Abs().GreaterThan(cfg.DiscrepancyTolerance) && cfg.AutoLockOnDiscrepancy {
		if err := s.sourceRepo.UpdateSourceState(ctx, institutionID, deskID, domain.SourceLocked, userID, now); err != nil {
			logger.Error("failed to auto-lock cash desk after discrepancy",
				slog.String("desk_id", deskID), slog.String("error", err.Error()))
		} else {
			logger.Warn("cash desk auto-locked on close discrepancy",
				slog.String("desk_id", deskID), slog.String("discrepancy", discrepancy.String()))
			s.emitter.Emit(ctx, institutionID, events.SourceLocked, map[string]any{
				"sourceID":    deskID,
				"sessionID":   session.SessionID,
				"discrepancy": discrepancy.String(),
			})
		}
	}

	s.emitter.Emit(ctx, institutionID, events.SessionClosed, map[string]any{
		"sessionID":   session.SessionID,
		"deskID":      deskID,
		"discrepancy": discrepancy.String(),
	})
	return session, nil
}

// GetOpenSession returns the desk's OPEN session.
func (s *sessionService) GetOpenSession(ctx context.Context, institutionID string, deskID string) (*domain.CashDeskSession, error) {
	return s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, deskID)
}

// ListSessions retrieves one page of a desk's sessions.
func (s *sessionService) ListSessions(ctx context.Context, institutionID string, deskID string, limit int, offset int) ([]domain.CashDeskSession, int, error) {
	return s.sessionRepo.ListSessions(ctx, institutionID, deskID, limit, offset)
}
