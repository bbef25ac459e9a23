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

// statementService ingests pre-parsed bank statements.
type statementService struct {
	configSvc     portssvc.ConfigSvcFacade
	statementRepo portsrepo.StatementRepository
	sourceRepo    portsrepo.FundingSourceRepository
	emitter       events.Emitter
}

// NewStatementService creates a new StatementService.
func NewStatementService(
	configSvc portssvc.ConfigSvcFacade,
	statementRepo portsrepo.StatementRepository,
	sourceRepo portsrepo.FundingSourceRepository,
	emitter events.Emitter,
) portssvc.StatementSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &statementService{
		configSvc:     configSvc,
		statementRepo: statementRepo,
		sourceRepo:    sourceRepo,
		emitter:       emitter,
	}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// Import stores a statement and its lines as IMPORTED.
func (s *statementService) Import(ctx context.Context, institutionID string, req dto.ImportStatementRequest, userID string) (*domain.BankStatement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.ReconciliationEnabled {
		return nil, apperrors.ErrReconciliationDisabled
	}
	account, err := s.sourceRepo.FindSourceByID(ctx, institutionID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if account.SourceType != domain.SourceBank {
		return nil, fmt.Errorf("%w: source %s is a %s, statements attach to bank accounts",
			apperrors.ErrValidation, account.SourceID, account.SourceType)
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: statement period end precedes its start", apperrors.ErrValidation)
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	stmt := domain.BankStatement{
		StatementID:   uuid.NewString(),
		InstitutionID: institutionID,
		BankAccountID: account.SourceID,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		Status:        domain.StatementImported,
		LineCount:     len(req.Lines),
		AuditFields:   audit,
	}

	lines := make([]domain.BankStatementLine, len(req.Lines))
	for i, in := range req.Lines {
		if in.AmountSigned.IsZero() {
			return nil, fmt.Errorf("%w: statement line %d has zero amount", apperrors.ErrValidation, i+1)
		}
		lines[i] = domain.BankStatementLine{
			LineID:        uuid.NewString(),
			InstitutionID: institutionID,
			StatementID:   stmt.StatementID,
			TxnDate:       in.TxnDate,
			Description:   in.Description,
			AmountSigned:  in.AmountSigned,
			Currency:      in.Currency,
			ReferenceRaw:  in.ReferenceRaw,
			ExternalID:    in.ExternalID,
			AuditFields:   audit,
		}
	}

	if err := s.statementRepo.SaveStatement(ctx, stmt, lines); err != nil {
		return nil, fmt.Errorf("failed to import statement: %w", err)
	}

	logger.Info("bank statement imported",
		slog.String("statement_id", stmt.StatementID),
		slog.String("bank_account_id", stmt.BankAccountID),
		slog.Int("lines", stmt.LineCount))
	s.emitter.Emit(ctx, institutionID, events.StatementImported, map[string]any{
		"statementID":   stmt.StatementID,
		"bankAccountID": stmt.BankAccountID,
		"lineCount":     stmt.LineCount,
	})
	return &stmt, nil
}

func (s *statementService) GetStatement(ctx context.Context, institutionID string, statementID string) (*domain.BankStatement, error) {
	return s.statementRepo.FindStatementByID(ctx, institutionID, statementID)
}

func (s *statementService) ListStatements(ctx context.Context, institutionID string, bankAccountID string, limit int, offset int) ([]domain.BankStatement, int, error) {
	return s.statementRepo.ListStatements(ctx, institutionID, bankAccountID, limit, offset)
}

func (s *statementService) ListLines(ctx context.Context, institutionID string, statementID string, limit int, offset int) ([]domain.BankStatementLine, int, error) {
	if _, err := s.statementRepo.FindStatementByID(ctx, institutionID, statementID); err != nil {
		return nil, 0, err
	}
	return s.statementRepo.ListStatementLines(ctx, institutionID, statementID, limit, offset)
}

// ArchiveStatement closes out a statement. Archived statements are excluded
// from auto-matching.
func (s *statementService) ArchiveStatement(ctx context.Context, institutionID string, statementID string, userID string) (*domain.BankStatement, error) {
	stmt, err := s.statementRepo.FindStatementByID(ctx, institutionID, statementID)
	if err != nil {
		return nil, err
	}
	if stmt.Status == domain.StatementArchived {
		return nil, fmt.Errorf("%w: statement %s is already archived", apperrors.ErrInvalidStateTransition, statementID)
	}

	now := time.Now()
	if err := s.statementRepo.UpdateStatementStatus(ctx, institutionID, statementID, domain.StatementArchived, userID, now); err != nil {
		return nil, err
	}
	stmt.Status = domain.StatementArchived
	stmt.LastUpdatedAt = now
	stmt.LastUpdatedBy = userID

	s.emitter.Emit(ctx, institutionID, events.StatementArchived, map[string]any{"statementID": statementID})
	return stmt, nil
}
