package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/events"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// ledgerService is the treasury ledger recorder.
type ledgerService struct {
	configSvc   portssvc.ConfigSvcFacade
	sourceRepo  portsrepo.FundingSourceRepository
	sessionRepo portsrepo.SessionRepository
	ledgerRepo  portsrepo.LedgerRepository
	emitter     events.Emitter
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	configSvc portssvc.ConfigSvcFacade,
	sourceRepo portsrepo.FundingSourceRepository,
	sessionRepo portsrepo.SessionRepository,
	ledgerRepo portsrepo.LedgerRepository,
	emitter events.Emitter,
) portssvc.LedgerSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &ledgerService{
		configSvc:   configSvc,
		sourceRepo:  sourceRepo,
		sessionRepo: sessionRepo,
		ledgerRepo:  ledgerRepo,
		emitter:     emitter,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// guardFor derives the balance guard for a source from policy: banks never
// go negative, desks follow the cash policy.
func guardFor(cfg *domain.TreasuryConfiguration, source *domain.FundingSource) portsrepo.BalanceGuard {
	if source.SourceType == domain.SourceCashDesk {
		return portsrepo.BalanceGuard{
			AllowNegative: cfg.AllowNegativeCashBalance,
			MaxBalance:    cfg.MaxCashDeskBalance,
		}
	}
	return portsrepo.BalanceGuard{AllowNegative: false}
}

// Record appends a manual ledger entry against a source.
func (s *ledgerService) Record(ctx context.Context, institutionID string, req dto.RecordTransactionRequest, userID string) (*domain.TreasuryTransaction, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, req.SourceID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, fmt.Errorf("%w: source %s is %s", apperrors.ErrSourceNotActive, source.SourceID, source.State)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	category := domain.TransactionCategory(req.Category)
	if category == domain.CategoryBatchPayment || category == domain.CategoryReversal {
		return nil, fmt.Errorf("%w: category %s is system-generated", apperrors.ErrValidation, category)
	}

	var sessionID string
	if source.SourceType == domain.SourceCashDesk {
		session, err := s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, source.SourceID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNoOpenSession) {
				return nil, err
			}
			if cfg.RequireOpenSession {
				return nil, err
			}
		} else {
			sessionID = session.SessionID
		}
	}

	status := domain.TxnPosted
	if category == domain.CategoryAdjustment && cfg.AdjustmentsRequireApproval {
		status = domain.TxnApprovalPending
	}

	now := time.Now()
	txnDate := now
	if req.TransactionDate != nil {
		txnDate = *req.TransactionDate
	}
	txn := domain.TreasuryTransaction{
		TransactionID:     uuid.NewString(),
		InstitutionID:     institutionID,
		SourceType:        source.SourceType,
		SourceID:          source.SourceID,
		Direction:         domain.Direction(req.Direction),
		Category:          category,
		Amount:            req.Amount,
		Currency:          source.Currency,
		TransactionDate:   txnDate,
		Reference:         req.Reference,
		CounterpartyName:  req.CounterpartyName,
		Notes:             req.Notes,
		Status:            status,
		CashdeskSessionID: sessionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.ledgerRepo.RecordTransaction(ctx, txn, guardFor(cfg, source)); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.TransactionAdded, map[string]any{
		"transactionID": txn.TransactionID,
		"sourceID":      txn.SourceID,
		"direction":     string(txn.Direction),
		"amount":        txn.Amount.String(),
		"status":        string(txn.Status),
	})
	return &txn, nil
}

// Reverse posts a REVERSAL counter-entry against a POSTED transaction. The
// original row never changes.
func (s *ledgerService) Reverse(ctx context.Context, institutionID string, transactionID string, reason string, userID string) (*domain.TreasuryTransaction, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	original, err := s.ledgerRepo.FindTransactionByID(ctx, institutionID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.TxnPosted {
		return nil, fmt.Errorf("%w: only POSTED transactions can be reversed", apperrors.ErrInvalidStateTransition)
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, original.SourceID)
	if err != nil {
		return nil, err
	}

	direction := domain.DirectionIn
	if original.Direction == domain.DirectionIn {
		direction = domain.DirectionOut
	}

	now := time.Now()
	reversal := domain.TreasuryTransaction{
		TransactionID:         uuid.NewString(),
		InstitutionID:         institutionID,
		SourceType:            original.SourceType,
		SourceID:              original.SourceID,
		Direction:             direction,
		Category:              domain.CategoryReversal,
		Amount:                original.Amount,
		Currency:              original.Currency,
		TransactionDate:       now,
		Reference:             original.Reference,
		Notes:                 reason,
		Status:                domain.TxnPosted,
		ReversesTransactionID: original.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.ledgerRepo.RecordTransaction(ctx, reversal, guardFor(cfg, source)); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.TransactionAdded, map[string]any{
		"transactionID": reversal.TransactionID,
		"reverses":      original.TransactionID,
	})
	return &reversal, nil
}

// ApprovePending posts an APPROVAL_PENDING entry, applying its balance
// effect.
func (s *ledgerService) ApprovePending(ctx context.Context, institutionID string, transactionID string, approverUserID string) (*domain.TreasuryTransaction, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	pending, err := s.ledgerRepo.FindTransactionByID(ctx, institutionID, transactionID)
	if err != nil {
		return nil, err
	}
	if pending.CreatedBy == approverUserID && !cfg.AllowSelfApproval {
		return nil, apperrors.ErrSelfApprovalNotAllowed
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, pending.SourceID)
	if err != nil {
		return nil, err
	}

	posted, err := s.ledgerRepo.PostPendingTransaction(ctx, institutionID, transactionID, approverUserID, guardFor(cfg, source), time.Now())
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.TransactionAdded, map[string]any{
		"transactionID": posted.TransactionID,
		"approvedBy":    approverUserID,
	})
	return posted, nil
}

// GetTransaction retrieves one ledger entry.
func (s *ledgerService) GetTransaction(ctx context.Context, institutionID string, transactionID string) (*domain.TreasuryTransaction, error) {
	return s.ledgerRepo.FindTransactionByID(ctx, institutionID, transactionID)
}

// ListTransactions retrieves one page of ledger entries.
func (s *ledgerService) ListTransactions(ctx context.Context, institutionID string, filter portsrepo.ListTransactionsFilter) ([]domain.TreasuryTransaction, int, error) {
	return s.ledgerRepo.ListTransactions(ctx, institutionID, filter)
}
