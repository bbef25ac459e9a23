package services

import (
	"context"
	"errors"
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

// fundingSourceService owns bank accounts and cash desks and the ad-hoc money
// movements on them. Balance effects go through the ledger repository so the
// check and the write share one row lock.
type fundingSourceService struct {
	configSvc   portssvc.ConfigSvcFacade
	sourceRepo  portsrepo.FundingSourceRepository
	sessionRepo portsrepo.SessionRepository
	ledgerRepo  portsrepo.LedgerRepository
	emitter     events.Emitter
}

// NewFundingSourceService creates a new FundingSourceService.
func NewFundingSourceService(
	configSvc portssvc.ConfigSvcFacade,
	sourceRepo portsrepo.FundingSourceRepository,
	sessionRepo portsrepo.SessionRepository,
	ledgerRepo portsrepo.LedgerRepository,
	emitter events.Emitter,
) portssvc.FundingSourceSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &fundingSourceService{
		configSvc:   configSvc,
		sourceRepo:  sourceRepo,
		sessionRepo: sessionRepo,
		ledgerRepo:  ledgerRepo,
		emitter:     emitter,
	}
}

var _ portssvc.FundingSourceSvcFacade = (*fundingSourceService)(nil)

// CreateBankAccount creates a BANK funding source.
func (s *fundingSourceService) CreateBankAccount(ctx context.Context, institutionID string, req dto.CreateBankAccountRequest, userID string) (*domain.FundingSource, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.BankEnabled {
		return nil, fmt.Errorf("%w: bank accounts are disabled", apperrors.ErrConfigurationDisabled)
	}
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	source := domain.FundingSource{
		SourceID:       uuid.NewString(),
		InstitutionID:  institutionID,
		Branch:         req.Branch,
		SourceType:     domain.SourceBank,
		Name:           req.Name,
		Currency:       req.Currency,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		State:          domain.SourceActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.sourceRepo.SaveSource(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}

	s.emitter.Emit(ctx, institutionID, events.SourceCreated, map[string]any{
		"sourceID":   source.SourceID,
		"sourceType": string(source.SourceType),
		"name":       source.Name,
	})
	return &source, nil
}

// CreateCashDesk creates a CASHDESK funding source.
func (s *fundingSourceService) CreateCashDesk(ctx context.Context, institutionID string, req dto.CreateCashDeskRequest, userID string) (*domain.FundingSource, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.CashEnabled {
		return nil, fmt.Errorf("%w: cash desks are disabled", apperrors.ErrConfigurationDisabled)
	}
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	source := domain.FundingSource{
		SourceID:            uuid.NewString(),
		InstitutionID:       institutionID,
		Branch:              req.Branch,
		SourceType:          domain.SourceCashDesk,
		Name:                req.Name,
		Currency:            req.Currency,
		CustodianEmployeeID: req.CustodianEmployeeID,
		OpeningBalance:      req.OpeningBalance,
		CurrentBalance:      req.OpeningBalance,
		State:               domain.SourceActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.sourceRepo.SaveSource(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create cash desk: %w", err)
	}

	s.emitter.Emit(ctx, institutionID, events.SourceCreated, map[string]any{
		"sourceID":   source.SourceID,
		"sourceType": string(source.SourceType),
		"name":       source.Name,
	})
	return &source, nil
}

// GetSource retrieves one funding source.
func (s *fundingSourceService) GetSource(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error) {
	return s.sourceRepo.FindSourceByID(ctx, institutionID, sourceID)
}

// ListSources retrieves one page of funding sources.
func (s *fundingSourceService) ListSources(ctx context.Context, institutionID string, filter portsrepo.ListSourcesFilter) ([]domain.FundingSource, int, error) {
	return s.sourceRepo.ListSources(ctx, institutionID, filter)
}

// RetireSource moves a source to RETIRED. History stays; operations stop.
func (s *fundingSourceService) RetireSource(ctx context.Context, institutionID string, sourceID string, userID string) error {
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, sourceID)
	if err != nil {
		return err
	}
	if source.State == domain.SourceRetired {
		return fmt.Errorf("%w: source %s is already retired", apperrors.ErrInvalidStateTransition, sourceID)
	}
	if source.SourceType == domain.SourceCashDesk {
		// A desk with an open session cannot be retired mid-count.
		if _, err := s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, sourceID); err == nil {
			return fmt.Errorf("%w: cash desk %s has an open session", apperrors.ErrValidation, sourceID)
		} else if !errors.Is(err, apperrors.ErrNoOpenSession) {
			return err
		}
	}

	if err := s.sourceRepo.UpdateSourceState(ctx, institutionID, sourceID, domain.SourceRetired, userID, time.Now()); err != nil {
		return err
	}
	s.emitter.Emit(ctx, institutionID, events.SourceRetired, map[string]any{"sourceID": sourceID})
	return nil
}

// requireActiveDesk loads a cash desk and checks it accepts operations.
func (s *fundingSourceService) requireActiveDesk(ctx context.Context, institutionID, deskID string) (*domain.FundingSource, error) {
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	if source.SourceType != domain.SourceCashDesk {
		return nil, fmt.Errorf("%w: source %s is not a cash desk", apperrors.ErrValidation, deskID)
	}
	if !source.IsActive() {
		return nil, fmt.Errorf("%w: cash desk %s is %s", apperrors.ErrSourceNotActive, deskID, source.State)
	}
	return source, nil
}

// deskSessionID resolves the open session stamp for a desk movement. When
// the open-session policy is on, no open session is an error; otherwise the
// movement goes through unstamped.
func (s *fundingSourceService) deskSessionID(ctx context.Context, cfg *domain.TreasuryConfiguration, institutionID, deskID string) (string, error) {
	session, err := s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, deskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoOpenSession) {
			if cfg.RequireOpenSession {
				return "", err
			}
			return "", nil
		}
		return "", err
	}
	return session.SessionID, nil
}

// CashIn records an inbound cash movement on a desk.
func (s *fundingSourceService) CashIn(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.CashEnabled {
		return nil, fmt.Errorf("%w: cash operations are disabled", apperrors.ErrConfigurationDisabled)
	}
	desk, err := s.requireActiveDesk(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	sessionID, err := s.deskSessionID(ctx, cfg, institutionID, deskID)
	if err != nil {
		return nil, err
	}

	category := domain.CategoryDeposit
	if req.Category != "" {
		category = domain.TransactionCategory(req.Category)
	}

	now := time.Now()
	txn := domain.TreasuryTransaction{
		TransactionID:     uuid.NewString(),
		InstitutionID:     institutionID,
		SourceType:        domain.SourceCashDesk,
		SourceID:          deskID,
		Direction:         domain.DirectionIn,
		Category:          category,
		Amount:            req.Amount,
		Currency:          desk.Currency,
		TransactionDate:   now,
		Notes:             req.Notes,
		Status:            domain.TxnPosted,
		CashdeskSessionID: sessionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	guard := portsrepo.BalanceGuard{AllowNegative: true, MaxBalance: cfg.MaxCashDeskBalance}
	if err := s.ledgerRepo.RecordTransaction(ctx, txn, guard); err != nil {
		return nil, err
	}

	logger.Info("cash in recorded",
		slog.String("desk_id", deskID), slog.String("transaction_id", txn.TransactionID), slog.String("amount", req.Amount.String()))
	s.emitter.Emit(ctx, institutionID, events.CashIn, map[string]any{
		"deskID":        deskID,
		"transactionID": txn.TransactionID,
		"amount":        req.Amount.String(),
	})
	return &txn, nil
}

// CashOut records an outbound cash movement. Amounts at or above the cash-out
// approval threshold are stored APPROVAL_PENDING without a balance effect.
func (s *fundingSourceService) CashOut(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.CashEnabled {
		return nil, fmt.Errorf("%w: cash operations are disabled", apperrors.ErrConfigurationDisabled)
	}
	desk, err := s.requireActiveDesk(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if cfg.CashOutRequiresReason && req.Notes == "" {
		return nil, fmt.Errorf("%w: a reason is required for cash out", apperrors.ErrValidation)
	}

	sessionID, err := s.deskSessionID(ctx, cfg, institutionID, deskID)
	if err != nil {
		return nil, err
	}

	category := domain.CategoryWithdrawal
	if req.Category != "" {
		category = domain.TransactionCategory(req.Category)
	}

	status := domain.TxnPosted
	if cfg.CashOutApprovalThreshold.IsPositive() && req.Amount.GreaterThanOrEqual(cfg.CashOutApprovalThreshold) {
		status = domain.TxnApprovalPending
	}

	now := time.Now()
	txn := domain.TreasuryTransaction{
		TransactionID:     uuid.NewString(),
		InstitutionID:     institutionID,
		SourceType:        domain.SourceCashDesk,
		SourceID:          deskID,
		Direction:         domain.DirectionOut,
		Category:          category,
		Amount:            req.Amount,
		Currency:          desk.Currency,
		TransactionDate:   now,
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
	guard := portsrepo.BalanceGuard{AllowNegative: cfg.AllowNegativeCashBalance}
	if err := s.ledgerRepo.RecordTransaction(ctx, txn, guard); err != nil {
		return nil, err
	}

	logger.Info("cash out recorded",
		slog.String("desk_id", deskID), slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", req.Amount.String()), slog.String("status", string(status)))
	s.emitter.Emit(ctx, institutionID, events.CashOut, map[string]any{
		"deskID":        deskID,
		"transactionID": txn.TransactionID,
		"amount":        req.Amount.String(),
		"status":        string(status),
	})
	return &txn, nil
}

// TransferToBank moves counted cash from a desk into a bank account. Both
// ledger legs commit atomically.
func (s *fundingSourceService) TransferToBank(ctx context.Context, institutionID string, deskID string, req dto.TransferToBankRequest, userID string) (*domain.TreasuryTransaction, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.CashEnabled || !cfg.BankEnabled {
		return nil, fmt.Errorf("%w: transfers require both cash and bank features", apperrors.ErrConfigurationDisabled)
	}
	desk, err := s.requireActiveDesk(ctx, institutionID, deskID)
	if err != nil {
		return nil, err
	}
	bank, err := s.sourceRepo.FindSourceByID(ctx, institutionID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if bank.SourceType != domain.SourceBank {
		return nil, fmt.Errorf("%w: source %s is not a bank account", apperrors.ErrValidation, req.BankAccountID)
	}
	if !bank.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is %s", apperrors.ErrSourceNotActive, bank.SourceID, bank.State)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if desk.Currency != bank.Currency {
		return nil, fmt.Errorf("%w: currency mismatch between desk and bank account", apperrors.ErrValidation)
	}

	sessionID, err := s.deskSessionID(ctx, cfg, institutionID, deskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	out := domain.TreasuryTransaction{
		TransactionID:     uuid.NewString(),
		InstitutionID:     institutionID,
		SourceType:        domain.SourceCashDesk,
		SourceID:          deskID,
		Direction:         domain.DirectionOut,
		Category:          domain.CategoryTransfer,
		Amount:            req.Amount,
		Currency:          desk.Currency,
		TransactionDate:   now,
		Reference:         req.Reference,
		Notes:             req.Notes,
		Status:            domain.TxnPosted,
		CashdeskSessionID: sessionID,
		AuditFields:       audit,
	}
	in := domain.TreasuryTransaction{
		TransactionID:   uuid.NewString(),
		InstitutionID:   institutionID,
		SourceType:      domain.SourceBank,
		SourceID:        bank.SourceID,
		Direction:       domain.DirectionIn,
		Category:        domain.CategoryTransfer,
		Amount:          req.Amount,
		Currency:        bank.Currency,
		TransactionDate: now,
		Reference:       req.Reference,
		Notes:           req.Notes,
		Status:          domain.TxnPosted,
		AuditFields:     audit,
	}

	outGuard := portsrepo.BalanceGuard{AllowNegative: cfg.AllowNegativeCashBalance}
	inGuard := portsrepo.BalanceGuard{AllowNegative: true}
	if err := s.ledgerRepo.RecordTransfer(ctx, out, in, outGuard, inGuard); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.TransferToBank, map[string]any{
		"deskID":        deskID,
		"bankAccountID": bank.SourceID,
		"amount":        req.Amount.String(),
	})
	return &out, nil
}

// WithdrawToCashDesk moves money from a bank account into a desk.
func (s *fundingSourceService) WithdrawToCashDesk(ctx context.Context, institutionID string, bankAccountID string, req dto.WithdrawToCashDeskRequest, userID string) (*domain.TreasuryTransaction, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.CashEnabled || !cfg.BankEnabled {
		return nil, fmt.Errorf("%w: withdrawals require both cash and bank features", apperrors.ErrConfigurationDisabled)
	}
	bank, err := s.sourceRepo.FindSourceByID(ctx, institutionID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if bank.SourceType != domain.SourceBank {
		return nil, fmt.Errorf("%w: source %s is not a bank account", apperrors.ErrValidation, bankAccountID)
	}
	if !bank.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is %s", apperrors.ErrSourceNotActive, bankAccountID, bank.State)
	}
	desk, err := s.requireActiveDesk(ctx, institutionID, req.CashDeskID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if desk.Currency != bank.Currency {
		return nil, fmt.Errorf("%w: currency mismatch between bank account and desk", apperrors.ErrValidation)
	}

	sessionID, err := s.deskSessionID(ctx, cfg, institutionID, desk.SourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	out := domain.TreasuryTransaction{
		TransactionID:   uuid.NewString(),
		InstitutionID:   institutionID,
		SourceType:      domain.SourceBank,
		SourceID:        bank.SourceID,
		Direction:       domain.DirectionOut,
		Category:        domain.CategoryTransfer,
		Amount:          req.Amount,
		Currency:        bank.Currency,
		TransactionDate: now,
		Reference:       req.Reference,
		Notes:           req.Notes,
		Status:          domain.TxnPosted,
		AuditFields:     audit,
	}
	in := domain.TreasuryTransaction{
		TransactionID:     uuid.NewString(),
		InstitutionID:     institutionID,
		SourceType:        domain.SourceCashDesk,
		SourceID:          desk.SourceID,
		Direction:         domain.DirectionIn,
		Category:          domain.CategoryTransfer,
		Amount:            req.Amount,
		Currency:          desk.Currency,
		TransactionDate:   now,
		Reference:         req.Reference,
		Notes:             req.Notes,
		Status:            domain.TxnPosted,
		CashdeskSessionID: sessionID,
		AuditFields:       audit,
	}

	// Bank accounts never overdraw on internal moves.
	outGuard := portsrepo.BalanceGuard{AllowNegative: false}
	inGuard := portsrepo.BalanceGuard{AllowNegative: true, MaxBalance: cfg.MaxCashDeskBalance}
	if err := s.ledgerRepo.RecordTransfer(ctx, out, in, outGuard, inGuard); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.WithdrawToDesk, map[string]any{
		"bankAccountID": bank.SourceID,
		"deskID":        desk.SourceID,
		"amount":        req.Amount.String(),
	})
	return &out, nil
}
