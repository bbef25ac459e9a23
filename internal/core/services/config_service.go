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

// configService resolves and maintains the active per-institution treasury
// configuration.
type configService struct {
	configRepo portsrepo.ConfigRepository
	emitter    events.Emitter
}

// NewConfigService creates a new ConfigService.
func NewConfigService(configRepo portsrepo.ConfigRepository, emitter events.Emitter) portssvc.ConfigSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &configService{configRepo: configRepo, emitter: emitter}
}

var _ portssvc.ConfigSvcFacade = (*configService)(nil)

// GetOrCreate returns the institution's active configuration, creating the
// default one on first access. If older active rows snuck in (a race on
// first access), all but the newest are deactivated.
func (s *configService) GetOrCreate(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configRepo.FindActiveConfig(ctx, institutionID)
	if err == nil {
		repaired, repairErr := s.configRepo.DeactivateOlderConfigs(ctx, institutionID, cfg.ConfigID)
		if repairErr != nil {
			logger.Warn("failed to repair duplicate active configurations",
				slog.String("institution_id", institutionID), slog.String("error", repairErr.Error()))
		} else if repaired > 0 {
			logger.Warn("deactivated duplicate active configurations",
				slog.String("institution_id", institutionID), slog.Int("count", repaired))
		}
		return cfg, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	created := domain.DefaultTreasuryConfiguration(institutionID)
	created.ConfigID = uuid.NewString()
	created.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     "system",
		LastUpdatedAt: now,
		LastUpdatedBy: "system",
	}

	if err := s.configRepo.SaveConfig(ctx, created); err != nil {
		// Lost the first-access race; the winner's row is the active one.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.configRepo.FindActiveConfig(ctx, institutionID)
		}
		return nil, fmt.Errorf("failed to create default configuration for institution %s: %w", institutionID, err)
	}

	logger.Info("created default treasury configuration", slog.String("institution_id", institutionID))
	return &created, nil
}

// Update applies a partial configuration update; omitted fields keep their
// value.
func (s *configService) Update(ctx context.Context, institutionID string, req dto.UpdateConfigRequest, userID string) (*domain.TreasuryConfiguration, error) {
	cfg, err := s.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	applyConfigUpdate(cfg, req)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	cfg.LastUpdatedAt = time.Now()
	cfg.LastUpdatedBy = userID
	if err := s.configRepo.UpdateConfig(ctx, *cfg); err != nil {
		return nil, fmt.Errorf("failed to update configuration for institution %s: %w", institutionID, err)
	}

	s.emitter.Emit(ctx, institutionID, events.ConfigUpdated, map[string]any{
		"configID":  cfg.ConfigID,
		"updatedBy": userID,
	})
	return cfg, nil
}

func applyConfigUpdate(cfg *domain.TreasuryConfiguration, req dto.UpdateConfigRequest) {
	if req.BankEnabled != nil {
		cfg.BankEnabled = *req.BankEnabled
	}
	if req.CashEnabled != nil {
		cfg.CashEnabled = *req.CashEnabled
	}
	if req.MobileMoneyEnabled != nil {
		cfg.MobileMoneyEnabled = *req.MobileMoneyEnabled
	}
	if req.ChequesEnabled != nil {
		cfg.ChequesEnabled = *req.ChequesEnabled
	}
	if req.ReconciliationEnabled != nil {
		cfg.ReconciliationEnabled = *req.ReconciliationEnabled
	}
	if req.BatchApprovalRequired != nil {
		cfg.BatchApprovalRequired = *req.BatchApprovalRequired
	}
	if req.BatchApprovalThreshold != nil {
		cfg.BatchApprovalThreshold = *req.BatchApprovalThreshold
	}
	if req.AllowSelfApproval != nil {
		cfg.AllowSelfApproval = *req.AllowSelfApproval
	}
	if req.CancellationRequiresApproval != nil {
		cfg.CancellationRequiresApproval = *req.CancellationRequiresApproval
	}
	if req.LineApprovalRequired != nil {
		cfg.LineApprovalRequired = *req.LineApprovalRequired
	}
	if req.LineApprovalThreshold != nil {
		cfg.LineApprovalThreshold = *req.LineApprovalThreshold
	}
	if req.AllowEditAfterApproval != nil {
		cfg.AllowEditAfterApproval = *req.AllowEditAfterApproval
	}
	if req.RequireBeneficiaryDetailsForNonCash != nil {
		cfg.RequireBeneficiaryDetailsForNonCash = *req.RequireBeneficiaryDetailsForNonCash
	}
	if req.ExecutionProofRequired != nil {
		cfg.ExecutionProofRequired = *req.ExecutionProofRequired
	}
	if req.RequireOpenSession != nil {
		cfg.RequireOpenSession = *req.RequireOpenSession
	}
	if req.AllowNegativeCashBalance != nil {
		cfg.AllowNegativeCashBalance = *req.AllowNegativeCashBalance
	}
	if req.MaxCashDeskBalance != nil {
		cfg.MaxCashDeskBalance = req.MaxCashDeskBalance
	}
	if req.CashOutApprovalThreshold != nil {
		cfg.CashOutApprovalThreshold = *req.CashOutApprovalThreshold
	}
	if req.CashOutRequiresReason != nil {
		cfg.CashOutRequiresReason = *req.CashOutRequiresReason
	}
	if req.AdjustmentsRequireApproval != nil {
		cfg.AdjustmentsRequireApproval = *req.AdjustmentsRequireApproval
	}
	if req.DiscrepancyTolerance != nil {
		cfg.DiscrepancyTolerance = *req.DiscrepancyTolerance
	}
	if req.AutoLockOnDiscrepancy != nil {
		cfg.AutoLockOnDiscrepancy = *req.AutoLockOnDiscrepancy
	}
	if req.AutoMatchEnabled != nil {
		cfg.AutoMatchEnabled = *req.AutoMatchEnabled
	}
	if req.MatchWindowDays != nil {
		cfg.MatchWindowDays = *req.MatchWindowDays
	}
	if req.AutoConfirmConfidenceThreshold != nil {
		cfg.AutoConfirmConfidenceThreshold = *req.AutoConfirmConfidenceThreshold
	}
	if req.MatchingStrictness != nil {
		cfg.MatchingStrictness = domain.MatchingStrictness(*req.MatchingStrictness)
	}
	if req.LockBatchUntilReconciled != nil {
		cfg.LockBatchUntilReconciled = *req.LockBatchUntilReconciled
	}
}

func validateConfig(cfg *domain.TreasuryConfiguration) error {
	if cfg.BatchApprovalThreshold.IsNegative() ||
		cfg.LineApprovalThreshold.IsNegative() ||
		cfg.CashOutApprovalThreshold.IsNegative() ||
		cfg.DiscrepancyTolerance.IsNegative() {
		return fmt.Errorf("%w: threshold amounts must not be negative", apperrors.ErrValidation)
	}
	if cfg.MaxCashDeskBalance != nil && cfg.MaxCashDeskBalance.IsNegative() {
		return fmt.Errorf("%w: maxCashDeskBalance must not be negative", apperrors.ErrValidation)
	}
	if cfg.MatchWindowDays < 0 || cfg.MatchWindowDays > 90 {
		return fmt.Errorf("%w: matchWindowDays must be between 0 and 90", apperrors.ErrValidation)
	}
	if cfg.AutoConfirmConfidenceThreshold < 0 || cfg.AutoConfirmConfidenceThreshold > 100 {
		return fmt.Errorf("%w: autoConfirmConfidenceThreshold must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}
