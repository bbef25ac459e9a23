package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const configColumns = `
	config_id, institution_id, is_active,
	bank_enabled, cash_enabled, mobile_money_enabled, cheques_enabled, reconciliation_enabled,
	batch_approval_required, batch_approval_threshold, allow_self_approval, cancellation_requires_approval,
	line_approval_required, line_approval_threshold, allow_edit_after_approval,
	require_beneficiary_details_non_cash, execution_proof_required,
	require_open_session, allow_negative_cash_balance, max_cash_desk_balance,
	cash_out_approval_threshold, cash_out_requires_reason, adjustments_require_approval,
	discrepancy_tolerance, auto_lock_on_discrepancy,
	auto_match_enabled, match_window_days, auto_confirm_confidence_threshold,
	matching_strictness, lock_batch_until_reconciled,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxConfigRepository struct {
	BaseRepository
}

// newPgxConfigRepository creates a new repository for treasury configuration data.
func newPgxConfigRepository(pool *pgxpool.Pool) portsrepo.ConfigRepository {
	return &PgxConfigRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ConfigRepository = (*PgxConfigRepository)(nil)

func scanConfig(row pgx.Row) (models.TreasuryConfiguration, error) {
	var m models.TreasuryConfiguration
	err := row.Scan(
		&m.ConfigID,
		&m.InstitutionID,
		&m.IsActive,
		&m.BankEnabled,
		&m.CashEnabled,
		&m.MobileMoneyEnabled,
		&m.ChequesEnabled,
		&m.ReconciliationEnabled,
		&m.BatchApprovalRequired,
		&m.BatchApprovalThreshold,
		&m.AllowSelfApproval,
		&m.CancellationRequiresApproval,
		&m.LineApprovalRequired,
		&m.LineApprovalThreshold,
		&m.AllowEditAfterApproval,
		&m.RequireBeneficiaryDetailsForNonCash,
		&m.ExecutionProofRequired,
		&m.RequireOpenSession,
		&m.AllowNegativeCashBalance,
		&m.MaxCashDeskBalance,
		&m.CashOutApprovalThreshold,
		&m.CashOutRequiresReason,
		&m.AdjustmentsRequireApproval,
		&m.DiscrepancyTolerance,
		&m.AutoLockOnDiscrepancy,
		&m.AutoMatchEnabled,
		&m.MatchWindowDays,
		&m.AutoConfirmConfidenceThreshold,
		&m.MatchingStrictness,
		&m.LockBatchUntilReconciled,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindActiveConfig returns the newest active configuration for the institution.
func (r *PgxConfigRepository) FindActiveConfig(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error) {
	query := `
		SELECT ` + configColumns + `
		FROM treasury_configurations
		WHERE institution_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanConfig(r.Pool.QueryRow(ctx, query, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active configuration for institution "+institutionID, err)
	}

	cfg := mapping.ToDomainConfiguration(m)
	return &cfg, nil
}

// SaveConfig inserts a new configuration row.
func (r *PgxConfigRepository) SaveConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error {
	m := mapping.ToModelConfiguration(cfg)
	query := `
		INSERT INTO treasury_configurations (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ConfigID,
		m.InstitutionID,
		m.IsActive,
		m.BankEnabled,
		m.CashEnabled,
		m.MobileMoneyEnabled,
		m.ChequesEnabled,
		m.ReconciliationEnabled,
		m.BatchApprovalRequired,
		m.BatchApprovalThreshold,
		m.AllowSelfApproval,
		m.CancellationRequiresApproval,
		m.LineApprovalRequired,
		m.LineApprovalThreshold,
		m.AllowEditAfterApproval,
		m.RequireBeneficiaryDetailsForNonCash,
		m.ExecutionProofRequired,
		m.RequireOpenSession,
		m.AllowNegativeCashBalance,
		m.MaxCashDeskBalance,
		m.CashOutApprovalThreshold,
		m.CashOutRequiresReason,
		m.AdjustmentsRequireApproval,
		m.DiscrepancyTolerance,
		m.AutoLockOnDiscrepancy,
		m.AutoMatchEnabled,
		m.MatchWindowDays,
		m.AutoConfirmConfidenceThreshold,
		m.MatchingStrictness,
		m.LockBatchUntilReconciled,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: configuration %s already exists", apperrors.ErrDuplicate, m.ConfigID)
		}
		return apperrors.NewAppError(500, "failed to save configuration "+m.ConfigID, err)
	}
	return nil
}

// UpdateConfig rewrites an existing configuration in place.
func (r *PgxConfigRepository) UpdateConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error {
	m := mapping.ToModelConfiguration(cfg)
	query := `
		UPDATE treasury_configurations SET
			bank_enabled = $3, cash_enabled = $4, mobile_money_enabled = $5, cheques_enabled = $6,
			reconciliation_enabled = $7,
			batch_approval_required = $8, batch_approval_threshold = $9, allow_self_approval = $10,
			cancellation_requires_approval = $11, line_approval_required = $12, line_approval_threshold = $13,
			allow_edit_after_approval = $14,
			require_beneficiary_details_non_cash = $15, execution_proof_required = $16,
			require_open_session = $17, allow_negative_cash_balance = $18, max_cash_desk_balance = $19,
			cash_out_approval_threshold = $20, cash_out_requires_reason = $21, adjustments_require_approval = $22,
			discrepancy_tolerance = $23, auto_lock_on_discrepancy = $24,
			auto_match_enabled = $25, match_window_days = $26, auto_confirm_confidence_threshold = $27,
			matching_strictness = $28, lock_batch_until_reconciled = $29,
			last_updated_at = $30, last_updated_by = $31
		WHERE config_id = $1 AND institution_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ConfigID,
		m.InstitutionID,
		m.BankEnabled,
		m.CashEnabled,
		m.MobileMoneyEnabled,
		m.ChequesEnabled,
		m.ReconciliationEnabled,
		m.BatchApprovalRequired,
		m.BatchApprovalThreshold,
		m.AllowSelfApproval,
		m.CancellationRequiresApproval,
		m.LineApprovalRequired,
		m.LineApprovalThreshold,
		m.AllowEditAfterApproval,
		m.RequireBeneficiaryDetailsForNonCash,
		m.ExecutionProofRequired,
		m.RequireOpenSession,
		m.AllowNegativeCashBalance,
		m.MaxCashDeskBalance,
		m.CashOutApprovalThreshold,
		m.CashOutRequiresReason,
		m.AdjustmentsRequireApproval,
		m.DiscrepancyTolerance,
		m.AutoLockOnDiscrepancy,
		m.AutoMatchEnabled,
		m.MatchWindowDays,
		m.AutoConfirmConfidenceThreshold,
		m.MatchingStrictness,
		m.LockBatchUntilReconciled,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update configuration "+m.ConfigID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateOlderConfigs deactivates every active configuration for the
// institution except keepConfigID.
func (r *PgxConfigRepository) DeactivateOlderConfigs(ctx context.Context, institutionID string, keepConfigID string) (int, error) {
	query := `
		UPDATE treasury_configurations
		SET is_active = FALSE
		WHERE institution_id = $1 AND is_active = TRUE AND config_id != $2;
	`
	tag, err := r.Pool.Exec(ctx, query, institutionID, keepConfigID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to deactivate duplicate configurations for institution "+institutionID, err)
	}
	return int(tag.RowsAffected()), nil
}
