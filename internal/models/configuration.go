package models

import "github.com/shopspring/decimal"

// TreasuryConfiguration is the row shape of treasury_configurations.
type TreasuryConfiguration struct {
	ConfigID      string `db:"config_id"`
	InstitutionID string `db:"institution_id"`
	IsActive      bool   `db:"is_active"`

	BankEnabled           bool `db:"bank_enabled"`
	CashEnabled           bool `db:"cash_enabled"`
	MobileMoneyEnabled    bool `db:"mobile_money_enabled"`
	ChequesEnabled        bool `db:"cheques_enabled"`
	ReconciliationEnabled bool `db:"reconciliation_enabled"`

	BatchApprovalRequired        bool            `db:"batch_approval_required"`
	BatchApprovalThreshold       decimal.Decimal `db:"batch_approval_threshold"`
	AllowSelfApproval            bool            `db:"allow_self_approval"`
	CancellationRequiresApproval bool            `db:"cancellation_requires_approval"`
	LineApprovalRequired         bool            `db:"line_approval_required"`
	LineApprovalThreshold        decimal.Decimal `db:"line_approval_threshold"`
	AllowEditAfterApproval       bool            `db:"allow_edit_after_approval"`

	RequireBeneficiaryDetailsForNonCash bool `db:"require_beneficiary_details_non_cash"`
	ExecutionProofRequired              bool `db:"execution_proof_required"`

	RequireOpenSession         bool             `db:"require_open_session"`
	AllowNegativeCashBalance   bool             `db:"allow_negative_cash_balance"`
	MaxCashDeskBalance         *decimal.Decimal `db:"max_cash_desk_balance"`
	CashOutApprovalThreshold   decimal.Decimal  `db:"cash_out_approval_threshold"`
	CashOutRequiresReason      bool             `db:"cash_out_requires_reason"`
	AdjustmentsRequireApproval bool             `db:"adjustments_require_approval"`
	DiscrepancyTolerance       decimal.Decimal  `db:"discrepancy_tolerance"`
	AutoLockOnDiscrepancy      bool             `db:"auto_lock_on_discrepancy"`

	AutoMatchEnabled               bool   `db:"auto_match_enabled"`
	MatchWindowDays                int    `db:"match_window_days"`
	AutoConfirmConfidenceThreshold int    `db:"auto_confirm_confidence_threshold"`
	MatchingStrictness             string `db:"matching_strictness"`
	LockBatchUntilReconciled       bool   `db:"lock_batch_until_reconciled"`

	AuditFields
}
