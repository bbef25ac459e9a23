package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateConfigRequest carries a partial configuration update. Pointer fields
// distinguish "not provided" from zero values; unknown keys are rejected at
// the binding boundary.
type UpdateConfigRequest struct {
	BankEnabled           *bool `json:"bankEnabled"`
	CashEnabled           *bool `json:"cashEnabled"`
	MobileMoneyEnabled    *bool `json:"mobileMoneyEnabled"`
	ChequesEnabled        *bool `json:"chequesEnabled"`
	ReconciliationEnabled *bool `json:"reconciliationEnabled"`

	BatchApprovalRequired        *bool            `json:"batchApprovalRequired"`
	BatchApprovalThreshold       *decimal.Decimal `json:"batchApprovalThresholdAmount"`
	AllowSelfApproval            *bool            `json:"allowSelfApproval"`
	CancellationRequiresApproval *bool            `json:"cancellationRequiresApproval"`
	LineApprovalRequired         *bool            `json:"lineApprovalRequired"`
	LineApprovalThreshold        *decimal.Decimal `json:"lineApprovalThresholdAmount"`
	AllowEditAfterApproval       *bool            `json:"allowEditAfterApproval"`

	RequireBeneficiaryDetailsForNonCash *bool `json:"requireBeneficiaryDetailsForNonCash"`
	ExecutionProofRequired              *bool `json:"executionProofRequired"`

	RequireOpenSession         *bool            `json:"requireOpenSession"`
	AllowNegativeCashBalance   *bool            `json:"allowNegativeCashBalance"`
	MaxCashDeskBalance         *decimal.Decimal `json:"maxCashDeskBalance"`
	CashOutApprovalThreshold   *decimal.Decimal `json:"cashOutApprovalThreshold"`
	CashOutRequiresReason      *bool            `json:"cashOutRequiresReason"`
	AdjustmentsRequireApproval *bool            `json:"adjustmentsRequireApproval"`
	DiscrepancyTolerance       *decimal.Decimal `json:"discrepancyToleranceAmount"`
	AutoLockOnDiscrepancy      *bool            `json:"autoLockOnDiscrepancy"`

	AutoMatchEnabled               *bool   `json:"autoMatchEnabled"`
	MatchWindowDays                *int    `json:"matchWindowDays" binding:"omitempty,gte=0,lte=90"`
	AutoConfirmConfidenceThreshold *int    `json:"autoConfirmConfidenceThreshold" binding:"omitempty,gte=0,lte=100"`
	MatchingStrictness             *string `json:"matchingStrictness" binding:"omitempty,oneof=STRICT NORMAL LOOSE"`
	LockBatchUntilReconciled       *bool   `json:"lockBatchUntilReconciled"`
}

// ConfigResponse mirrors domain.TreasuryConfiguration.
type ConfigResponse struct {
	ConfigID      string `json:"configID"`
	InstitutionID string `json:"institutionID"`

	BankEnabled           bool `json:"bankEnabled"`
	CashEnabled           bool `json:"cashEnabled"`
	MobileMoneyEnabled    bool `json:"mobileMoneyEnabled"`
	ChequesEnabled        bool `json:"chequesEnabled"`
	ReconciliationEnabled bool `json:"reconciliationEnabled"`

	BatchApprovalRequired        bool            `json:"batchApprovalRequired"`
	BatchApprovalThreshold       decimal.Decimal `json:"batchApprovalThresholdAmount"`
	AllowSelfApproval            bool            `json:"allowSelfApproval"`
	CancellationRequiresApproval bool            `json:"cancellationRequiresApproval"`
	LineApprovalRequired         bool            `json:"lineApprovalRequired"`
	LineApprovalThreshold        decimal.Decimal `json:"lineApprovalThresholdAmount"`
	AllowEditAfterApproval       bool            `json:"allowEditAfterApproval"`

	RequireBeneficiaryDetailsForNonCash bool `json:"requireBeneficiaryDetailsForNonCash"`
	ExecutionProofRequired              bool `json:"executionProofRequired"`

	RequireOpenSession         bool             `json:"requireOpenSession"`
	AllowNegativeCashBalance   bool             `json:"allowNegativeCashBalance"`
	MaxCashDeskBalance         *decimal.Decimal `json:"maxCashDeskBalance"`
	CashOutApprovalThreshold   decimal.Decimal  `json:"cashOutApprovalThreshold"`
	CashOutRequiresReason      bool             `json:"cashOutRequiresReason"`
	AdjustmentsRequireApproval bool             `json:"adjustmentsRequireApproval"`
	DiscrepancyTolerance       decimal.Decimal  `json:"discrepancyToleranceAmount"`
	AutoLockOnDiscrepancy      bool             `json:"autoLockOnDiscrepancy"`

	AutoMatchEnabled               bool   `json:"autoMatchEnabled"`
	MatchWindowDays                int    `json:"matchWindowDays"`
	AutoConfirmConfidenceThreshold int    `json:"autoConfirmConfidenceThreshold"`
	MatchingStrictness             string `json:"matchingStrictness"`
	LockBatchUntilReconciled       bool   `json:"lockBatchUntilReconciled"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToConfigResponse converts a domain configuration to its response DTO.
func ToConfigResponse(cfg *domain.TreasuryConfiguration) ConfigResponse {
	return ConfigResponse{
		ConfigID:      cfg.ConfigID,
		InstitutionID: cfg.InstitutionID,

		BankEnabled:           cfg.BankEnabled,
		CashEnabled:           cfg.CashEnabled,
		MobileMoneyEnabled:    cfg.MobileMoneyEnabled,
		ChequesEnabled:        cfg.ChequesEnabled,
		ReconciliationEnabled: cfg.ReconciliationEnabled,

		BatchApprovalRequired:        cfg.BatchApprovalRequired,
		BatchApprovalThreshold:       cfg.BatchApprovalThreshold,
		AllowSelfApproval:            cfg.AllowSelfApproval,
		CancellationRequiresApproval: cfg.CancellationRequiresApproval,
		LineApprovalRequired:         cfg.LineApprovalRequired,
		LineApprovalThreshold:        cfg.LineApprovalThreshold,
		AllowEditAfterApproval:       cfg.AllowEditAfterApproval,

		RequireBeneficiaryDetailsForNonCash: cfg.RequireBeneficiaryDetailsForNonCash,
		ExecutionProofRequired:              cfg.ExecutionProofRequired,

		RequireOpenSession:         cfg.RequireOpenSession,
		AllowNegativeCashBalance:   cfg.AllowNegativeCashBalance,
		MaxCashDeskBalance:         cfg.MaxCashDeskBalance,
		CashOutApprovalThreshold:   cfg.CashOutApprovalThreshold,
		CashOutRequiresReason:      cfg.CashOutRequiresReason,
		AdjustmentsRequireApproval: cfg.AdjustmentsRequireApproval,
		DiscrepancyTolerance:       cfg.DiscrepancyTolerance,
		AutoLockOnDiscrepancy:      cfg.AutoLockOnDiscrepancy,

		AutoMatchEnabled:               cfg.AutoMatchEnabled,
		MatchWindowDays:                cfg.MatchWindowDays,
		AutoConfirmConfidenceThreshold: cfg.AutoConfirmConfidenceThreshold,
		MatchingStrictness:             string(cfg.MatchingStrictness),
		LockBatchUntilReconciled:       cfg.LockBatchUntilReconciled,

		CreatedAt:     cfg.CreatedAt,
		LastUpdatedAt: cfg.LastUpdatedAt,
		LastUpdatedBy: cfg.LastUpdatedBy,
	}
}
