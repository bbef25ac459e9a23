package domain

import "github.com/shopspring/decimal"

// MatchingStrictness tunes the reconciliation tolerance. Stored and validated
// but not enforced yet; NORMAL is the default.
type MatchingStrictness string

const (
	StrictnessStrict MatchingStrictness = "STRICT"
	StrictnessNormal MatchingStrictness = "NORMAL"
	StrictnessLoose  MatchingStrictness = "LOOSE"
)

// TreasuryConfiguration is the single active per-institution policy record.
// It is lazily created with defaults on first access and updated in place;
// superseded rows are deactivated, never deleted.
type TreasuryConfiguration struct {
	ConfigID      string `json:"configID"`
	InstitutionID string `json:"institutionID"`
	IsActive      bool   `json:"isActive"`

	// Feature toggles
	BankEnabled           bool `json:"bankEnabled"`
	CashEnabled           bool `json:"cashEnabled"`
	MobileMoneyEnabled    bool `json:"mobileMoneyEnabled"`
	ChequesEnabled        bool `json:"chequesEnabled"`
	ReconciliationEnabled bool `json:"reconciliationEnabled"`

	// Approval policy
	BatchApprovalRequired        bool            `json:"batchApprovalRequired"`
	BatchApprovalThreshold       decimal.Decimal `json:"batchApprovalThresholdAmount"`
	AllowSelfApproval            bool            `json:"allowSelfApproval"`
	CancellationRequiresApproval bool            `json:"cancellationRequiresApproval"`
	LineApprovalRequired         bool            `json:"lineApprovalRequired"`
	LineApprovalThreshold        decimal.Decimal `json:"lineApprovalThresholdAmount"`
	AllowEditAfterApproval       bool            `json:"allowEditAfterApproval"`

	// Execution policy
	RequireBeneficiaryDetailsForNonCash bool `json:"requireBeneficiaryDetailsForNonCash"`
	ExecutionProofRequired              bool `json:"executionProofRequired"`

	// Cash policy
	RequireOpenSession         bool             `json:"requireOpenSession"`
	AllowNegativeCashBalance   bool             `json:"allowNegativeCashBalance"`
	MaxCashDeskBalance         *decimal.Decimal `json:"maxCashDeskBalance"` // nil means no cap
	CashOutApprovalThreshold   decimal.Decimal  `json:"cashOutApprovalThreshold"`
	CashOutRequiresReason      bool             `json:"cashOutRequiresReason"`
	AdjustmentsRequireApproval bool             `json:"adjustmentsRequireApproval"`
	DiscrepancyTolerance       decimal.Decimal  `json:"discrepancyToleranceAmount"`
	AutoLockOnDiscrepancy      bool             `json:"autoLockOnDiscrepancy"`

	// Reconciliation policy
	AutoMatchEnabled               bool               `json:"autoMatchEnabled"`
	MatchWindowDays                int                `json:"matchWindowDays"`
	AutoConfirmConfidenceThreshold int                `json:"autoConfirmConfidenceThreshold"`
	MatchingStrictness             MatchingStrictness `json:"matchingStrictness"`       // declared, not enforced
	LockBatchUntilReconciled       bool               `json:"lockBatchUntilReconciled"` // declared, not enforced

	AuditFields
}

// DefaultTreasuryConfiguration returns the configuration written on first
// access for an institution that has none yet.
func DefaultTreasuryConfiguration(institutionID string) TreasuryConfiguration {
	return TreasuryConfiguration{
		InstitutionID: institutionID,
		IsActive:      true,

		BankEnabled:           true,
		CashEnabled:           true,
		MobileMoneyEnabled:    false,
		ChequesEnabled:        false,
		ReconciliationEnabled: true,

		BatchApprovalRequired:        true,
		BatchApprovalThreshold:       decimal.Zero,
		AllowSelfApproval:            false,
		CancellationRequiresApproval: false,
		LineApprovalRequired:         false,
		LineApprovalThreshold:        decimal.Zero,
		AllowEditAfterApproval:       false,

		RequireBeneficiaryDetailsForNonCash: true,
		ExecutionProofRequired:              false,

		RequireOpenSession:         true,
		AllowNegativeCashBalance:   false,
		MaxCashDeskBalance:         nil,
		CashOutApprovalThreshold:   decimal.Zero,
		CashOutRequiresReason:      false,
		AdjustmentsRequireApproval: false,
		DiscrepancyTolerance:       decimal.Zero,
		AutoLockOnDiscrepancy:      false,

		AutoMatchEnabled:               true,
		MatchWindowDays:                3,
		AutoConfirmConfidenceThreshold: 95,
		MatchingStrictness:             StrictnessNormal,
		LockBatchUntilReconciled:       false,
	}
}

// MethodEnabled reports whether the given payment method is switched on.
func (c TreasuryConfiguration) MethodEnabled(method PaymentMethod) bool {
	switch method {
	case MethodBankTransfer:
		return c.BankEnabled
	case MethodCash:
		return c.CashEnabled
	case MethodMobileMoney:
		return c.MobileMoneyEnabled
	case MethodCheque:
		return c.ChequesEnabled
	default:
		return false
	}
}
