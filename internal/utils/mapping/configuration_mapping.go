package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelConfiguration converts a domain configuration to a model row.
func ToModelConfiguration(d domain.TreasuryConfiguration) models.TreasuryConfiguration {
	return models.TreasuryConfiguration{
		ConfigID:      d.ConfigID,
		InstitutionID: d.InstitutionID,
		IsActive:      d.IsActive,

		BankEnabled:           d.BankEnabled,
		CashEnabled:           d.CashEnabled,
		MobileMoneyEnabled:    d.MobileMoneyEnabled,
		ChequesEnabled:        d.ChequesEnabled,
		ReconciliationEnabled: d.ReconciliationEnabled,

		BatchApprovalRequired:        d.BatchApprovalRequired,
		BatchApprovalThreshold:       d.BatchApprovalThreshold,
		AllowSelfApproval:            d.AllowSelfApproval,
		CancellationRequiresApproval: d.CancellationRequiresApproval,
		LineApprovalRequired:         d.LineApprovalRequired,
		LineApprovalThreshold:        d.LineApprovalThreshold,
		AllowEditAfterApproval:       d.AllowEditAfterApproval,

		RequireBeneficiaryDetailsForNonCash: d.RequireBeneficiaryDetailsForNonCash,
		ExecutionProofRequired:              d.ExecutionProofRequired,

		RequireOpenSession:         d.RequireOpenSession,
		AllowNegativeCashBalance:   d.AllowNegativeCashBalance,
		MaxCashDeskBalance:         d.MaxCashDeskBalance,
		CashOutApprovalThreshold:   d.CashOutApprovalThreshold,
		CashOutRequiresReason:      d.CashOutRequiresReason,
		AdjustmentsRequireApproval: d.AdjustmentsRequireApproval,
		DiscrepancyTolerance:       d.DiscrepancyTolerance,
		AutoLockOnDiscrepancy:      d.AutoLockOnDiscrepancy,

		AutoMatchEnabled:               d.AutoMatchEnabled,
		MatchWindowDays:                d.MatchWindowDays,
		AutoConfirmConfidenceThreshold: d.AutoConfirmConfidenceThreshold,
		MatchingStrictness:             string(d.MatchingStrictness),
		LockBatchUntilReconciled:       d.LockBatchUntilReconciled,

		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainConfiguration converts a model row to the domain configuration.
func ToDomainConfiguration(m models.TreasuryConfiguration) domain.TreasuryConfiguration {
	return domain.TreasuryConfiguration{
		ConfigID:      m.ConfigID,
		InstitutionID: m.InstitutionID,
		IsActive:      m.IsActive,

		BankEnabled:           m.BankEnabled,
		CashEnabled:           m.CashEnabled,
		MobileMoneyEnabled:    m.MobileMoneyEnabled,
		ChequesEnabled:        m.ChequesEnabled,
		ReconciliationEnabled: m.ReconciliationEnabled,

		BatchApprovalRequired:        m.BatchApprovalRequired,
		BatchApprovalThreshold:       m.BatchApprovalThreshold,
		AllowSelfApproval:            m.AllowSelfApproval,
		CancellationRequiresApproval: m.CancellationRequiresApproval,
		LineApprovalRequired:         m.LineApprovalRequired,
		LineApprovalThreshold:        m.LineApprovalThreshold,
		AllowEditAfterApproval:       m.AllowEditAfterApproval,

		RequireBeneficiaryDetailsForNonCash: m.RequireBeneficiaryDetailsForNonCash,
		ExecutionProofRequired:              m.ExecutionProofRequired,

		RequireOpenSession:         m.RequireOpenSession,
		AllowNegativeCashBalance:   m.AllowNegativeCashBalance,
		MaxCashDeskBalance:         m.MaxCashDeskBalance,
		CashOutApprovalThreshold:   m.CashOutApprovalThreshold,
		CashOutRequiresReason:      m.CashOutRequiresReason,
		AdjustmentsRequireApproval: m.AdjustmentsRequireApproval,
		DiscrepancyTolerance:       m.DiscrepancyTolerance,
		AutoLockOnDiscrepancy:      m.AutoLockOnDiscrepancy,

		AutoMatchEnabled:               m.AutoMatchEnabled,
		MatchWindowDays:                m.MatchWindowDays,
		AutoConfirmConfidenceThreshold: m.AutoConfirmConfidenceThreshold,
		MatchingStrictness:             domain.MatchingStrictness(m.MatchingStrictness),
		LockBatchUntilReconciled:       m.LockBatchUntilReconciled,

		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
