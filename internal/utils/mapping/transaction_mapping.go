package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelTransaction converts a domain ledger entry to a model row.
func ToModelTransaction(d domain.TreasuryTransaction) models.TreasuryTransaction {
	return models.TreasuryTransaction{
		TransactionID:         d.TransactionID,
		InstitutionID:         d.InstitutionID,
		SourceType:            string(d.SourceType),
		SourceID:              d.SourceID,
		Direction:             string(d.Direction),
		Category:              string(d.Category),
		Amount:                d.Amount,
		Currency:              d.Currency,
		TransactionDate:       d.TransactionDate,
		Reference:             d.Reference,
		CounterpartyName:      d.CounterpartyName,
		Notes:                 d.Notes,
		Status:                string(d.Status),
		LinkedObjectType:      d.LinkedObjectType,
		LinkedObjectID:        d.LinkedObjectID,
		CashdeskSessionID:     d.CashdeskSessionID,
		ReversesTransactionID: d.ReversesTransactionID,
		ApprovedBy:            d.ApprovedBy,
		ReconciledAt:          d.ReconciledAt,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model row to a domain ledger entry.
func ToDomainTransaction(m models.TreasuryTransaction) domain.TreasuryTransaction {
	return domain.TreasuryTransaction{
		TransactionID:         m.TransactionID,
		InstitutionID:         m.InstitutionID,
		SourceType:            domain.SourceType(m.SourceType),
		SourceID:              m.SourceID,
		Direction:             domain.Direction(m.Direction),
		Category:              domain.TransactionCategory(m.Category),
		Amount:                m.Amount,
		Currency:              m.Currency,
		TransactionDate:       m.TransactionDate,
		Reference:             m.Reference,
		CounterpartyName:      m.CounterpartyName,
		Notes:                 m.Notes,
		Status:                domain.TransactionStatus(m.Status),
		LinkedObjectType:      m.LinkedObjectType,
		LinkedObjectID:        m.LinkedObjectID,
		CashdeskSessionID:     m.CashdeskSessionID,
		ReversesTransactionID: m.ReversesTransactionID,
		ApprovedBy:            m.ApprovedBy,
		ReconciledAt:          m.ReconciledAt,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model rows.
func ToDomainTransactionSlice(ms []models.TreasuryTransaction) []domain.TreasuryTransaction {
	ds := make([]domain.TreasuryTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
