package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelSession converts a domain cash desk session to a model row.
func ToModelSession(d domain.CashDeskSession) models.CashDeskSession {
	return models.CashDeskSession{
		SessionID:       d.SessionID,
		InstitutionID:   d.InstitutionID,
		SourceID:        d.SourceID,
		Status:          string(d.Status),
		OpenedBy:        d.OpenedBy,
		OpenedAt:        d.OpenedAt,
		OpeningCount:    d.OpeningCount,
		ClosedBy:        d.ClosedBy,
		ClosedAt:        d.ClosedAt,
		ClosingCount:    d.ClosingCount,
		Discrepancy:     d.Discrepancy,
		DiscrepancyNote: d.DiscrepancyNote,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSession converts a model row to a domain cash desk session.
func ToDomainSession(m models.CashDeskSession) domain.CashDeskSession {
	return domain.CashDeskSession{
		SessionID:       m.SessionID,
		InstitutionID:   m.InstitutionID,
		SourceID:        m.SourceID,
		Status:          domain.SessionStatus(m.Status),
		OpenedBy:        m.OpenedBy,
		OpenedAt:        m.OpenedAt,
		OpeningCount:    m.OpeningCount,
		ClosedBy:        m.ClosedBy,
		ClosedAt:        m.ClosedAt,
		ClosingCount:    m.ClosingCount,
		Discrepancy:     m.Discrepancy,
		DiscrepancyNote: m.DiscrepancyNote,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSessionSlice converts a slice of model rows.
func ToDomainSessionSlice(ms []models.CashDeskSession) []domain.CashDeskSession {
	ds := make([]domain.CashDeskSession, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSession(m)
	}
	return ds
}
