package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelMatch converts a domain reconciliation match to a model row.
func ToModelMatch(d domain.ReconciliationMatch) models.ReconciliationMatch {
	return models.ReconciliationMatch{
		MatchID:         d.MatchID,
		InstitutionID:   d.InstitutionID,
		StatementLineID: d.StatementLineID,
		MatchType:       string(d.MatchType),
		MatchedID:       d.MatchedID,
		Confidence:      d.Confidence,
		Status:          string(d.Status),
		ConfirmedBy:     d.ConfirmedBy,
		ConfirmedAt:     d.ConfirmedAt,
		RejectedReason:  d.RejectedReason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMatch converts a model row to a domain reconciliation match.
func ToDomainMatch(m models.ReconciliationMatch) domain.ReconciliationMatch {
	return domain.ReconciliationMatch{
		MatchID:         m.MatchID,
		InstitutionID:   m.InstitutionID,
		StatementLineID: m.StatementLineID,
		MatchType:       domain.MatchType(m.MatchType),
		MatchedID:       m.MatchedID,
		Confidence:      m.Confidence,
		Status:          domain.MatchStatus(m.Status),
		ConfirmedBy:     m.ConfirmedBy,
		ConfirmedAt:     m.ConfirmedAt,
		RejectedReason:  m.RejectedReason,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMatchSlice converts a slice of model rows.
func ToDomainMatchSlice(ms []models.ReconciliationMatch) []domain.ReconciliationMatch {
	ds := make([]domain.ReconciliationMatch, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMatch(m)
	}
	return ds
}
