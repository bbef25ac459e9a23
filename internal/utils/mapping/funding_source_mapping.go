package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelFundingSource converts a domain funding source to a model row.
func ToModelFundingSource(d domain.FundingSource) models.FundingSource {
	return models.FundingSource{
		SourceID:            d.SourceID,
		InstitutionID:       d.InstitutionID,
		Branch:              d.Branch,
		SourceType:          string(d.SourceType),
		Name:                d.Name,
		Currency:            d.Currency,
		BankName:            d.BankName,
		AccountNumber:       d.AccountNumber,
		CustodianEmployeeID: d.CustodianEmployeeID,
		OpeningBalance:      d.OpeningBalance,
		CurrentBalance:      d.CurrentBalance,
		State:               string(d.State),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFundingSource converts a model row to a domain funding source.
func ToDomainFundingSource(m models.FundingSource) domain.FundingSource {
	return domain.FundingSource{
		SourceID:            m.SourceID,
		InstitutionID:       m.InstitutionID,
		Branch:              m.Branch,
		SourceType:          domain.SourceType(m.SourceType),
		Name:                m.Name,
		Currency:            m.Currency,
		BankName:            m.BankName,
		AccountNumber:       m.AccountNumber,
		CustodianEmployeeID: m.CustodianEmployeeID,
		OpeningBalance:      m.OpeningBalance,
		CurrentBalance:      m.CurrentBalance,
		State:               domain.SourceState(m.State),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFundingSourceSlice converts a slice of model rows.
func ToDomainFundingSourceSlice(ms []models.FundingSource) []domain.FundingSource {
	ds := make([]domain.FundingSource, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFundingSource(m)
	}
	return ds
}
