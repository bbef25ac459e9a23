package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelStatement converts a domain bank statement to a model row.
func ToModelStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		StatementID:   d.StatementID,
		InstitutionID: d.InstitutionID,
		BankAccountID: d.BankAccountID,
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		Status:        string(d.Status),
		LineCount:     d.LineCount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatement converts a model row to a domain bank statement.
func ToDomainStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		StatementID:   m.StatementID,
		InstitutionID: m.InstitutionID,
		BankAccountID: m.BankAccountID,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		Status:        domain.StatementStatus(m.Status),
		LineCount:     m.LineCount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatementSlice converts a slice of model rows.
func ToDomainStatementSlice(ms []models.BankStatement) []domain.BankStatement {
	ds := make([]domain.BankStatement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatement(m)
	}
	return ds
}

// ToModelStatementLine converts a domain statement line to a model row.
func ToModelStatementLine(d domain.BankStatementLine) models.BankStatementLine {
	return models.BankStatementLine{
		LineID:        d.LineID,
		InstitutionID: d.InstitutionID,
		StatementID:   d.StatementID,
		TxnDate:       d.TxnDate,
		Description:   d.Description,
		AmountSigned:  d.AmountSigned,
		Currency:      d.Currency,
		ReferenceRaw:  d.ReferenceRaw,
		ExternalID:    d.ExternalID,
		Matched:       d.Matched,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatementLine converts a model row to a domain statement line.
func ToDomainStatementLine(m models.BankStatementLine) domain.BankStatementLine {
	return domain.BankStatementLine{
		LineID:        m.LineID,
		InstitutionID: m.InstitutionID,
		StatementID:   m.StatementID,
		TxnDate:       m.TxnDate,
		Description:   m.Description,
		AmountSigned:  m.AmountSigned,
		Currency:      m.Currency,
		ReferenceRaw:  m.ReferenceRaw,
		ExternalID:    m.ExternalID,
		Matched:       m.Matched,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatementLineSlice converts a slice of model rows.
func ToDomainStatementLineSlice(ms []models.BankStatementLine) []domain.BankStatementLine {
	ds := make([]domain.BankStatementLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatementLine(m)
	}
	return ds
}
