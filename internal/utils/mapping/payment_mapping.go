package mapping

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
)

// ToModelPaymentBatch converts a domain payment batch to a model row.
func ToModelPaymentBatch(d domain.PaymentBatch) models.PaymentBatch {
	return models.PaymentBatch{
		BatchID:         d.BatchID,
		InstitutionID:   d.InstitutionID,
		Branch:          d.Branch,
		SourceType:      string(d.SourceType),
		SourceID:        d.SourceID,
		PaymentMethod:   string(d.PaymentMethod),
		Description:     d.Description,
		PlannedDate:     d.PlannedDate,
		Status:          string(d.Status),
		Currency:        d.Currency,
		TotalAmount:     d.TotalAmount,
		ReferenceNumber: d.ReferenceNumber,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		ExecutedBy:      d.ExecutedBy,
		ExecutedAt:      d.ExecutedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentBatch converts a model row to a domain payment batch.
func ToDomainPaymentBatch(m models.PaymentBatch) domain.PaymentBatch {
	return domain.PaymentBatch{
		BatchID:         m.BatchID,
		InstitutionID:   m.InstitutionID,
		Branch:          m.Branch,
		SourceType:      domain.SourceType(m.SourceType),
		SourceID:        m.SourceID,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		Description:     m.Description,
		PlannedDate:     m.PlannedDate,
		Status:          domain.BatchStatus(m.Status),
		Currency:        m.Currency,
		TotalAmount:     m.TotalAmount,
		ReferenceNumber: m.ReferenceNumber,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		ExecutedBy:      m.ExecutedBy,
		ExecutedAt:      m.ExecutedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentBatchSlice converts a slice of model rows.
func ToDomainPaymentBatchSlice(ms []models.PaymentBatch) []domain.PaymentBatch {
	ds := make([]domain.PaymentBatch, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentBatch(m)
	}
	return ds
}

// ToModelPaymentLine converts a domain payment line to a model row.
func ToModelPaymentLine(d domain.PaymentLine) models.PaymentLine {
	return models.PaymentLine{
		LineID:            d.LineID,
		InstitutionID:     d.InstitutionID,
		BatchID:           d.BatchID,
		PayeeType:         string(d.PayeeType),
		PayeeID:           d.PayeeID,
		PayeeName:         d.PayeeName,
		Amount:            d.Amount,
		Currency:          d.Currency,
		Status:            string(d.Status),
		ExternalReference: d.ExternalReference,
		LinkedObjectType:  d.LinkedObjectType,
		LinkedObjectID:    d.LinkedObjectID,
		FailureReason:     d.FailureReason,
		RequiresApproval:  d.RequiresApproval,
		Approved:          d.Approved,
		ApprovedBy:        d.ApprovedBy,
		ApprovedAt:        d.ApprovedAt,
		ReconciledAt:      d.ReconciledAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentLine converts a model row to a domain payment line.
func ToDomainPaymentLine(m models.PaymentLine) domain.PaymentLine {
	return domain.PaymentLine{
		LineID:            m.LineID,
		InstitutionID:     m.InstitutionID,
		BatchID:           m.BatchID,
		PayeeType:         domain.PayeeType(m.PayeeType),
		PayeeID:           m.PayeeID,
		PayeeName:         m.PayeeName,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            domain.LineStatus(m.Status),
		ExternalReference: m.ExternalReference,
		LinkedObjectType:  m.LinkedObjectType,
		LinkedObjectID:    m.LinkedObjectID,
		FailureReason:     m.FailureReason,
		RequiresApproval:  m.RequiresApproval,
		Approved:          m.Approved,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		ReconciledAt:      m.ReconciledAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentLineSlice converts a slice of model rows.
func ToDomainPaymentLineSlice(ms []models.PaymentLine) []domain.PaymentLine {
	ds := make([]domain.PaymentLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentLine(m)
	}
	return ds
}
