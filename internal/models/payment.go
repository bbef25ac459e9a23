package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentBatch is the row shape of treasury_payment_batches.
type PaymentBatch struct {
	BatchID         string          `db:"batch_id"`
	InstitutionID   string          `db:"institution_id"`
	Branch          string          `db:"branch"`
	SourceType      string          `db:"source_type"`
	SourceID        string          `db:"source_id"`
	PaymentMethod   string          `db:"payment_method"`
	Description     string          `db:"description"`
	PlannedDate     time.Time       `db:"planned_date"`
	Status          string          `db:"status"`
	Currency        string          `db:"currency"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	ReferenceNumber string          `db:"reference_number"`
	ApprovedBy      string          `db:"approved_by"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	ExecutedBy      string          `db:"executed_by"`
	ExecutedAt      *time.Time      `db:"executed_at"`
	AuditFields
}

// PaymentLine is the row shape of treasury_payment_lines.
type PaymentLine struct {
	LineID            string          `db:"line_id"`
	InstitutionID     string          `db:"institution_id"`
	BatchID           string          `db:"batch_id"`
	PayeeType         string          `db:"payee_type"`
	PayeeID           string          `db:"payee_id"`
	PayeeName         string          `db:"payee_name"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	Status            string          `db:"status"`
	ExternalReference string          `db:"external_reference"`
	LinkedObjectType  string          `db:"linked_object_type"`
	LinkedObjectID    string          `db:"linked_object_id"`
	FailureReason     string          `db:"failure_reason"`
	RequiresApproval  bool            `db:"requires_approval"`
	Approved          bool            `db:"approved"`
	ApprovedBy        string          `db:"approved_by"`
	ApprovedAt        *time.Time      `db:"approved_at"`
	ReconciledAt      *time.Time      `db:"reconciled_at"`
	AuditFields
}
