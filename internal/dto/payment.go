package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one payment line inside a batch create (or an add-line
// call on an existing batch).
type CreateLineRequest struct {
	PayeeType         domain.PayeeType `json:"payeeType" binding:"required,oneof=EMPLOYEE VENDOR OTHER"`
	PayeeID           string           `json:"payeeID"`
	PayeeName         string           `json:"payeeName"`
	Amount            decimal.Decimal  `json:"amount" binding:"required"`
	ExternalReference string           `json:"externalReference"`
	LinkedObjectType  string           `json:"linkedObjectType"`
	LinkedObjectID    string           `json:"linkedObjectID"`
}

// CreateBatchRequest creates a DRAFT payment batch with its initial lines.
type CreateBatchRequest struct {
	Branch        string               `json:"branch"`
	SourceID      string               `json:"sourceID" binding:"required"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=BANK_TRANSFER CASH MOBILE_MONEY CHEQUE"`
	Description   string               `json:"description"`
	PlannedDate   time.Time            `json:"plannedDate" binding:"required"`
	Lines         []CreateLineRequest  `json:"lines" binding:"required,min=1,dive"`
}

// ExecuteBatchRequest executes an approved batch.
type ExecuteBatchRequest struct {
	ProofReference string `json:"proof_reference"`
	Notes          string `json:"notes"`
}

// MarkLinePaidRequest marks a single line paid outside batch execution.
type MarkLinePaidRequest struct {
	ExternalReference string `json:"external_reference"`
	Notes             string `json:"notes"`
}

// MarkLineFailedRequest marks a line failed.
type MarkLineFailedRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// BatchResponse is the API view of a payment batch.
type BatchResponse struct {
	BatchID         string          `json:"batchID"`
	Branch          string          `json:"branch,omitempty"`
	SourceType      string          `json:"sourceType"`
	SourceID        string          `json:"sourceID"`
	PaymentMethod   string          `json:"paymentMethod"`
	Description     string          `json:"description,omitempty"`
	PlannedDate     time.Time       `json:"plannedDate"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ReferenceNumber string          `json:"referenceNumber"`
	CreatedBy       string          `json:"createdBy"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	ExecutedBy      string          `json:"executedBy,omitempty"`
	ExecutedAt      *time.Time      `json:"executedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Lines           []LineResponse  `json:"lines,omitempty"`
}

// LineResponse is the API view of a payment line.
type LineResponse struct {
	LineID            string          `json:"lineID"`
	BatchID           string          `json:"batchID"`
	PayeeType         string          `json:"payeeType"`
	PayeeID           string          `json:"payeeID,omitempty"`
	PayeeName         string          `json:"payeeName,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"externalReference,omitempty"`
	LinkedObjectType  string          `json:"linkedObjectType,omitempty"`
	LinkedObjectID    string          `json:"linkedObjectID,omitempty"`
	FailureReason     string          `json:"failureReason,omitempty"`
	RequiresApproval  bool            `json:"requiresApproval"`
	Approved          bool            `json:"approved"`
	ApprovedBy        string          `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	ReconciledAt      *time.Time      `json:"reconciledAt,omitempty"`
}

// ToBatchResponse converts a batch (and optionally its lines) to a DTO.
func ToBatchResponse(b *domain.PaymentBatch, lines []domain.PaymentLine) BatchResponse {
	resp := BatchResponse{
		BatchID:         b.BatchID,
		Branch:          b.Branch,
		SourceType:      string(b.SourceType),
		SourceID:        b.SourceID,
		PaymentMethod:   string(b.PaymentMethod),
		Description:     b.Description,
		PlannedDate:     b.PlannedDate,
		Status:          string(b.Status),
		Currency:        b.Currency,
		TotalAmount:     b.TotalAmount,
		ReferenceNumber: b.ReferenceNumber,
		CreatedBy:       b.CreatedBy,
		ApprovedBy:      b.ApprovedBy,
		ApprovedAt:      b.ApprovedAt,
		ExecutedBy:      b.ExecutedBy,
		ExecutedAt:      b.ExecutedAt,
		CreatedAt:       b.CreatedAt,
	}
	if lines != nil {
		resp.Lines = ToListLineResponse(lines)
	}
	return resp
}

// ToListBatchResponse converts a slice of batches (without lines).
func ToListBatchResponse(batches []domain.PaymentBatch) []BatchResponse {
	res := make([]BatchResponse, len(batches))
	for i := range batches {
		res[i] = ToBatchResponse(&batches[i], nil)
	}
	return res
}

// ToLineResponse converts a payment line to its DTO.
func ToLineResponse(l *domain.PaymentLine) LineResponse {
	return LineResponse{
		LineID:            l.LineID,
		BatchID:           l.BatchID,
		PayeeType:         string(l.PayeeType),
		PayeeID:           l.PayeeID,
		PayeeName:         l.PayeeName,
		Amount:            l.Amount,
		Currency:          l.Currency,
		Status:            string(l.Status),
		ExternalReference: l.ExternalReference,
		LinkedObjectType:  l.LinkedObjectType,
		LinkedObjectID:    l.LinkedObjectID,
		FailureReason:     l.FailureReason,
		RequiresApproval:  l.RequiresApproval,
		Approved:          l.Approved,
		ApprovedBy:        l.ApprovedBy,
		ApprovedAt:        l.ApprovedAt,
		ReconciledAt:      l.ReconciledAt,
	}
}

// ToListLineResponse converts a slice of payment lines.
func ToListLineResponse(lines []domain.PaymentLine) []LineResponse {
	res := make([]LineResponse, len(lines))
	for i := range lines {
		res[i] = ToLineResponse(&lines[i])
	}
	return res
}
