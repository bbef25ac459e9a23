package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest appends a manual ledger entry against a source.
type RecordTransactionRequest struct {
	SourceID         string          `json:"sourceID" binding:"required"`
	Direction        string          `json:"direction" binding:"required,oneof=IN OUT"`
	Category         string          `json:"category" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER BATCH_PAYMENT ADJUSTMENT REVERSAL"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate  *time.Time      `json:"transactionDate"`
	Reference        string          `json:"reference"`
	CounterpartyName string          `json:"counterpartyName"`
	Notes            string          `json:"notes"`
}

// TransactionResponse is the API view of a ledger entry.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	SourceType        string          `json:"sourceType"`
	SourceID          string          `json:"sourceID"`
	Direction         string          `json:"direction"`
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	TransactionDate   time.Time       `json:"transactionDate"`
	Reference         string          `json:"reference,omitempty"`
	CounterpartyName  string          `json:"counterpartyName,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Status            string          `json:"status"`
	LinkedObjectType  string          `json:"linkedObjectType,omitempty"`
	LinkedObjectID    string          `json:"linkedObjectID,omitempty"`
	CashdeskSessionID string          `json:"cashdeskSessionID,omitempty"`
	ApprovedBy        string          `json:"approvedBy,omitempty"`
	ReconciledAt      *time.Time      `json:"reconciledAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// ToTransactionResponse converts a ledger entry to its DTO.
func ToTransactionResponse(t *domain.TreasuryTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		SourceType:        string(t.SourceType),
		SourceID:          t.SourceID,
		Direction:         string(t.Direction),
		Category:          string(t.Category),
		Amount:            t.Amount,
		Currency:          t.Currency,
		TransactionDate:   t.TransactionDate,
		Reference:         t.Reference,
		CounterpartyName:  t.CounterpartyName,
		Notes:             t.Notes,
		Status:            string(t.Status),
		LinkedObjectType:  t.LinkedObjectType,
		LinkedObjectID:    t.LinkedObjectID,
		CashdeskSessionID: t.CashdeskSessionID,
		ApprovedBy:        t.ApprovedBy,
		ReconciledAt:      t.ReconciledAt,
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of ledger entries.
func ToListTransactionResponse(txns []domain.TreasuryTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
