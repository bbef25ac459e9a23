package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest creates a BANK funding source.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Branch         string          `json:"branch"`
	BankName       string          `json:"bankName" binding:"required"`
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	Currency       string          `json:"currency" binding:"required,currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// CreateCashDeskRequest creates a CASHDESK funding source.
type CreateCashDeskRequest struct {
	Name                string          `json:"name" binding:"required"`
	Branch              string          `json:"branch"`
	CustodianEmployeeID string          `json:"custodianEmployeeID" binding:"required"`
	Currency            string          `json:"currency" binding:"required,currency"`
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
}

// CashMovementRequest is a cash-in or cash-out on a desk.
type CashMovementRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Category string          `json:"category" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL ADJUSTMENT"`
	Notes    string          `json:"notes"`
}

// TransferToBankRequest moves cash from a desk into a bank account.
type TransferToBankRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	BankAccountID string          `json:"bank_account_id" binding:"required"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
}

// WithdrawToCashDeskRequest moves money from a bank account into a desk.
type WithdrawToCashDeskRequest struct {
	CashDeskID string          `json:"cashdesk_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Reference  string          `json:"reference"`
	Notes      string          `json:"notes"`
}

// SourceResponse is the API view of a funding source.
type SourceResponse struct {
	SourceID            string          `json:"sourceID"`
	SourceType          string          `json:"sourceType"`
	Name                string          `json:"name"`
	Branch              string          `json:"branch,omitempty"`
	BankName            string          `json:"bankName,omitempty"`
	AccountNumber       string          `json:"accountNumber,omitempty"`
	CustodianEmployeeID string          `json:"custodianEmployeeID,omitempty"`
	Currency            string          `json:"currency"`
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	State               string          `json:"state"`
	CreatedAt           time.Time       `json:"createdAt"`
	LastUpdatedAt       time.Time       `json:"lastUpdatedAt"`
}

// ToSourceResponse converts a domain funding source to its response DTO.
func ToSourceResponse(s *domain.FundingSource) SourceResponse {
	return SourceResponse{
		SourceID:            s.SourceID,
		SourceType:          string(s.SourceType),
		Name:                s.Name,
		Branch:              s.Branch,
		BankName:            s.BankName,
		AccountNumber:       s.AccountNumber,
		CustodianEmployeeID: s.CustodianEmployeeID,
		Currency:            s.Currency,
		OpeningBalance:      s.OpeningBalance,
		CurrentBalance:      s.CurrentBalance,
		State:               string(s.State),
		CreatedAt:           s.CreatedAt,
		LastUpdatedAt:       s.LastUpdatedAt,
	}
}

// ToListSourceResponse converts a slice of funding sources.
func ToListSourceResponse(sources []domain.FundingSource) []SourceResponse {
	res := make([]SourceResponse, len(sources))
	for i := range sources {
		res[i] = ToSourceResponse(&sources[i])
	}
	return res
}
