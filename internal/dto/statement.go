package dto

import (
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementLineInput is one pre-parsed statement row supplied by the caller.
type StatementLineInput struct {
	TxnDate      time.Time       `json:"txn_date" binding:"required"`
	Description  string          `json:"description"`
	AmountSigned decimal.Decimal `json:"amount_signed" binding:"required"`
	Currency     string          `json:"currency" binding:"required,currency"`
	ReferenceRaw string          `json:"reference_raw"`
	ExternalID   string          `json:"external_id"`
}

// ImportStatementRequest ingests one statement for a bank account and period.
type ImportStatementRequest struct {
	BankAccountID string               `json:"bank_account_id" binding:"required"`
	PeriodStart   time.Time            `json:"period_start" binding:"required"`
	PeriodEnd     time.Time            `json:"period_end" binding:"required"`
	Lines         []StatementLineInput `json:"lines" binding:"required,min=1,dive"`
}

// StatementResponse is the API view of a bank statement.
type StatementResponse struct {
	StatementID   string    `json:"statementID"`
	BankAccountID string    `json:"bankAccountID"`
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
	Status        string    `json:"status"`
	LineCount     int       `json:"lineCount"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// StatementLineResponse is the API view of a statement line.
type StatementLineResponse struct {
	LineID       string          `json:"lineID"`
	StatementID  string          `json:"statementID"`
	TxnDate      time.Time       `json:"txnDate"`
	Description  string          `json:"description,omitempty"`
	AmountSigned decimal.Decimal `json:"amountSigned"`
	Currency     string          `json:"currency"`
	ReferenceRaw string          `json:"referenceRaw,omitempty"`
	ExternalID   string          `json:"externalID,omitempty"`
	Matched      bool            `json:"matched"`
}

// ToStatementResponse converts a statement to its DTO.
func ToStatementResponse(s *domain.BankStatement) StatementResponse {
	return StatementResponse{
		StatementID:   s.StatementID,
		BankAccountID: s.BankAccountID,
		PeriodStart:   s.PeriodStart,
		PeriodEnd:     s.PeriodEnd,
		Status:        string(s.Status),
		LineCount:     s.LineCount,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
	}
}

// ToListStatementResponse converts a slice of statements.
func ToListStatementResponse(stmts []domain.BankStatement) []StatementResponse {
	res := make([]StatementResponse, len(stmts))
	for i := range stmts {
		res[i] = ToStatementResponse(&stmts[i])
	}
	return res
}

// ToStatementLineResponse converts a statement line to its DTO.
func ToStatementLineResponse(l *domain.BankStatementLine) StatementLineResponse {
	return StatementLineResponse{
		LineID:       l.LineID,
		StatementID:  l.StatementID,
		TxnDate:      l.TxnDate,
		Description:  l.Description,
		AmountSigned: l.AmountSigned,
		Currency:     l.Currency,
		ReferenceRaw: l.ReferenceRaw,
		ExternalID:   l.ExternalID,
		Matched:      l.Matched,
	}
}

// ToListStatementLineResponse converts a slice of statement lines.
func ToListStatementLineResponse(lines []domain.BankStatementLine) []StatementLineResponse {
	res := make([]StatementLineResponse, len(lines))
	for i := range lines {
		res[i] = ToStatementLineResponse(&lines[i])
	}
	return res
}
