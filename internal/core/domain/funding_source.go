package domain

import "github.com/shopspring/decimal"

// SourceType distinguishes the two kinds of funding source.
type SourceType string

const (
	SourceBank     SourceType = "BANK"
	SourceCashDesk SourceType = "CASHDESK"
)

// SourceState is the lifecycle of a funding source. States are additive; a
// retired source keeps its history but accepts no further operations.
type SourceState string

const (
	SourceActive  SourceState = "ACTIVE"
	SourceLocked  SourceState = "LOCKED" // auto-locked after a close discrepancy
	SourceRetired SourceState = "RETIRED"
)

// FundingSource is anything holding a balance: a bank account or a cash desk.
// CurrentBalance is mutated only through the ledger recorder's atomic adjust;
// every other field is plain CRUD.
type FundingSource struct {
	SourceID      string      `json:"sourceID"`
	InstitutionID string      `json:"institutionID"`
	Branch        string      `json:"branch"` // optional scope
	SourceType    SourceType  `json:"sourceType"`
	Name          string      `json:"name"`
	Currency      string      `json:"currency"`
	// Bank account details, empty for cash desks.
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	// Custodian of a cash desk, empty for bank accounts.
	CustodianEmployeeID string `json:"custodianEmployeeID"`

	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	State          SourceState     `json:"state"`
	AuditFields
}

// IsActive reports whether the source accepts operations.
func (s FundingSource) IsActive() bool {
	return s.State == SourceActive
}
