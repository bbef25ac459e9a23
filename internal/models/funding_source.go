package models

import "github.com/shopspring/decimal"

// FundingSource is the row shape of treasury_funding_sources. Bank accounts
// and cash desks share the table, discriminated by source_type.
type FundingSource struct {
	SourceID            string          `db:"source_id"`
	InstitutionID       string          `db:"institution_id"`
	Branch              string          `db:"branch"`
	SourceType          string          `db:"source_type"`
	Name                string          `db:"name"`
	Currency            string          `db:"currency"`
	BankName            string          `db:"bank_name"`
	AccountNumber       string          `db:"account_number"`
	CustodianEmployeeID string          `db:"custodian_employee_id"`
	OpeningBalance      decimal.Decimal `db:"opening_balance"`
	CurrentBalance      decimal.Decimal `db:"current_balance"`
	State               string          `db:"state"`
	AuditFields
}
