package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	ClientID    string          `db:"client_id"`
	Name        string          `db:"name"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	Balance     decimal.Decimal `db:"balance"` // cached; ledger_entries is authoritative
	IsActive    bool            `db:"is_active"`
	AuditFields
}
