package domain

import (
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// Account is a client's cuenta corriente: a running balance of what the client owes the business.
// Balance is a cache; the ledger entries are the source of truth.
type Account struct {
	AccountID   string          `json:"accountID"`
	ClientID    string          `json:"clientID"` // external client reference
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// AvailableCredit is the headroom left before the credit limit is reached.
func (a Account) AvailableCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.Balance)
}

// WithinBounds reports whether balance lies in [0, CreditLimit] allowing for epsilon.
func (a Account) WithinBounds(balance, epsilon decimal.Decimal) bool {
	return accounting.InRange(balance, decimal.Zero, a.CreditLimit, epsilon)
}

// CanAbsorb reports whether a new debt of amount keeps the balance at or under the credit limit.
func (a Account) CanAbsorb(amount decimal.Decimal) bool {
	return a.Balance.Add(amount).LessThanOrEqual(a.CreditLimit)
}
