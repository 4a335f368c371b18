package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation is the outcome of re-deriving an account balance from its ledger.
type Reconciliation struct {
	AccountID     string          `json:"accountID"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Difference    decimal.Decimal `json:"difference"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	LedgerTotals
	Consistent bool      `json:"consistent"`
	Problems   []string  `json:"problems,omitempty"`
	CheckedAt  time.Time `json:"checkedAt"`
}

// AccountStatement is a page of an account's ledger in posting order.
type AccountStatement struct {
	Account   Account       `json:"account"`
	Entries   []LedgerEntry `json:"entries"`
	NextToken string        `json:"nextToken,omitempty"`
}
