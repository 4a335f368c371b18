package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a client's current account.
type CreateAccountRequest struct {
	ClientID    string          `json:"clientID" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"dgte0"`
}

// UpdateCreditLimitRequest carries a new credit limit for an account.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"dgte0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	ClientID        string          `json:"clientID"`
	Name            string          `json:"name"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	Balance         decimal.Decimal `json:"balance"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy   string          `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		ClientID:        acc.ClientID,
		Name:            acc.Name,
		CreditLimit:     acc.CreditLimit,
		Balance:         acc.Balance,
		AvailableCredit: acc.AvailableCredit(),
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ListStatementParams defines query parameters for an account statement.
type ListStatementParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// LedgerEntryResponse is one line of an account statement.
type LedgerEntryResponse struct {
	EntryID        string           `json:"entryID"`
	Sequence       int64            `json:"sequence"`
	Kind           domain.EntryKind `json:"kind"`
	SaleID         *string          `json:"saleID,omitempty"`
	Debit          decimal.Decimal  `json:"debit"`
	Credit         decimal.Decimal  `json:"credit"`
	RunningBalance decimal.Decimal  `json:"runningBalance"`
	Description    string           `json:"description"`
	OccurredAt     time.Time        `json:"occurredAt"`
	CreatedBy      string           `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:        e.EntryID,
		Sequence:       e.Sequence,
		Kind:           e.Kind,
		SaleID:         e.SaleID,
		Debit:          e.Debit,
		Credit:         e.Credit,
		RunningBalance: e.RunningBalance,
		Description:    e.Description,
		OccurredAt:     e.OccurredAt,
		CreatedBy:      e.CreatedBy,
	}
}

// StatementResponse is a page of an account's ledger.
type StatementResponse struct {
	Account   AccountResponse       `json:"account"`
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken string                `json:"nextToken,omitempty"`
}

// ToStatementResponse converts a domain.AccountStatement to StatementResponse.
func ToStatementResponse(st *domain.AccountStatement) StatementResponse {
	entries := make([]LedgerEntryResponse, len(st.Entries))
	for i := range st.Entries {
		entries[i] = ToLedgerEntryResponse(&st.Entries[i])
	}
	return StatementResponse{
		Account:   ToAccountResponse(&st.Account),
		Entries:   entries,
		NextToken: st.NextToken,
	}
}

// ReconciliationResponse reports the outcome of re-deriving an account balance.
type ReconciliationResponse struct {
	AccountID     string          `json:"accountID"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Difference    decimal.Decimal `json:"difference"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	EntryCount    int64           `json:"entryCount"`
	Consistent    bool            `json:"consistent"`
	Problems      []string        `json:"problems,omitempty"`
	CheckedAt     time.Time       `json:"checkedAt"`
}

// ToReconciliationResponse converts a domain.Reconciliation to ReconciliationResponse.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:     r.AccountID,
		CachedBalance: r.CachedBalance,
		LedgerBalance: r.LedgerBalance,
		Difference:    r.Difference,
		CreditLimit:   r.CreditLimit,
		TotalDebit:    r.TotalDebit,
		TotalCredit:   r.TotalCredit,
		EntryCount:    r.EntryCount,
		Consistent:    r.Consistent,
		Problems:      r.Problems,
		CheckedAt:     r.CheckedAt,
	}
}
