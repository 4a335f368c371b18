package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger movement.
type EntryKind string

const (
	EntrySale     EntryKind = "SALE"     // debt created by a sale (debit)
	EntryPayment  EntryKind = "PAYMENT"  // money collected (credit)
	EntryReversal EntryKind = "REVERSAL" // debt cancelled by voiding a sale (credit)
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntrySale, EntryPayment, EntryReversal:
		return true
	}
	return false
}

// LedgerEntry is an immutable, append-only movement on an account.
// Exactly one of Debit and Credit is non-zero. RunningBalance is the account balance right after
// this entry was applied.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`
	Sequence       int64           `json:"sequence"` // monotonically increasing posting order
	AccountID      string          `json:"accountID"`
	SaleID         *string         `json:"saleID,omitempty"`
	Kind           EntryKind       `json:"kind"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Description    string          `json:"description"`
	OccurredAt     time.Time       `json:"occurredAt"`
	CreatedBy      string          `json:"createdBy"`
}

// Net is the signed effect of the entry on the account balance.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Validate checks the one-sidedness and kind/direction agreement of the entry.
func (e LedgerEntry) Validate() error {
	if e.AccountID == "" {
		return apperrors.NewValidationError("accountID", "is required")
	}
	if !e.Kind.IsValid() {
		return apperrors.NewValidationError("kind", fmt.Sprintf("unknown entry kind %q", e.Kind))
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return apperrors.NewValidationError("amount", "debit and credit must be non-negative")
	}
	if e.Debit.IsZero() == e.Credit.IsZero() {
		return apperrors.NewValidationError("amount", "exactly one of debit or credit must be positive")
	}
	if e.Kind == EntrySale && e.Debit.IsZero() {
		return apperrors.NewValidationError("kind", "sale entries must be debits")
	}
	if e.Kind != EntrySale && e.Credit.IsZero() {
		return apperrors.NewValidationError("kind", fmt.Sprintf("%s entries must be credits", e.Kind))
	}
	return nil
}

// LedgerTotals aggregates a set of entries.
type LedgerTotals struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	EntryCount  int64           `json:"entryCount"`
}

// Balance is the balance derived from the aggregated entries.
func (t LedgerTotals) Balance() decimal.Decimal {
	return t.TotalDebit.Sub(t.TotalCredit)
}

// FoldEntries sums the given entries.
func FoldEntries(entries []LedgerEntry) LedgerTotals {
	totals := LedgerTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, e := range entries {
		totals.TotalDebit = totals.TotalDebit.Add(e.Debit)
		totals.TotalCredit = totals.TotalCredit.Add(e.Credit)
		totals.EntryCount++
	}
	return totals
}
