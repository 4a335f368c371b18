package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind mirrors the ledger_entries.kind column.
type EntryKind string

const (
	EntrySale     EntryKind = "SALE"
	EntryPayment  EntryKind = "PAYMENT"
	EntryReversal EntryKind = "REVERSAL"
)

// LedgerEntry is a row of the append-only ledger_entries table.
// EntrySeq is a bigserial assigned by the database on insert.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	EntrySeq       int64           `db:"entry_seq"`
	AccountID      string          `db:"account_id"`
	SaleID         *string         `db:"sale_id"` // Nullable
	Kind           EntryKind       `db:"kind"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	Description    string          `db:"description"`
	OccurredAt     time.Time       `db:"occurred_at"`
	CreatedBy      string          `db:"created_by"`
}
