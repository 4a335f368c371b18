package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations over the append-only ledger.
type LedgerReader interface {
	// ListEntriesByAccount returns up to limit entries with Sequence > afterSequence, in posting order.
	ListEntriesByAccount(ctx context.Context, accountID string, afterSequence int64, limit int) ([]domain.LedgerEntry, error)

	// SumEntriesByAccount folds the full history of an account.
	SumEntriesByAccount(ctx context.Context, accountID string) (domain.LedgerTotals, error)
}

// LedgerTransactionSupport defines ledger operations inside a caller-owned transaction.
// Entries are never updated or deleted.
type LedgerTransactionSupport interface {
	// InsertEntryInTx appends an entry and returns it with its Sequence assigned.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// SumEntriesBySaleInTx folds the entries of one sale on one account.
	SumEntriesBySaleInTx(ctx context.Context, tx pgx.Tx, accountID string, saleID string) (domain.LedgerTotals, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerTransactionSupport
}
