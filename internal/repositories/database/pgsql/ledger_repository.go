package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository reads and appends ledger_entries. A trigger in the schema rejects
// UPDATE and DELETE on that table.
type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// InsertEntryInTx appends an entry; entry_seq is assigned by the database.
func (r *PgxLedgerRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, account_id, sale_id, kind, debit, credit, running_balance, description, occurred_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING entry_seq;
	`
	err := tx.QueryRow(ctx, query,
		m.EntryID,
		m.AccountID,
		m.SaleID,
		m.Kind,
		m.Debit,
		m.Credit,
		m.RunningBalance,
		m.Description,
		m.OccurredAt,
		m.CreatedBy,
	).Scan(&m.EntrySeq)
	if err != nil {
		return nil, translateError(err, "failed to insert ledger entry "+m.EntryID)
	}
	saved := mapping.ToDomainLedgerEntry(m)
	return &saved, nil
}

// ListEntriesByAccount pages through an account's entries in posting order.
// A non-positive limit returns the whole remaining history.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, afterSequence int64, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, entry_seq, account_id, sale_id, kind, debit, credit, running_balance, description, occurred_at, created_by
		FROM ledger_entries
		WHERE account_id = $1 AND entry_seq > $2
		ORDER BY entry_seq
		LIMIT NULLIF($3::int, 0);
	`
	if limit < 0 {
		limit = 0
	}
	rows, err := r.pool.Query(ctx, query, accountID, afterSequence, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries for account %s: %w", accountID, err)
	}
	return mapping.ToDomainLedgerEntrySlice(modelEntries), nil
}

func sumEntries(ctx context.Context, q querier, query string, args ...any) (domain.LedgerTotals, error) {
	var totals domain.LedgerTotals
	err := q.QueryRow(ctx, query, args...).Scan(&totals.TotalDebit, &totals.TotalCredit, &totals.EntryCount)
	return totals, err
}

// SumEntriesByAccount folds an account's full history in the database.
func (r *PgxLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string) (domain.LedgerTotals, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1;
	`
	totals, err := sumEntries(ctx, r.pool, query, accountID)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("failed to sum ledger for account %s: %w", accountID, err)
	}
	return totals, nil
}

// SumEntriesBySaleInTx folds the entries one sale posted on one account.
func (r *PgxLedgerRepository) SumEntriesBySaleInTx(ctx context.Context, tx pgx.Tx, accountID string, saleID string) (domain.LedgerTotals, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1 AND sale_id = $2;
	`
	totals, err := sumEntries(ctx, tx, query, accountID, saleID)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("failed to sum ledger for sale %s: %w", saleID, err)
	}
	return totals, nil
}
