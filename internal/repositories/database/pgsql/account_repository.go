package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, client_id, name, credit_limit, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func findAccount(ctx context.Context, q querier, query, accountID string) (*domain.Account, error) {
	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s: %w", accountID, err)
	}
	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, notFound(err, "account "+accountID)
	}
	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.ClientID,
		modelAcc.Name,
		modelAcc.CreditLimit,
		modelAcc.Balance,
		modelAcc.IsActive,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to save account "+modelAcc.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return findAccount(ctx, r.pool, query, accountID)
}

// FindAccountByIDForUpdate retrieves an account and locks its row.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	return findAccount(ctx, tx, query, accountID)
}

func (r *PgxAccountRepository) updateLocked(ctx context.Context, tx pgx.Tx, query, accountID string, args ...any) error {
	ct, err := tx.Exec(ctx, query, append([]any{accountID}, args...)...)
	if err != nil {
		return translateError(err, "failed to update account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// UpdateAccountBalanceInTx sets the cached balance of an account locked by the caller.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	return r.updateLocked(ctx, tx, query, accountID, balance, now, userID)
}

// UpdateCreditLimitInTx sets the credit limit of an account locked by the caller.
func (r *PgxAccountRepository) UpdateCreditLimitInTx(ctx context.Context, tx pgx.Tx, accountID string, creditLimit decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET credit_limit = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	return r.updateLocked(ctx, tx, query, accountID, creditLimit, now, userID)
}
