package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const checkColumns = `check_id, sale_id, account_id, payment_id, number, bank, amount, issue_date, due_date, state, cleared_date, rejected_date, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

type PgxCheckRepository struct {
	pool *pgxpool.Pool
}

func newPgxCheckRepository(pool *pgxpool.Pool) *PgxCheckRepository {
	return &PgxCheckRepository{pool: pool}
}

var _ portsrepo.CheckRepositoryFacade = (*PgxCheckRepository)(nil)

func queryChecks(ctx context.Context, q querier, query string, args ...any) ([]domain.Check, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	modelChecks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Check])
	if err != nil {
		return nil, fmt.Errorf("failed to scan checks: %w", err)
	}
	return mapping.ToDomainCheckSlice(modelChecks), nil
}

func findCheck(ctx context.Context, q querier, query, checkID string) (*domain.Check, error) {
	rows, err := q.Query(ctx, query, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check %s: %w", checkID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Check])
	if err != nil {
		return nil, notFound(err, "check "+checkID)
	}
	c := mapping.ToDomainCheck(m)
	return &c, nil
}

// FindCheckByID retrieves a check by its ID.
func (r *PgxCheckRepository) FindCheckByID(ctx context.Context, checkID string) (*domain.Check, error) {
	return findCheck(ctx, r.pool, `SELECT `+checkColumns+` FROM checks WHERE check_id = $1;`, checkID)
}

// FindCheckByIDForUpdate locks the check row. Must be called within a transaction.
func (r *PgxCheckRepository) FindCheckByIDForUpdate(ctx context.Context, tx pgx.Tx, checkID string) (*domain.Check, error) {
	return findCheck(ctx, tx, `SELECT `+checkColumns+` FROM checks WHERE check_id = $1 FOR UPDATE;`, checkID)
}

// ListChecksByAccount lists an account's checks by due date, optionally filtered by state.
func (r *PgxCheckRepository) ListChecksByAccount(ctx context.Context, accountID string, state *domain.CheckState) ([]domain.Check, error) {
	var stateFilter *string
	if state != nil {
		s := string(*state)
		stateFilter = &s
	}
	query := `
		SELECT ` + checkColumns + `
		FROM checks
		WHERE account_id = $1 AND ($2::text IS NULL OR state = $2)
		ORDER BY due_date, check_id;
	`
	return queryChecks(ctx, r.pool, query, accountID, stateFilter)
}

// FindChecksBySaleInTx returns and locks the checks of a sale.
func (r *PgxCheckRepository) FindChecksBySaleInTx(ctx context.Context, tx pgx.Tx, saleID string) ([]domain.Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks WHERE sale_id = $1 ORDER BY created_at, check_id FOR UPDATE;`
	return queryChecks(ctx, tx, query, saleID)
}

// SaveCheckInTx inserts a new check.
func (r *PgxCheckRepository) SaveCheckInTx(ctx context.Context, tx pgx.Tx, check domain.Check) error {
	m := mapping.ToModelCheck(check)
	query := `
		INSERT INTO checks (` + checkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.CheckID,
		m.SaleID,
		m.AccountID,
		m.PaymentID,
		m.Number,
		m.Bank,
		m.Amount,
		m.IssueDate,
		m.DueDate,
		m.State,
		m.ClearedDate,
		m.RejectedDate,
		m.RejectionReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to save check "+m.CheckID)
	}
	return nil
}

// UpdateCheckInTx writes the mutable columns of a locked check. Amount and ownership never change.
func (r *PgxCheckRepository) UpdateCheckInTx(ctx context.Context, tx pgx.Tx, check domain.Check) error {
	m := mapping.ToModelCheck(check)
	query := `
		UPDATE checks
		SET number = $2, bank = $3, issue_date = $4, due_date = $5, state = $6,
		    cleared_date = $7, rejected_date = $8, rejection_reason = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE check_id = $1;
	`
	ct, err := tx.Exec(ctx, query,
		m.CheckID,
		m.Number,
		m.Bank,
		m.IssueDate,
		m.DueDate,
		m.State,
		m.ClearedDate,
		m.RejectedDate,
		m.RejectionReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to update check "+m.CheckID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: check %s not found during update", apperrors.ErrNotFound, m.CheckID)
	}
	return nil
}
