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

const saleColumns = `sale_id, account_id, sale_date, total, payment_status, status, notes, void_reason, voided_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxSaleRepository struct {
	pool *pgxpool.Pool
}

func newPgxSaleRepository(pool *pgxpool.Pool) *PgxSaleRepository {
	return &PgxSaleRepository{pool: pool}
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

// loadSale reads a sale header and its children through q. With lock set the header row is
// locked FOR UPDATE; children are read in the same transaction.
func loadSale(ctx context.Context, q querier, saleID string, lock bool) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale %s: %w", saleID, err)
	}
	modelSale, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Sale])
	if err != nil {
		return nil, notFound(err, "sale "+saleID)
	}
	sale := mapping.ToDomainSale(modelSale)

	rows, err = q.Query(ctx, `
		SELECT item_id, sale_id, product_id, description, quantity, unit_price, tax_rate, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY item_seq;`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of sale %s: %w", saleID, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SaleItem])
	if err != nil {
		return nil, fmt.Errorf("failed to scan items of sale %s: %w", saleID, err)
	}
	for _, it := range items {
		sale.Items = append(sale.Items, mapping.ToDomainSaleItem(it))
	}

	rows, err = q.Query(ctx, `
		SELECT payment_id, sale_id, method, amount, created_at, created_by
		FROM sale_payments WHERE sale_id = $1 ORDER BY created_at, payment_id;`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of sale %s: %w", saleID, err)
	}
	payments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments of sale %s: %w", saleID, err)
	}
	for _, p := range payments {
		sale.Payments = append(sale.Payments, mapping.ToDomainPayment(p))
	}

	checks, err := queryChecks(ctx, q, `SELECT `+checkColumns+` FROM checks WHERE sale_id = $1 ORDER BY created_at, check_id`, saleID)
	if err != nil {
		return nil, err
	}
	sale.Checks = checks
	return &sale, nil
}

// FindSaleByID retrieves a sale with its items, payments and checks.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	return loadSale(ctx, r.pool, saleID, false)
}

// FindSaleByIDForUpdate locks the sale row. Must be called within a transaction.
func (r *PgxSaleRepository) FindSaleByIDForUpdate(ctx context.Context, tx pgx.Tx, saleID string) (*domain.Sale, error) {
	return loadSale(ctx, tx, saleID, true)
}

// SaveSaleInTx inserts the sale header.
func (r *PgxSaleRepository) SaveSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.SaleID,
		m.AccountID,
		m.SaleDate,
		m.Total,
		m.PaymentStatus,
		m.Status,
		m.Notes,
		m.VoidReason,
		m.VoidedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to save sale "+m.SaleID)
	}
	return nil
}

// SaveSaleItemsInTx inserts all lines of a sale in one batch.
func (r *PgxSaleRepository) SaveSaleItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO sale_items (item_id, sale_id, product_id, description, quantity, unit_price, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		m := mapping.ToModelSaleItem(it)
		batch.Queue(query, m.ItemID, m.SaleID, m.ProductID, m.Description, m.Quantity, m.UnitPrice, m.TaxRate, m.LineTotal)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = translateError(err, "failed to save sale item "+items[i].ItemID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close sale item batch: %w", err)
	}
	return batchErr
}

// SavePaymentInTx inserts one payment record.
func (r *PgxSaleRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.PaymentRecord) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO sale_payments (payment_id, sale_id, method, amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, query, m.PaymentID, m.SaleID, m.Method, m.Amount, m.CreatedAt, m.CreatedBy); err != nil {
		return translateError(err, "failed to save payment "+m.PaymentID)
	}
	return nil
}

// UpdateSaleStatusInTx writes the derived payment status and the void fields.
func (r *PgxSaleRepository) UpdateSaleStatusInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)
	query := `
		UPDATE sales
		SET payment_status = $2, status = $3, void_reason = $4, voided_at = $5, last_updated_at = $6, last_updated_by = $7
		WHERE sale_id = $1;
	`
	ct, err := tx.Exec(ctx, query, m.SaleID, m.PaymentStatus, m.Status, m.VoidReason, m.VoidedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return translateError(err, "failed to update sale "+m.SaleID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s not found during update", apperrors.ErrNotFound, m.SaleID)
	}
	return nil
}
