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

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

func newPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{pool: pool}
}

var _ portsrepo.ProductReader = (*PgxProductRepository)(nil)

// FindProductsByIDs retrieves the catalog entries for the given IDs.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `
		SELECT product_id, name, unit_price, tax_rate, is_active
		FROM products
		WHERE product_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	modelProducts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	products := make(map[string]domain.Product, len(modelProducts))
	for _, m := range modelProducts {
		products[m.ProductID] = mapping.ToDomainProduct(m)
	}
	return products, nil
}
