package pgsql

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres implementation of every storage port.
// The product reader is returned bare; callers may wrap it in a cache.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TxManager:   &BaseRepository{Pool: dbPool},
		AccountRepo: newPgxAccountRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		SaleRepo:    newPgxSaleRepository(dbPool),
		CheckRepo:   newPgxCheckRepository(dbPool),
		ProductRepo: newPgxProductRepository(dbPool),
	}
}
