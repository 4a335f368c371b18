package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SaleReader defines read operations for sales.
type SaleReader interface {
	// FindSaleByID retrieves a sale with its items, payments and checks.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
}

// SaleTransactionSupport defines sale operations inside a caller-owned transaction.
type SaleTransactionSupport interface {
	// SaveSaleInTx persists the sale header.
	SaveSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale) error

	// SaveSaleItemsInTx persists the sale lines.
	SaveSaleItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.SaleItem) error

	// SavePaymentInTx persists one payment record.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.PaymentRecord) error

	// FindSaleByIDForUpdate locks the sale row and loads its items, payments and checks.
	FindSaleByIDForUpdate(ctx context.Context, tx pgx.Tx, saleID string) (*domain.Sale, error)

	// UpdateSaleStatusInTx writes the payment status, sale status and void fields.
	UpdateSaleStatusInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale) error
}

// SaleRepositoryFacade combines all sale repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleTransactionSupport
}
