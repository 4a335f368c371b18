package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceEngineTxSvc posts ledger movements inside a caller-owned transaction.
// Each call locks the account row, appends one entry and rewrites the cached balance.
type BalanceEngineTxSvc interface {
	// RecordSaleDebtInTx appends a debit for a sale. Fails with ErrCreditLimitExceeded when the
	// new balance would exceed the credit limit.
	RecordSaleDebtInTx(ctx context.Context, tx pgx.Tx, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)

	// RecordCollectionInTx appends a credit for money collected. Fails with ErrNegativeBalance when
	// the balance would drop below zero.
	RecordCollectionInTx(ctx context.Context, tx pgx.Tx, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)

	// ReverseSaleDebtInTx appends a reversal equal to the sale's outstanding debit.
	// Returns a nil entry when nothing is outstanding.
	ReverseSaleDebtInTx(ctx context.Context, tx pgx.Tx, accountID, saleID, userID string) (*domain.LedgerEntry, error)
}

// BalanceEngineSvc is the single authority over account balances.
type BalanceEngineSvc interface {
	BalanceEngineTxSvc

	RecordSaleDebt(ctx context.Context, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)
	RecordCollection(ctx context.Context, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)
	ReverseSaleDebt(ctx context.Context, accountID, saleID, userID string) (*domain.LedgerEntry, error)

	// Recalculate re-derives the balance from the full ledger. It never repairs anything: on
	// disagreement it returns the report together with an error wrapping ErrCorruptedLedger.
	Recalculate(ctx context.Context, accountID string) (*domain.Reconciliation, error)
}
