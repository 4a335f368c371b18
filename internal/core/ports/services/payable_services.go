package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayableLedgerSvc is the provider-side counterpart of the balance engine: what the business owes
// each provider. Same append-only ledger and cached balance, no credit limit and no instrument risk.
// It is implemented outside this module.
type PayableLedgerSvc interface {
	RecordPurchaseDebt(ctx context.Context, providerID, purchaseID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)
	RecordProviderPayment(ctx context.Context, providerID, purchaseID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error)
	Recalculate(ctx context.Context, providerID string) (*domain.Reconciliation, error)
}
