package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/jackc/pgx/v5"
)

// CheckReaderSvc defines read operations for checks.
type CheckReaderSvc interface {
	GetCheckByID(ctx context.Context, checkID string) (*domain.Check, error)
	ListChecksByAccount(ctx context.Context, accountID string, state *domain.CheckState) ([]domain.Check, error)
}

// CheckLifecycleSvc owns the check state machine.
type CheckLifecycleSvc interface {
	// RegisterFromSaleInTx creates a pending check for a check-method payment. No ledger effect.
	RegisterFromSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale, payment domain.PaymentRecord, instrument domain.CheckInstrument, userID string) (*domain.Check, error)

	// CashCheck moves a pending check to cashed and records the collection.
	CashCheck(ctx context.Context, checkID string, req dto.CashCheckRequest, userID string) (*domain.Check, error)

	// RejectCheck moves a pending check to rejected. The debt stays outstanding.
	RejectCheck(ctx context.Context, checkID string, req dto.RejectCheckRequest, userID string) (*domain.Check, error)

	// EditCheck updates instrument fields of a pending check.
	EditCheck(ctx context.Context, checkID string, req dto.EditCheckRequest, userID string) (*domain.Check, error)

	// RejectPendingForSaleInTx rejects every pending check of a sale with the given reason.
	RejectPendingForSaleInTx(ctx context.Context, tx pgx.Tx, saleID, reason, userID string) ([]domain.Check, error)
}

// CheckSvcFacade combines all check-related service interfaces
type CheckSvcFacade interface {
	CheckReaderSvc
	CheckLifecycleSvc
}
