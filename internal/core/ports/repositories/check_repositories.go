package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CheckReader defines read operations for checks.
type CheckReader interface {
	FindCheckByID(ctx context.Context, checkID string) (*domain.Check, error)

	// ListChecksByAccount lists an account's checks by due date, optionally filtered by state.
	ListChecksByAccount(ctx context.Context, accountID string, state *domain.CheckState) ([]domain.Check, error)
}

// CheckTransactionSupport defines check operations inside a caller-owned transaction.
type CheckTransactionSupport interface {
	SaveCheckInTx(ctx context.Context, tx pgx.Tx, check domain.Check) error

	// FindCheckByIDForUpdate locks the check row until the transaction ends.
	FindCheckByIDForUpdate(ctx context.Context, tx pgx.Tx, checkID string) (*domain.Check, error)

	// FindChecksBySaleInTx returns the checks of a sale, locking them.
	FindChecksBySaleInTx(ctx context.Context, tx pgx.Tx, saleID string) ([]domain.Check, error)

	// UpdateCheckInTx writes the state, instrument fields and per-state data of a check.
	UpdateCheckInTx(ctx context.Context, tx pgx.Tx, check domain.Check) error
}

// CheckRepositoryFacade combines all check repository interfaces
type CheckRepositoryFacade interface {
	CheckReader
	CheckTransactionSupport
}
