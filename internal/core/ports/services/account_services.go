package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetStatement returns a page of the account's ledger in posting order.
	GetStatement(ctx context.Context, accountID string, limit int, nextToken *string) (*domain.AccountStatement, error)

	// Reconcile re-derives the balance from the ledger and reports any drift.
	Reconcile(ctx context.Context, accountID string) (*domain.Reconciliation, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a current account for a client with a zero balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateCreditLimit changes the credit limit. The new limit may not be below the current balance.
	UpdateCreditLimit(ctx context.Context, accountID string, req dto.UpdateCreditLimitRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
