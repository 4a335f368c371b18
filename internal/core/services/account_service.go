package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultStatementLimit = 50
	maxStatementLimit     = 500
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	accountRepo   portsrepo.AccountRepositoryFacade
	ledgerRepo    portsrepo.LedgerReader
	balanceEngine portssvc.BalanceEngineSvc
}

// NewAccountService creates a new account service.
func NewAccountService(base BaseService, txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader, balanceEngine portssvc.BalanceEngineSvc) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:   base,
		txManager:     txManager,
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
		balanceEngine: balanceEngine,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func validateCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return apperrors.NewValidationError("creditLimit", "cannot be negative")
	}
	if !accounting.HasMoneyScale(limit) {
		return apperrors.NewValidationError("creditLimit", "must have at most two decimal places")
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, apperrors.NewValidationError("clientID", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	if err := validateCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		ClientID:    strings.TrimSpace(req.ClientID),
		Name:        strings.TrimSpace(req.Name),
		CreditLimit: req.CreditLimit,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("client_id", account.ClientID))
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("client_id", account.ClientID),
		slog.String("credit_limit", account.CreditLimit.String()))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) UpdateCreditLimit(ctx context.Context, accountID string, req dto.UpdateCreditLimitRequest, userID string) (*domain.Account, error) {
	if err := validateCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}

	var result domain.Account
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", accountID, err)
		}
		if req.CreditLimit.LessThan(account.Balance) {
			return apperrors.NewValidationError("creditLimit", fmt.Sprintf("new limit %s is below the current balance %s",
				req.CreditLimit.StringFixed(2), account.Balance.StringFixed(2)))
		}

		now := s.now()
		if err := s.accountRepo.UpdateCreditLimitInTx(ctx, tx, accountID, req.CreditLimit, userID, now); err != nil {
			return fmt.Errorf("failed to update credit limit: %w", err)
		}
		account.CreditLimit = req.CreditLimit
		account.Touch(userID, now)
		result = *account
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Credit limit updated", slog.String("account_id", accountID), slog.String("credit_limit", req.CreditLimit.String()))
	return &result, nil
}

func (s *accountService) GetStatement(ctx context.Context, accountID string, limit int, nextToken *string) (*domain.AccountStatement, error) {
	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}

	var after int64
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken, accountID)
		if err != nil {
			return nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		after = seq
	}

	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Fetch one extra row to know whether another page exists.
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, after, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	statement := &domain.AccountStatement{Account: *account, Entries: entries}
	if len(entries) > limit {
		statement.Entries = entries[:limit]
		statement.NextToken = pagination.EncodeSequenceToken(accountID, statement.Entries[limit-1].Sequence)
	}
	if statement.Entries == nil {
		statement.Entries = []domain.LedgerEntry{}
	}
	return statement, nil
}

func (s *accountService) Reconcile(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	return s.balanceEngine.Recalculate(ctx, accountID)
}
