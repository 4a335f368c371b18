package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// balanceEngine keeps each account's cached balance in lockstep with its ledger.
// Every posting locks the account row, computes the new balance from the locked value, appends the
// entry carrying that running balance and rewrites the cache, all in the caller's transaction.
type balanceEngine struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	epsilon     decimal.Decimal
}

// BalanceEngineOption configures the balance engine.
type BalanceEngineOption func(*balanceEngine)

// WithBalanceEpsilon sets the tolerance used by Recalculate.
func WithBalanceEpsilon(epsilon decimal.Decimal) BalanceEngineOption {
	return func(e *balanceEngine) {
		if !epsilon.IsNegative() {
			e.epsilon = epsilon
		}
	}
}

// WithBalanceEngineBase overrides the embedded BaseService (e.g. to pin the clock).
func WithBalanceEngineBase(base BaseService) BalanceEngineOption {
	return func(e *balanceEngine) {
		e.BaseService = base
	}
}

// NewBalanceEngine creates the balance engine.
func NewBalanceEngine(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, opts ...BalanceEngineOption) portssvc.BalanceEngineSvc {
	e := &balanceEngine{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		epsilon:     accounting.DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ portssvc.BalanceEngineSvc = (*balanceEngine)(nil)

func validatePosting(accountID, saleID string, amount decimal.Decimal) error {
	if accountID == "" {
		return apperrors.NewValidationError("accountID", "is required")
	}
	if saleID == "" {
		return apperrors.NewValidationError("saleID", "is required")
	}
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be positive")
	}
	if !accounting.HasMoneyScale(amount) {
		return apperrors.NewValidationError("amount", "must have at most two decimal places")
	}
	return nil
}

func (e *balanceEngine) lockAccount(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	account, err := e.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return account, nil
}

// appendEntry writes the entry and the new cached balance. Both happen in tx or neither does.
func (e *balanceEngine) appendEntry(ctx context.Context, tx pgx.Tx, account *domain.Account, entry domain.LedgerEntry, newBalance decimal.Decimal, userID string) (*domain.LedgerEntry, error) {
	now := e.now()
	entry.EntryID = uuid.NewString()
	entry.AccountID = account.AccountID
	entry.RunningBalance = newBalance
	entry.OccurredAt = now
	entry.CreatedBy = userID

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	saved, err := e.ledgerRepo.InsertEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	if err := e.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, newBalance, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update cached balance: %w", err)
	}
	return saved, nil
}

func (e *balanceEngine) negativeBalance(ctx context.Context, account *domain.Account, amount, newBalance decimal.Decimal, saleID string) error {
	err := fmt.Errorf("%w: account %s balance %s minus %s gives %s", apperrors.ErrNegativeBalance,
		account.AccountID, account.Balance.StringFixed(2), amount.StringFixed(2), newBalance.StringFixed(2))
	e.LogError(ctx, err, "Ledger integrity failure: credit exceeds outstanding balance",
		slog.String("account_id", account.AccountID),
		slog.String("sale_id", saleID),
		slog.String("cached_balance", account.Balance.String()),
		slog.String("amount", amount.String()))
	return err
}

// RecordSaleDebtInTx implements portssvc.BalanceEngineTxSvc
func (e *balanceEngine) RecordSaleDebtInTx(ctx context.Context, tx pgx.Tx, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error) {
	if err := validatePosting(accountID, saleID, amount); err != nil {
		return nil, err
	}

	account, err := e.lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.NewValidationError("accountID", fmt.Sprintf("account %s is inactive", accountID))
	}
	// An account whose cache already violates its bounds takes no new debt until reconciled.
	if !account.WithinBounds(account.Balance, decimal.Zero) {
		err := fmt.Errorf("%w: account %s cached balance %s outside [0, %s]", apperrors.ErrCorruptedLedger,
			accountID, account.Balance.StringFixed(2), account.CreditLimit.StringFixed(2))
		e.LogError(ctx, err, "Ledger integrity failure: refusing new debt",
			slog.String("account_id", accountID),
			slog.String("cached_balance", account.Balance.String()),
			slog.String("credit_limit", account.CreditLimit.String()))
		return nil, err
	}

	newBalance := account.Balance.Add(amount)
	if newBalance.GreaterThan(account.CreditLimit) {
		e.LogInfo(ctx, "Sale debt rejected by credit limit",
			slog.String("account_id", accountID),
			slog.String("sale_id", saleID),
			slog.String("amount", amount.String()),
			slog.String("available", account.AvailableCredit().String()))
		return nil, fmt.Errorf("%w: debt %s exceeds available credit %s on account %s", apperrors.ErrCreditLimitExceeded,
			amount.StringFixed(2), account.AvailableCredit().StringFixed(2), accountID)
	}

	sid := saleID
	return e.appendEntry(ctx, tx, account, domain.LedgerEntry{
		SaleID:      &sid,
		Kind:        domain.EntrySale,
		Debit:       amount,
		Credit:      decimal.Zero,
		Description: description,
	}, newBalance, userID)
}

// RecordCollectionInTx implements portssvc.BalanceEngineTxSvc
func (e *balanceEngine) RecordCollectionInTx(ctx context.Context, tx pgx.Tx, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error) {
	if err := validatePosting(accountID, saleID, amount); err != nil {
		return nil, err
	}

	account, err := e.lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Sub(amount)
	if newBalance.IsNegative() {
		return nil, e.negativeBalance(ctx, account, amount, newBalance, saleID)
	}

	sid := saleID
	return e.appendEntry(ctx, tx, account, domain.LedgerEntry{
		SaleID:      &sid,
		Kind:        domain.EntryPayment,
		Debit:       decimal.Zero,
		Credit:      amount,
		Description: description,
	}, newBalance, userID)
}

// ReverseSaleDebtInTx implements portssvc.BalanceEngineTxSvc
func (e *balanceEngine) ReverseSaleDebtInTx(ctx context.Context, tx pgx.Tx, accountID, saleID, userID string) (*domain.LedgerEntry, error) {
	if accountID == "" || saleID == "" {
		return nil, apperrors.NewValidationError("saleID", "account and sale are required")
	}

	// Lock first so the outstanding amount cannot move under us.
	account, err := e.lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := e.ledgerRepo.SumEntriesBySaleInTx(ctx, tx, accountID, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries for sale %s: %w", saleID, err)
	}
	outstanding := totals.Balance()
	if !outstanding.IsPositive() {
		e.LogDebug(ctx, "No outstanding debit to reverse", slog.String("account_id", accountID), slog.String("sale_id", saleID))
		return nil, nil
	}

	newBalance := account.Balance.Sub(outstanding)
	if newBalance.IsNegative() {
		return nil, e.negativeBalance(ctx, account, outstanding, newBalance, saleID)
	}

	sid := saleID
	return e.appendEntry(ctx, tx, account, domain.LedgerEntry{
		SaleID:      &sid,
		Kind:        domain.EntryReversal,
		Debit:       decimal.Zero,
		Credit:      outstanding,
		Description: fmt.Sprintf("reversal of sale %s", saleID),
	}, newBalance, userID)
}

func (e *balanceEngine) posting(ctx context.Context, fn func(tx pgx.Tx) (*domain.LedgerEntry, error)) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	err := withTx(ctx, e.txManager, func(tx pgx.Tx) error {
		var err error
		entry, err = fn(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordSaleDebt implements portssvc.BalanceEngineSvc
func (e *balanceEngine) RecordSaleDebt(ctx context.Context, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error) {
	return e.posting(ctx, func(tx pgx.Tx) (*domain.LedgerEntry, error) {
		return e.RecordSaleDebtInTx(ctx, tx, accountID, saleID, amount, description, userID)
	})
}

// RecordCollection implements portssvc.BalanceEngineSvc
func (e *balanceEngine) RecordCollection(ctx context.Context, accountID, saleID string, amount decimal.Decimal, description, userID string) (*domain.LedgerEntry, error) {
	return e.posting(ctx, func(tx pgx.Tx) (*domain.LedgerEntry, error) {
		return e.RecordCollectionInTx(ctx, tx, accountID, saleID, amount, description, userID)
	})
}

// ReverseSaleDebt implements portssvc.BalanceEngineSvc
func (e *balanceEngine) ReverseSaleDebt(ctx context.Context, accountID, saleID, userID string) (*domain.LedgerEntry, error) {
	return e.posting(ctx, func(tx pgx.Tx) (*domain.LedgerEntry, error) {
		return e.ReverseSaleDebtInTx(ctx, tx, accountID, saleID, userID)
	})
}

// Recalculate implements portssvc.BalanceEngineSvc
func (e *balanceEngine) Recalculate(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	account, err := e.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	totals, err := e.ledgerRepo.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		e.LogError(ctx, err, "Failed to fold ledger", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to fold ledger for account %s: %w", accountID, err)
	}

	derived := totals.Balance()
	report := &domain.Reconciliation{
		AccountID:     accountID,
		CachedBalance: account.Balance,
		LedgerBalance: derived,
		Difference:    account.Balance.Sub(derived),
		CreditLimit:   account.CreditLimit,
		LedgerTotals:  totals,
		CheckedAt:     e.now(),
	}

	if !accounting.WithinEpsilon(account.Balance, derived, e.epsilon) {
		report.Problems = append(report.Problems, fmt.Sprintf("cached balance %s differs from ledger balance %s",
			account.Balance.StringFixed(2), derived.StringFixed(2)))
	}
	if !account.WithinBounds(derived, e.epsilon) {
		report.Problems = append(report.Problems, fmt.Sprintf("ledger balance %s outside [0, %s]",
			derived.StringFixed(2), account.CreditLimit.StringFixed(2)))
	}
	if !account.WithinBounds(account.Balance, e.epsilon) {
		report.Problems = append(report.Problems, fmt.Sprintf("cached balance %s outside [0, %s]",
			account.Balance.StringFixed(2), account.CreditLimit.StringFixed(2)))
	}

	report.Consistent = len(report.Problems) == 0
	if report.Consistent {
		return report, nil
	}

	err = fmt.Errorf("%w: account %s: %s", apperrors.ErrCorruptedLedger, accountID, strings.Join(report.Problems, "; "))
	e.LogError(ctx, err, "Ledger integrity failure detected by reconciliation",
		slog.String("account_id", accountID),
		slog.String("cached_balance", account.Balance.String()),
		slog.String("ledger_balance", derived.String()),
		slog.Int64("entry_count", totals.EntryCount))
	return report, err
}
