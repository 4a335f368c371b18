package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *memory.Store) domain.Account {
	t.Helper()
	acc := domain.Account{
		AccountID:   "acc-1",
		ClientID:    "client-1",
		Name:        "Client One",
		CreditLimit: decimal.NewFromInt(1000),
		Balance:     decimal.Zero,
		IsActive:    true,
	}
	require.NoError(t, s.SaveAccount(context.Background(), acc))
	return acc
}

func TestStore_CommitPersistsAndAssignsSequence(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	saleID := "sale-1"
	e1, err := s.InsertEntryInTx(ctx, tx, domain.LedgerEntry{AccountID: "acc-1", SaleID: &saleID, Kind: domain.EntrySale, Debit: decimal.NewFromInt(100), Credit: decimal.Zero})
	require.NoError(t, err)
	e2, err := s.InsertEntryInTx(ctx, tx, domain.LedgerEntry{AccountID: "acc-1", SaleID: &saleID, Kind: domain.EntryPayment, Debit: decimal.Zero, Credit: decimal.NewFromInt(40)})
	require.NoError(t, err)
	require.NoError(t, s.UpdateAccountBalanceInTx(ctx, tx, "acc-1", decimal.NewFromInt(60), "u1", time.Now()))
	require.NoError(t, s.Commit(ctx, tx))
	assert.NoError(t, s.Rollback(ctx, tx), "rollback after commit is a no-op")

	assert.Less(t, e1.Sequence, e2.Sequence)

	totals, err := s.SumEntriesByAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(totals.Balance()))

	acc, err := s.FindAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(acc.Balance))

	page, err := s.ListEntriesByAccount(ctx, "acc-1", e1.Sequence, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, e2.EntryID, page[0].EntryID)
}

func TestStore_RollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveSaleInTx(ctx, tx, domain.Sale{SaleID: "sale-1", AccountID: "acc-1", Total: decimal.NewFromInt(10)}))
	require.NoError(t, s.UpdateAccountBalanceInTx(ctx, tx, "acc-1", decimal.NewFromInt(10), "u1", time.Now()))
	require.NoError(t, s.Rollback(ctx, tx))

	assert.Equal(t, 0, s.SaleCount())
	acc, err := s.FindAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	_, err = s.FindSaleByIDForUpdate(ctx, tx, "sale-1")
	assert.ErrorIs(t, err, pgx.ErrTxClosed)
}

func TestStore_FailNextAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s)

	err := s.SaveAccount(ctx, domain.Account{AccountID: "acc-2", ClientID: "client-1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	boom := errors.New("boom")
	s.FailNext("Begin", boom)
	_, err = s.Begin(ctx)
	assert.ErrorIs(t, err, boom)

	// The fault is consumed.
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Rollback(ctx, tx))

	_, err = s.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ChecksFilteredByState(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveSaleInTx(ctx, tx, domain.Sale{SaleID: "sale-1", AccountID: "acc-1"}))
	issue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, state := range []domain.CheckState{domain.CheckPending, domain.CheckPending, domain.CheckRejected} {
		c := domain.Check{CheckID: string(rune('a' + i)), SaleID: "sale-1", AccountID: "acc-1", State: state, IssueDate: issue, DueDate: issue.AddDate(0, 0, i)}
		if state == domain.CheckRejected {
			c.Rejection = &domain.CheckRejection{RejectedDate: issue, Reason: "no funds"}
		}
		require.NoError(t, s.SaveCheckInTx(ctx, tx, c))
	}
	require.NoError(t, s.Commit(ctx, tx))

	pending := domain.CheckPending
	got, err := s.ListChecksByAccount(ctx, "acc-1", &pending)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].CheckID)

	all, err := s.ListChecksByAccount(ctx, "acc-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
