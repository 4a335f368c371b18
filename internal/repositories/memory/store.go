// Package memory provides transactional in-memory implementations of the storage ports.
// It is used by service-level tests and local runs without Postgres.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var errForeignTx = errors.New("memory store: transaction does not belong to this store")

type data struct {
	accounts map[string]domain.Account
	clients  map[string]string // clientID -> accountID
	entries  []domain.LedgerEntry
	seq      int64
	sales    map[string]domain.Sale // headers only
	items    map[string][]domain.SaleItem
	payments map[string][]domain.PaymentRecord
	checks   map[string]domain.Check
	products map[string]domain.Product
}

func newData() *data {
	return &data{
		accounts: make(map[string]domain.Account),
		clients:  make(map[string]string),
		sales:    make(map[string]domain.Sale),
		items:    make(map[string][]domain.SaleItem),
		payments: make(map[string][]domain.PaymentRecord),
		checks:   make(map[string]domain.Check),
		products: make(map[string]domain.Product),
	}
}

func cloneCheck(c domain.Check) domain.Check {
	if c.Clearing != nil {
		v := *c.Clearing
		c.Clearing = &v
	}
	if c.Rejection != nil {
		v := *c.Rejection
		c.Rejection = &v
	}
	return c
}

func (d *data) clone() *data {
	out := newData()
	for k, v := range d.accounts {
		out.accounts[k] = v
	}
	for k, v := range d.clients {
		out.clients[k] = v
	}
	out.entries = append([]domain.LedgerEntry(nil), d.entries...)
	out.seq = d.seq
	for k, v := range d.sales {
		out.sales[k] = v
	}
	for k, v := range d.items {
		out.items[k] = append([]domain.SaleItem(nil), v...)
	}
	for k, v := range d.payments {
		out.payments[k] = append([]domain.PaymentRecord(nil), v...)
	}
	for k, v := range d.checks {
		out.checks[k] = cloneCheck(v)
	}
	for k, v := range d.products {
		out.products[k] = v
	}
	return out
}

// memTx is the pgx.Tx handed out by Store.Begin. Only its identity is used; calling any
// pgx.Tx method on it panics.
type memTx struct {
	pgx.Tx
	snapshot *data
	done     bool
}

// Store is a single-writer in-memory database.
// An open transaction holds txMu until it commits or rolls back, which gives the same
// serialization the row locks give in Postgres. Reads outside a transaction are not isolated
// from an open transaction.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    *data

	faultMu sync.Mutex
	faults  map[string]error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{d: newData(), faults: make(map[string]error)}
}

// Provider exposes the store through every storage port.
func (s *Store) Provider() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TxManager:   s,
		AccountRepo: s,
		LedgerRepo:  s,
		SaleRepo:    s,
		CheckRepo:   s,
		ProductRepo: s,
	}
}

// FailNext makes the next call of the named method return err. Used to exercise rollbacks.
func (s *Store) FailNext(method string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[method] = err
}

func (s *Store) fault(method string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err, ok := s.faults[method]; ok {
		delete(s.faults, method)
		return err
	}
	return nil
}

func (s *Store) checkTx(tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	if mt.done {
		return pgx.ErrTxClosed
	}
	return nil
}

// Begin implements portsrepo.TransactionManager
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.fault("Begin"); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	s.mu.RLock()
	snap := s.d.clone()
	s.mu.RUnlock()
	return &memTx{snapshot: snap}, nil
}

// Commit implements portsrepo.TransactionManager
func (s *Store) Commit(_ context.Context, tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	if mt.done {
		return pgx.ErrTxClosed
	}
	if err := s.fault("Commit"); err != nil {
		s.restore(mt)
		return err
	}
	mt.done = true
	mt.snapshot = nil
	s.txMu.Unlock()
	return nil
}

// Rollback implements portsrepo.TransactionManager. Rolling back a finished transaction is a no-op.
func (s *Store) Rollback(_ context.Context, tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	if mt.done {
		return nil
	}
	s.restore(mt)
	return nil
}

func (s *Store) restore(mt *memTx) {
	s.mu.Lock()
	s.d = mt.snapshot
	s.mu.Unlock()
	mt.done = true
	mt.snapshot = nil
	s.txMu.Unlock()
}

// writeOutsideTx serializes a non-transactional write against open transactions so that a
// rollback cannot wipe it.
func (s *Store) writeOutsideTx(fn func(d *data) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// --- accounts ---

// FindAccountByID implements portsrepo.AccountReader
func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.d.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &acc, nil
}

// SaveAccount implements portsrepo.AccountWriter
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	if err := s.fault("SaveAccount"); err != nil {
		return err
	}
	return s.writeOutsideTx(func(d *data) error {
		if _, ok := d.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		if _, ok := d.clients[account.ClientID]; ok {
			return fmt.Errorf("%w: client %s already has an account", apperrors.ErrDuplicate, account.ClientID)
		}
		d.accounts[account.AccountID] = account
		d.clients[account.ClientID] = account.AccountID
		return nil
	})
}

// SetCachedBalance overwrites an account's cached balance without touching the ledger.
// It simulates out-of-band corruption.
func (s *Store) SetCachedBalance(accountID string, balance decimal.Decimal) error {
	return s.writeOutsideTx(func(d *data) error {
		acc, ok := d.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		acc.Balance = balance
		d.accounts[accountID] = acc
		return nil
	})
}

// FindAccountByIDForUpdate implements portsrepo.AccountTransactionSupport
func (s *Store) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	if err := s.checkTx(tx); err != nil {
		return nil, err
	}
	return s.FindAccountByID(ctx, accountID)
}

// UpdateAccountBalanceInTx implements portsrepo.AccountTransactionSupport
func (s *Store) UpdateAccountBalanceInTx(_ context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("UpdateAccountBalanceInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.d.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	acc.Balance = balance
	acc.Touch(userID, now)
	s.d.accounts[accountID] = acc
	return nil
}

// UpdateCreditLimitInTx implements portsrepo.AccountTransactionSupport
func (s *Store) UpdateCreditLimitInTx(_ context.Context, tx pgx.Tx, accountID string, creditLimit decimal.Decimal, userID string, now time.Time) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.d.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	acc.CreditLimit = creditLimit
	acc.Touch(userID, now)
	s.d.accounts[accountID] = acc
	return nil
}

// --- ledger ---

// ListEntriesByAccount implements portsrepo.LedgerReader
func (s *Store) ListEntriesByAccount(_ context.Context, accountID string, afterSequence int64, limit int) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, 0)
	for _, e := range s.d.entries {
		if e.AccountID != accountID || e.Sequence <= afterSequence {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SumEntriesByAccount implements portsrepo.LedgerReader
func (s *Store) SumEntriesByAccount(_ context.Context, accountID string) (domain.LedgerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []domain.LedgerEntry
	for _, e := range s.d.entries {
		if e.AccountID == accountID {
			mine = append(mine, e)
		}
	}
	return domain.FoldEntries(mine), nil
}

// InsertEntryInTx implements portsrepo.LedgerTransactionSupport
func (s *Store) InsertEntryInTx(_ context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if err := s.checkTx(tx); err != nil {
		return nil, err
	}
	if err := s.fault("InsertEntryInTx"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.accounts[entry.AccountID]; !ok {
		return nil, apperrors.NewNotFoundError("account " + entry.AccountID)
	}
	s.d.seq++
	entry.Sequence = s.d.seq
	s.d.entries = append(s.d.entries, entry)
	return &entry, nil
}

// SumEntriesBySaleInTx implements portsrepo.LedgerTransactionSupport
func (s *Store) SumEntriesBySaleInTx(_ context.Context, tx pgx.Tx, accountID string, saleID string) (domain.LedgerTotals, error) {
	if err := s.checkTx(tx); err != nil {
		return domain.LedgerTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []domain.LedgerEntry
	for _, e := range s.d.entries {
		if e.AccountID == accountID && e.SaleID != nil && *e.SaleID == saleID {
			mine = append(mine, e)
		}
	}
	return domain.FoldEntries(mine), nil
}

// --- sales ---

func (s *Store) loadSaleLocked(saleID string) (*domain.Sale, error) {
	sale, ok := s.d.sales[saleID]
	if !ok {
		return nil, apperrors.NewNotFoundError("sale " + saleID)
	}
	sale.Items = append([]domain.SaleItem{}, s.d.items[saleID]...)
	sale.Payments = append([]domain.PaymentRecord{}, s.d.payments[saleID]...)
	sale.Checks = s.checksOfSaleLocked(saleID)
	return &sale, nil
}

func (s *Store) checksOfSaleLocked(saleID string) []domain.Check {
	out := make([]domain.Check, 0)
	for _, c := range s.d.checks {
		if c.SaleID == saleID {
			out = append(out, cloneCheck(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CheckID < out[j].CheckID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindSaleByID implements portsrepo.SaleReader
func (s *Store) FindSaleByID(_ context.Context, saleID string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSaleLocked(saleID)
}

// SaveSaleInTx implements portsrepo.SaleTransactionSupport
func (s *Store) SaveSaleInTx(_ context.Context, tx pgx.Tx, sale domain.Sale) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("SaveSaleInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.sales[sale.SaleID]; ok {
		return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, sale.SaleID)
	}
	if _, ok := s.d.accounts[sale.AccountID]; !ok {
		return apperrors.NewNotFoundError("account " + sale.AccountID)
	}
	sale.Items, sale.Payments, sale.Checks = nil, nil, nil
	s.d.sales[sale.SaleID] = sale
	return nil
}

// SaveSaleItemsInTx implements portsrepo.SaleTransactionSupport
func (s *Store) SaveSaleItemsInTx(_ context.Context, tx pgx.Tx, items []domain.SaleItem) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if _, ok := s.d.sales[it.SaleID]; !ok {
			return apperrors.NewNotFoundError("sale " + it.SaleID)
		}
		s.d.items[it.SaleID] = append(s.d.items[it.SaleID], it)
	}
	return nil
}

// SavePaymentInTx implements portsrepo.SaleTransactionSupport
func (s *Store) SavePaymentInTx(_ context.Context, tx pgx.Tx, payment domain.PaymentRecord) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("SavePaymentInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.sales[payment.SaleID]; !ok {
		return apperrors.NewNotFoundError("sale " + payment.SaleID)
	}
	s.d.payments[payment.SaleID] = append(s.d.payments[payment.SaleID], payment)
	return nil
}

// FindSaleByIDForUpdate implements portsrepo.SaleTransactionSupport
func (s *Store) FindSaleByIDForUpdate(_ context.Context, tx pgx.Tx, saleID string) (*domain.Sale, error) {
	if err := s.checkTx(tx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSaleLocked(saleID)
}

// UpdateSaleStatusInTx implements portsrepo.SaleTransactionSupport
func (s *Store) UpdateSaleStatusInTx(_ context.Context, tx pgx.Tx, sale domain.Sale) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("UpdateSaleStatusInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.d.sales[sale.SaleID]
	if !ok {
		return apperrors.NewNotFoundError("sale " + sale.SaleID)
	}
	current.PaymentStatus = sale.PaymentStatus
	current.Status = sale.Status
	current.VoidReason = sale.VoidReason
	current.VoidedAt = sale.VoidedAt
	current.LastUpdatedAt = sale.LastUpdatedAt
	current.LastUpdatedBy = sale.LastUpdatedBy
	s.d.sales[sale.SaleID] = current
	return nil
}

// SaleCount returns the number of persisted sales.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.d.sales)
}

// --- checks ---

// FindCheckByID implements portsrepo.CheckReader
func (s *Store) FindCheckByID(_ context.Context, checkID string) (*domain.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.d.checks[checkID]
	if !ok {
		return nil, apperrors.NewNotFoundError("check " + checkID)
	}
	c = cloneCheck(c)
	return &c, nil
}

// ListChecksByAccount implements portsrepo.CheckReader
func (s *Store) ListChecksByAccount(_ context.Context, accountID string, state *domain.CheckState) ([]domain.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Check, 0)
	for _, c := range s.d.checks {
		if c.AccountID != accountID || (state != nil && c.State != *state) {
			continue
		}
		out = append(out, cloneCheck(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].CheckID < out[j].CheckID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

// SaveCheckInTx implements portsrepo.CheckTransactionSupport
func (s *Store) SaveCheckInTx(_ context.Context, tx pgx.Tx, check domain.Check) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("SaveCheckInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.sales[check.SaleID]; !ok {
		return apperrors.NewNotFoundError("sale " + check.SaleID)
	}
	if _, ok := s.d.checks[check.CheckID]; ok {
		return fmt.Errorf("%w: check %s", apperrors.ErrDuplicate, check.CheckID)
	}
	s.d.checks[check.CheckID] = cloneCheck(check)
	return nil
}

// FindCheckByIDForUpdate implements portsrepo.CheckTransactionSupport
func (s *Store) FindCheckByIDForUpdate(ctx context.Context, tx pgx.Tx, checkID string) (*domain.Check, error) {
	if err := s.checkTx(tx); err != nil {
		return nil, err
	}
	return s.FindCheckByID(ctx, checkID)
}

// FindChecksBySaleInTx implements portsrepo.CheckTransactionSupport
func (s *Store) FindChecksBySaleInTx(_ context.Context, tx pgx.Tx, saleID string) ([]domain.Check, error) {
	if err := s.checkTx(tx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checksOfSaleLocked(saleID), nil
}

// UpdateCheckInTx implements portsrepo.CheckTransactionSupport
func (s *Store) UpdateCheckInTx(_ context.Context, tx pgx.Tx, check domain.Check) error {
	if err := s.checkTx(tx); err != nil {
		return err
	}
	if err := s.fault("UpdateCheckInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.checks[check.CheckID]; !ok {
		return apperrors.NewNotFoundError("check " + check.CheckID)
	}
	s.d.checks[check.CheckID] = cloneCheck(check)
	return nil
}

// --- products ---

// PutProduct inserts or replaces a catalog product.
func (s *Store) PutProduct(product domain.Product) {
	_ = s.writeOutsideTx(func(d *data) error {
		d.products[product.ProductID] = product
		return nil
	})
}

// FindProductsByIDs implements portsrepo.ProductReader
func (s *Store) FindProductsByIDs(_ context.Context, productIDs []string) (map[string]domain.Product, error) {
	if err := s.fault("FindProductsByIDs"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := s.d.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var (
	_ portsrepo.TransactionManager      = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.SaleRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CheckRepositoryFacade   = (*Store)(nil)
	_ portsrepo.ProductReader           = (*Store)(nil)
)
