package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// LedgerScenarioSuite runs the services end to end against the transactional in-memory store.
type LedgerScenarioSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	svc     *portssvc.ServiceContainer
	userID  string
	account *domain.Account
	issue   time.Time
}

func (suite *LedgerScenarioSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.svc = services.NewServiceContainer(suite.store.Provider(), services.ContainerConfig{BalanceEpsilon: dec("0.01")})
	suite.userID = "cashier-1"
	suite.issue = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.store.PutProduct(domain.Product{ProductID: "widget", Name: "Widget", UnitPrice: dec("1000000"), TaxRate: decimal.Zero, IsActive: true})
	suite.store.PutProduct(domain.Product{ProductID: "taxed", Name: "Taxed", UnitPrice: dec("100"), TaxRate: dec("0.21"), IsActive: true})
	suite.store.PutProduct(domain.Product{ProductID: "retired", Name: "Retired", UnitPrice: dec("1"), TaxRate: decimal.Zero, IsActive: false})

	acc, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{ClientID: "client-1", Name: "Client One", CreditLimit: dec("5000000")}, suite.userID)
	suite.Require().NoError(err)
	suite.account = acc
}

func (suite *LedgerScenarioSuite) balance() decimal.Decimal {
	acc, err := suite.svc.Account.GetAccountByID(suite.ctx, suite.account.AccountID)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *LedgerScenarioSuite) assertConsistent() {
	report, err := suite.svc.BalanceEngine.Recalculate(suite.ctx, suite.account.AccountID)
	suite.Require().NoError(err)
	suite.True(report.Consistent)
	suite.True(report.LedgerBalance.Equal(report.CachedBalance))
	suite.False(report.LedgerBalance.IsNegative())
	suite.True(report.LedgerBalance.LessThanOrEqual(report.CreditLimit))
}

func (suite *LedgerScenarioSuite) widgets(qty string) []dto.SaleItemRequest {
	return []dto.SaleItemRequest{{ProductID: "widget", Quantity: dec(qty)}}
}

func (suite *LedgerScenarioSuite) checkPayment(amount string) dto.PaymentRequest {
	return dto.PaymentRequest{
		Method: domain.MethodCheck,
		Amount: dec(amount),
		Check:  &dto.CheckDetailsRequest{Number: "0001", Bank: "Banco", IssueDate: suite.issue, DueDate: suite.issue.AddDate(0, 0, 30)},
	}
}

func (suite *LedgerScenarioSuite) register(items []dto.SaleItemRequest, payments ...dto.PaymentRequest) (*domain.Sale, error) {
	return suite.svc.Sale.RegisterSale(suite.ctx, dto.CreateSaleRequest{
		AccountID: suite.account.AccountID,
		Items:     items,
		Payments:  payments,
	}, suite.userID)
}

func (suite *LedgerScenarioSuite) TestPartialCashPayment() {
	sale, err := suite.register(suite.widgets("1"), dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("400000")})

	suite.Require().NoError(err)
	suite.True(sale.Total.Equal(dec("1000000")))
	suite.Equal(domain.PaymentPartial, sale.PaymentStatus)
	suite.True(suite.balance().Equal(dec("600000")))
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestCreditLimitExceededPersistsNothing() {
	_, err := suite.register(suite.widgets("10"))

	suite.ErrorIs(err, apperrors.ErrCreditLimitExceeded)
	suite.True(suite.balance().IsZero())
	suite.Equal(0, suite.store.SaleCount())
	entries, err := suite.store.ListEntriesByAccount(suite.ctx, suite.account.AccountID, 0, 0)
	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestCheckPaymentThenCashed() {
	sale, err := suite.register(suite.widgets("1"), suite.checkPayment("1000000"))
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPending, sale.PaymentStatus)
	suite.Require().Len(sale.Checks, 1)
	suite.Equal(domain.CheckPending, sale.Checks[0].State)
	suite.True(suite.balance().Equal(dec("1000000")))

	cleared := suite.issue.AddDate(0, 0, 31)
	check, err := suite.svc.Check.CashCheck(suite.ctx, sale.Checks[0].CheckID, dto.CashCheckRequest{ClearedDate: &cleared}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.CheckCashed, check.State)
	suite.Equal(cleared, *check.ClearedDate())
	suite.True(suite.balance().IsZero())

	reloaded, err := suite.svc.Sale.GetSaleByID(suite.ctx, sale.SaleID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPaid, reloaded.PaymentStatus)

	// Cashing twice fails and moves nothing.
	_, err = suite.svc.Check.CashCheck(suite.ctx, check.CheckID, dto.CashCheckRequest{}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	_, err = suite.svc.Check.RejectCheck(suite.ctx, check.CheckID, dto.RejectCheckRequest{Reason: "late"}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.True(suite.balance().IsZero())
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestCheckPaymentThenRejected() {
	sale, err := suite.register(suite.widgets("1"), suite.checkPayment("1000000"))
	suite.Require().NoError(err)
	before := suite.balance()

	check, err := suite.svc.Check.RejectCheck(suite.ctx, sale.Checks[0].CheckID, dto.RejectCheckRequest{Reason: "insufficient funds"}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.CheckRejected, check.State)
	suite.Require().NotNil(check.Rejection)
	suite.Equal("insufficient funds", check.Rejection.Reason)
	suite.True(suite.balance().Equal(before))

	_, err = suite.svc.Check.RejectCheck(suite.ctx, check.CheckID, dto.RejectCheckRequest{Reason: "again"}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	_, err = suite.svc.Check.CashCheck(suite.ctx, check.CheckID, dto.CashCheckRequest{}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.True(suite.balance().Equal(before))
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestRecalculateDetectsCorruptedCache() {
	_, err := suite.register(suite.widgets("1"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SetCachedBalance(suite.account.AccountID, dec("-100")))

	report, err := suite.svc.Account.Reconcile(suite.ctx, suite.account.AccountID)

	suite.ErrorIs(err, apperrors.ErrCorruptedLedger)
	suite.Require().NotNil(report)
	suite.False(report.Consistent)
	suite.True(report.LedgerBalance.Equal(dec("1000000")))

	// A corrupted account takes no new debt until reconciled.
	_, err = suite.register(suite.widgets("1"))
	suite.ErrorIs(err, apperrors.ErrCorruptedLedger)
}

func (suite *LedgerScenarioSuite) TestConservation() {
	tests := []struct {
		name     string
		payments []dto.PaymentRequest
		settled  string
	}{
		{name: "no payments", settled: "0"},
		{name: "cash only", payments: []dto.PaymentRequest{{Method: domain.MethodCash, Amount: dec("250000")}}, settled: "250000"},
		{name: "cash and transfer", payments: []dto.PaymentRequest{
			{Method: domain.MethodCash, Amount: dec("100000")},
			{Method: domain.MethodTransfer, Amount: dec("900000")},
		}, settled: "1000000"},
		{name: "checks and on account do not settle", payments: []dto.PaymentRequest{
			suite.checkPayment("300000"),
			suite.checkPayment("200000"),
			{Method: domain.MethodOnAccount, Amount: dec("100000")},
			{Method: domain.MethodTransfer, Amount: dec("50000")},
		}, settled: "50000"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			before := suite.balance()
			sale, err := suite.register(suite.widgets("1"), tt.payments...)
			suite.Require().NoError(err)

			want := sale.Total.Sub(dec(tt.settled))
			suite.True(suite.balance().Sub(before).Equal(want), "balance moved by %s, want %s", suite.balance().Sub(before), want)
			suite.assertConsistent()
		})
	}
}

func (suite *LedgerScenarioSuite) TestFullyPaidInCash() {
	sale, err := suite.register(suite.widgets("1"), dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("1000000")})
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPaid, sale.PaymentStatus)
	suite.True(suite.balance().IsZero())

	entries, err := suite.store.ListEntriesByAccount(suite.ctx, suite.account.AccountID, 0, 0)
	suite.Require().NoError(err)
	suite.Empty(entries, "a fully settled sale posts no debt")
}

func (suite *LedgerScenarioSuite) TestFailureAfterDebtRollsBackEverything() {
	suite.store.FailNext("SaveCheckInTx", errors.New("disk full"))

	_, err := suite.register(suite.widgets("1"), suite.checkPayment("1000000"))

	suite.Error(err)
	suite.Equal(0, suite.store.SaleCount())
	suite.True(suite.balance().IsZero())
	entries, err := suite.store.ListEntriesByAccount(suite.ctx, suite.account.AccountID, 0, 0)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *LedgerScenarioSuite) TestServerSideTotal() {
	clientTotal := dec("1")
	sale, err := suite.svc.Sale.RegisterSale(suite.ctx, dto.CreateSaleRequest{
		AccountID: suite.account.AccountID,
		Items:     []dto.SaleItemRequest{{ProductID: "taxed", Quantity: dec("3")}},
		Total:     &clientTotal,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(sale.Total.Equal(dec("363")), "got %s", sale.Total)
	suite.True(suite.balance().Equal(dec("363")))
	suite.Equal("Taxed", sale.Items[0].Description)
}

func (suite *LedgerScenarioSuite) TestRegisterValidation() {
	_, err := suite.register(nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.register([]dto.SaleItemRequest{{ProductID: "unknown", Quantity: dec("1")}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.register([]dto.SaleItemRequest{{ProductID: "retired", Quantity: dec("1")}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.register(suite.widgets("1"), dto.PaymentRequest{Method: domain.MethodCheck, Amount: dec("10")})
	suite.ErrorIs(err, apperrors.ErrValidation, "check payment without instrument")

	_, err = suite.register(suite.widgets("1"), dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("1000000.01")})
	suite.ErrorIs(err, apperrors.ErrValidation, "payments above total")

	_, err = suite.svc.Sale.RegisterSale(suite.ctx, dto.CreateSaleRequest{AccountID: "missing", Items: suite.widgets("1")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Equal(0, suite.store.SaleCount())
}

func (suite *LedgerScenarioSuite) TestAddPayment() {
	sale, err := suite.register(suite.widgets("1"))
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPending, sale.PaymentStatus)

	receipt, err := suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, dto.PaymentRequest{Method: domain.MethodTransfer, Amount: dec("300000")}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPartial, receipt.Sale.PaymentStatus)
	suite.Require().NotNil(receipt.AccountBalance)
	suite.True(receipt.AccountBalance.Equal(dec("700000")))
	suite.True(suite.balance().Equal(dec("700000")))

	receipt, err = suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, suite.checkPayment("700000"), suite.userID)
	suite.Require().NoError(err)
	suite.Nil(receipt.AccountBalance, "a check moves no balance")
	suite.Equal(domain.PaymentPartial, receipt.Sale.PaymentStatus)
	suite.True(receipt.Sale.OpenAmount().IsZero())
	suite.True(suite.balance().Equal(dec("700000")))

	_, err = suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("1")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation, "nothing left open")

	var checkID string
	for _, c := range receipt.Sale.Checks {
		checkID = c.CheckID
	}
	_, err = suite.svc.Check.CashCheck(suite.ctx, checkID, dto.CashCheckRequest{}, suite.userID)
	suite.Require().NoError(err)

	reloaded, err := suite.svc.Sale.GetSaleByID(suite.ctx, sale.SaleID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPaid, reloaded.PaymentStatus)
	suite.True(suite.balance().IsZero())
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestAddPaymentAfterRejectedCheck() {
	sale, err := suite.register(suite.widgets("1"), suite.checkPayment("1000000"))
	suite.Require().NoError(err)
	_, err = suite.svc.Check.RejectCheck(suite.ctx, sale.Checks[0].CheckID, dto.RejectCheckRequest{Reason: "no funds"}, suite.userID)
	suite.Require().NoError(err)

	receipt, err := suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("1000000")}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPaid, receipt.Sale.PaymentStatus)
	suite.True(suite.balance().IsZero())
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestVoidSale() {
	sale, err := suite.register(suite.widgets("1"),
		dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("400000")},
		suite.checkPayment("600000"),
	)
	suite.Require().NoError(err)
	suite.True(suite.balance().Equal(dec("600000")))

	voided, err := suite.svc.Sale.VoidSale(suite.ctx, sale.SaleID, dto.VoidSaleRequest{Reason: "returned goods"}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.SaleVoided, voided.Status)
	suite.True(suite.balance().IsZero())
	suite.Require().Len(voided.Checks, 1)
	suite.Equal(domain.CheckRejected, voided.Checks[0].State)
	suite.Equal("sale voided", voided.Checks[0].Rejection.Reason)

	_, err = suite.svc.Sale.VoidSale(suite.ctx, sale.SaleID, dto.VoidSaleRequest{Reason: "again"}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)

	// The reversal is single even when the engine is asked again directly.
	entry, err := suite.svc.BalanceEngine.ReverseSaleDebt(suite.ctx, suite.account.AccountID, sale.SaleID, suite.userID)
	suite.NoError(err)
	suite.Nil(entry)

	entries, err := suite.store.ListEntriesByAccount(suite.ctx, suite.account.AccountID, 0, 0)
	suite.Require().NoError(err)
	reversals := 0
	for _, e := range entries {
		if e.Kind == domain.EntryReversal {
			reversals++
		}
	}
	suite.Equal(1, reversals)

	_, err = suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("1")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestConcurrentSalesRespectCreditLimit() {
	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.register(suite.widgets("1"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrCreditLimitExceeded):
			rejected++
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(5, succeeded)
	suite.Equal(5, rejected)
	suite.True(suite.balance().Equal(dec("5000000")))
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestUpdateCreditLimit() {
	_, err := suite.register(suite.widgets("2"))
	suite.Require().NoError(err)

	_, err = suite.svc.Account.UpdateCreditLimit(suite.ctx, suite.account.AccountID, dto.UpdateCreditLimitRequest{CreditLimit: dec("1999999.99")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	acc, err := suite.svc.Account.UpdateCreditLimit(suite.ctx, suite.account.AccountID, dto.UpdateCreditLimitRequest{CreditLimit: dec("2000000")}, suite.userID)
	suite.Require().NoError(err)
	suite.True(acc.AvailableCredit().IsZero())

	_, err = suite.register(suite.widgets("1"))
	suite.ErrorIs(err, apperrors.ErrCreditLimitExceeded)
	suite.assertConsistent()
}

func (suite *LedgerScenarioSuite) TestStatementPagination() {
	_, err := suite.register(suite.widgets("1"))
	suite.Require().NoError(err)
	sale, err := suite.register(suite.widgets("1"))
	suite.Require().NoError(err)
	_, err = suite.svc.Payment.AddPayment(suite.ctx, sale.SaleID, dto.PaymentRequest{Method: domain.MethodCash, Amount: dec("250000")}, suite.userID)
	suite.Require().NoError(err)

	page1, err := suite.svc.Account.GetStatement(suite.ctx, suite.account.AccountID, 2, nil)
	suite.Require().NoError(err)
	suite.Require().Len(page1.Entries, 2)
	suite.NotEmpty(page1.NextToken)
	suite.True(page1.Entries[0].RunningBalance.Equal(dec("1000000")))
	suite.True(page1.Entries[1].RunningBalance.Equal(dec("2000000")))

	page2, err := suite.svc.Account.GetStatement(suite.ctx, suite.account.AccountID, 2, &page1.NextToken)
	suite.Require().NoError(err)
	suite.Require().Len(page2.Entries, 1)
	suite.Empty(page2.NextToken)
	suite.Equal(domain.EntryPayment, page2.Entries[0].Kind)
	suite.True(page2.Entries[0].RunningBalance.Equal(dec("1750000")))

	bad := "not-a-token"
	_, err = suite.svc.Account.GetStatement(suite.ctx, suite.account.AccountID, 2, &bad)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerScenarioSuite) TestEditCheck() {
	sale, err := suite.register(suite.widgets("1"), suite.checkPayment("1000000"))
	suite.Require().NoError(err)
	checkID := sale.Checks[0].CheckID

	number := "0002"
	edited, err := suite.svc.Check.EditCheck(suite.ctx, checkID, dto.EditCheckRequest{Number: &number}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("0002", edited.Number)

	amount := dec("1")
	_, err = suite.svc.Check.EditCheck(suite.ctx, checkID, dto.EditCheckRequest{Amount: &amount}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Check.CashCheck(suite.ctx, checkID, dto.CashCheckRequest{}, suite.userID)
	suite.Require().NoError(err)
	_, err = suite.svc.Check.EditCheck(suite.ctx, checkID, dto.EditCheckRequest{Number: &number}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)

	pending := domain.CheckPending
	list, err := suite.svc.Check.ListChecksByAccount(suite.ctx, suite.account.AccountID, &pending)
	suite.Require().NoError(err)
	suite.Empty(list)
}

func (suite *LedgerScenarioSuite) TestCreateAccountDuplicateClient() {
	_, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{ClientID: "client-1", Name: "Again", CreditLimit: dec("1")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{ClientID: "client-2", Name: "Neg", CreditLimit: dec("-1")}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerScenarioSuite(t *testing.T) {
	suite.Run(t, new(LedgerScenarioSuite))
}
