package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/handlers"
	"github.com/SscSPs/bizledger/internal/platform/config"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "bizledger-test"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, IsProduction: true}
}

// generateTestToken creates a signed JWT accepted by the API's auth middleware.
func generateTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// --- End-to-end suite over the in-memory store ---

type LedgerAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *memory.Store
	token  string
}

func (suite *LedgerAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.store = memory.NewStore()
	suite.store.PutProduct(domain.Product{ProductID: "widget", Name: "Widget", UnitPrice: decimal.NewFromInt(1000), TaxRate: decimal.Zero, IsActive: true})

	container := services.NewServiceContainer(suite.store.Provider(), services.ContainerConfig{BalanceEpsilon: decimal.RequireFromString("0.01")})
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, testConfig(), container)
	suite.token = generateTestToken(suite.T(), "cashier-"+uuid.NewString())
}

func (suite *LedgerAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, "/api/v1"+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerAPITestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (suite *LedgerAPITestSuite) createAccount(limit string) dto.AccountResponse {
	w := suite.do(http.MethodPost, "/accounts", gin.H{"clientID": uuid.NewString(), "name": "Client", "creditLimit": limit})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var acc dto.AccountResponse
	suite.decode(w, &acc)
	return acc
}

func (suite *LedgerAPITestSuite) balanceOf(accountID string) decimal.Decimal {
	w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var acc dto.AccountResponse
	suite.decode(w, &acc)
	return acc.Balance
}

func (suite *LedgerAPITestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (suite *LedgerAPITestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/x", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerAPITestSuite) TestCheckSaleLifecycle() {
	acc := suite.createAccount("5000")

	sale := gin.H{
		"accountID": acc.AccountID,
		"items":     []gin.H{{"productID": "widget", "quantity": "2"}},
		"payments": []gin.H{
			{"method": "CASH", "amount": "500"},
			{"method": "CHECK", "amount": "1500", "check": gin.H{
				"number": "000123", "bank": "Banco", "issueDate": "2024-06-01T00:00:00Z", "dueDate": "2024-07-01T00:00:00Z",
			}},
		},
	}
	w := suite.do(http.MethodPost, "/sales", sale)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.SaleResponse
	suite.decode(w, &created)
	suite.True(created.Total.Equal(decimal.NewFromInt(2000)))
	suite.Equal(domain.PaymentPartial, created.PaymentStatus)
	suite.Require().Len(created.Checks, 1)
	suite.True(suite.balanceOf(acc.AccountID).Equal(decimal.NewFromInt(1500)))

	checkID := created.Checks[0].CheckID
	w = suite.do(http.MethodPost, "/checks/"+checkID+"/cash", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cashed dto.CheckResponse
	suite.decode(w, &cashed)
	suite.Equal(domain.CheckCashed, cashed.State)
	suite.NotNil(cashed.ClearedDate)
	suite.True(suite.balanceOf(acc.AccountID).IsZero())

	w = suite.do(http.MethodPost, "/checks/"+checkID+"/reject", gin.H{"reason": "late"})
	suite.Equal(http.StatusConflict, w.Code)
	var errResp errorBody
	suite.decode(w, &errResp)
	suite.Equal("ALREADY_PROCESSED", errResp.Code)

	w = suite.do(http.MethodGet, "/sales/"+created.SaleID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var reloaded dto.SaleResponse
	suite.decode(w, &reloaded)
	suite.Equal(domain.PaymentPaid, reloaded.PaymentStatus)

	w = suite.do(http.MethodGet, "/accounts/"+acc.AccountID+"/checks?state=CASHED", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var checks []dto.CheckResponse
	suite.decode(w, &checks)
	suite.Len(checks, 1)

	w = suite.do(http.MethodGet, "/accounts/"+acc.AccountID+"/statement?limit=10", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var statement dto.StatementResponse
	suite.decode(w, &statement)
	suite.Require().Len(statement.Entries, 2)
	suite.Equal(domain.EntrySale, statement.Entries[0].Kind)
	suite.True(statement.Entries[1].RunningBalance.IsZero())

	w = suite.do(http.MethodGet, "/accounts/"+acc.AccountID+"/reconciliation", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var report dto.ReconciliationResponse
	suite.decode(w, &report)
	suite.True(report.Consistent)
}

func (suite *LedgerAPITestSuite) TestCreditLimitExceeded() {
	acc := suite.createAccount("1500")

	w := suite.do(http.MethodPost, "/sales", gin.H{
		"accountID": acc.AccountID,
		"items":     []gin.H{{"productID": "widget", "quantity": "2"}},
	})

	suite.Equal(http.StatusConflict, w.Code)
	var errResp errorBody
	suite.decode(w, &errResp)
	suite.Equal("CREDIT_LIMIT_EXCEEDED", errResp.Code)
	suite.True(suite.balanceOf(acc.AccountID).IsZero())
	suite.Equal(0, suite.store.SaleCount())
}

func (suite *LedgerAPITestSuite) TestRequestValidation() {
	acc := suite.createAccount("5000")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "no items", method: http.MethodPost, path: "/sales", body: gin.H{"accountID": acc.AccountID, "items": []gin.H{}}},
		{name: "zero quantity", method: http.MethodPost, path: "/sales", body: gin.H{"accountID": acc.AccountID, "items": []gin.H{{"productID": "widget", "quantity": "0"}}}},
		{name: "unknown method", method: http.MethodPost, path: "/sales", body: gin.H{
			"accountID": acc.AccountID,
			"items":     []gin.H{{"productID": "widget", "quantity": "1"}},
			"payments":  []gin.H{{"method": "BARTER", "amount": "1"}},
		}},
		{name: "check without instrument", method: http.MethodPost, path: "/sales", body: gin.H{
			"accountID": acc.AccountID,
			"items":     []gin.H{{"productID": "widget", "quantity": "1"}},
			"payments":  []gin.H{{"method": "CHECK", "amount": "1"}},
		}},
		{name: "negative credit limit", method: http.MethodPut, path: "/accounts/" + acc.AccountID + "/credit-limit", body: gin.H{"creditLimit": "-1"}},
		{name: "bad check state filter", method: http.MethodGet, path: "/accounts/" + acc.AccountID + "/checks?state=LOST"},
		{name: "bad statement token", method: http.MethodGet, path: "/accounts/" + acc.AccountID + "/statement?nextToken=garbage"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(tt.method, tt.path, tt.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
			var errResp errorBody
			suite.decode(w, &errResp)
			suite.Equal("VALIDATION", errResp.Code)
		})
	}
	suite.Equal(0, suite.store.SaleCount())
}

func (suite *LedgerAPITestSuite) TestNotFound() {
	for _, path := range []string{"/accounts/nope", "/sales/nope", "/checks/nope"} {
		w := suite.do(http.MethodGet, path, nil)
		suite.Equal(http.StatusNotFound, w.Code, path)
	}
}

func (suite *LedgerAPITestSuite) TestPaymentAndVoid() {
	acc := suite.createAccount("5000")
	w := suite.do(http.MethodPost, "/sales", gin.H{
		"accountID": acc.AccountID,
		"items":     []gin.H{{"productID": "widget", "quantity": "3"}},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var sale dto.SaleResponse
	suite.decode(w, &sale)

	w = suite.do(http.MethodPost, "/sales/"+sale.SaleID+"/payments", gin.H{"method": "TRANSFER", "amount": "1000"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var receipt dto.AddPaymentResponse
	suite.decode(w, &receipt)
	suite.Require().NotNil(receipt.AccountBalance)
	suite.True(receipt.AccountBalance.Equal(decimal.NewFromInt(2000)))

	w = suite.do(http.MethodPost, "/sales/"+sale.SaleID+"/void", gin.H{"reason": "returned"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var voided dto.SaleResponse
	suite.decode(w, &voided)
	suite.Equal(domain.SaleVoided, voided.Status)
	suite.True(suite.balanceOf(acc.AccountID).IsZero())

	w = suite.do(http.MethodPost, "/sales/"+sale.SaleID+"/void", gin.H{"reason": "again"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerAPITestSuite) TestReconciliationReportsCorruption() {
	acc := suite.createAccount("5000")
	w := suite.do(http.MethodPost, "/sales", gin.H{
		"accountID": acc.AccountID,
		"items":     []gin.H{{"productID": "widget", "quantity": "1"}},
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Require().NoError(suite.store.SetCachedBalance(acc.AccountID, decimal.NewFromInt(7)))

	w = suite.do(http.MethodGet, "/accounts/"+acc.AccountID+"/reconciliation", nil)

	suite.Equal(http.StatusConflict, w.Code)
	var report dto.ReconciliationResponse
	suite.decode(w, &report)
	suite.False(report.Consistent)
	suite.True(report.LedgerBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(report.CachedBalance.Equal(decimal.NewFromInt(7)))
}

func TestLedgerAPI(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}

// --- Error mapping with a mocked account service ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetStatement(ctx context.Context, accountID string, limit int, nextToken *string) (*domain.AccountStatement, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStatement), args.Error(1)
}

func (m *MockAccountService) Reconcile(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateCreditLimit(ctx context.Context, accountID string, req dto.UpdateCreditLimitRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type AccountErrorMappingTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
}

func (suite *AccountErrorMappingTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccountService = new(MockAccountService)
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, testConfig(), &portssvc.ServiceContainer{Account: suite.mockAccountService})
}

func (suite *AccountErrorMappingTestSuite) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1"+path, nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.T(), "user-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountErrorMappingTestSuite) TestStatusMapping() {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{err: apperrors.NewNotFoundError("account not found"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{err: apperrors.NewValidationError("accountID", "bad"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION"},
		{err: apperrors.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{err: fmt.Errorf("posting: %w", apperrors.ErrNegativeBalance), wantStatus: http.StatusInternalServerError, wantCode: "LEDGER_INTEGRITY"},
		{err: fmt.Errorf("pool exhausted at 10.0.0.5"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		suite.Run(tt.wantCode, func() {
			suite.mockAccountService.On("GetAccountByID", mock.Anything, "acc-1").Return(nil, tt.err).Once()

			w := suite.get("/accounts/acc-1")

			suite.Equal(tt.wantStatus, w.Code)
			var errResp errorBody
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
			suite.Equal(tt.wantCode, errResp.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				suite.NotContains(errResp.Error, "10.0.0.5")
				suite.NotContains(errResp.Error, "negative")
			}
		})
	}
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountErrorMappingTestSuite) TestReconcileWithoutReportIsInternal() {
	suite.mockAccountService.On("Reconcile", mock.Anything, "acc-1").Return(nil, apperrors.ErrCorruptedLedger).Once()

	w := suite.get("/accounts/acc-1/reconciliation")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func TestAccountErrorMapping(t *testing.T) {
	suite.Run(t, new(AccountErrorMappingTestSuite))
}
