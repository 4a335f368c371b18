package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to client current accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	checkService   portssvc.CheckReaderSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, cs portssvc.CheckReaderSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		checkService:   cs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, checkService portssvc.CheckReaderSvc) {
	h := newAccountHandler(accountService, checkService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID/credit-limit", h.updateCreditLimit)
		accounts.GET("/:accountID/statement", h.getStatement)
		accounts.GET("/:accountID/reconciliation", h.reconcile)
		accounts.GET("/:accountID/checks", h.listChecks)
	}
}

// createAccount godoc
// @Summary Open a current account
// @Description Opens a client's current account with a zero balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} handlers.errorResponse "Invalid input"
// @Failure 401 {object} handlers.errorResponse "Unauthorized"
// @Failure 409 {object} handlers.errorResponse "Client already has an account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("client_id", account.ClientID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateCreditLimit godoc
// @Summary Change an account's credit limit
// @Description The new limit may not be below the current balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit body dto.UpdateCreditLimitRequest true "New credit limit"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} handlers.errorResponse "Invalid limit"
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/credit-limit [put]
func (h *accountHandler) updateCreditLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var req dto.UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateCreditLimit(c.Request.Context(), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update credit limit")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getStatement godoc
// @Summary Account statement
// @Description Ledger entries in posting order with their running balance.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} handlers.errorResponse "Invalid parameters"
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/statement [get]
func (h *accountHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var params dto.ListStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	statement, err := h.accountService.GetStatement(c.Request.Context(), c.Param("accountID"), params.Limit, token)
	if err != nil {
		respondError(c, logger, err, "Failed to get statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// reconcile godoc
// @Summary Reconcile an account
// @Description Re-derives the balance from the ledger. Never repairs; a mismatch is reported with 409.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Failure 409 {object} dto.ReconciliationResponse "Cached balance disagrees with the ledger"
// @Security BearerAuth
// @Router /accounts/{accountID}/reconciliation [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	report, err := h.accountService.Reconcile(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrCorruptedLedger) && report != nil {
			logger.Error("Account failed reconciliation", slog.Any("problems", report.Problems))
			c.JSON(http.StatusConflict, dto.ToReconciliationResponse(report))
			return
		}
		respondError(c, logger, err, "Failed to reconcile account")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report))
}

// listChecks godoc
// @Summary List an account's checks
// @Tags checks
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   state query string false "PENDING, CASHED or REJECTED"
// @Success 200 {array} dto.CheckResponse
// @Failure 400 {object} handlers.errorResponse "Invalid state"
// @Security BearerAuth
// @Router /accounts/{accountID}/checks [get]
func (h *accountHandler) listChecks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var params dto.ListChecksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	var state *domain.CheckState
	if params.State != "" {
		s := domain.CheckState(params.State)
		state = &s
	}

	checks, err := h.checkService.ListChecksByAccount(c.Request.Context(), c.Param("accountID"), state)
	if err != nil {
		respondError(c, logger, err, "Failed to list checks")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckResponses(checks))
}
