package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// saleHandler handles sale registration, payments and voiding.
type saleHandler struct {
	saleService    portssvc.SaleSvcFacade
	paymentService portssvc.PaymentSvc
}

func newSaleHandler(ss portssvc.SaleSvcFacade, ps portssvc.PaymentSvc) *saleHandler {
	return &saleHandler{saleService: ss, paymentService: ps}
}

// registerSaleRoutes registers routes related to sales.
func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade, paymentService portssvc.PaymentSvc) {
	h := newSaleHandler(saleService, paymentService)

	sales := rg.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("/:saleID", h.getSale)
		sales.POST("/:saleID/payments", h.addPayment)
		sales.POST("/:saleID/void", h.voidSale)
	}
}

// createSale godoc
// @Summary Register a sale
// @Description Prices the items from the catalog, records the payments and charges the uncollected
// @Description part to the client's account, all in one transaction. A client-sent total is ignored.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} handlers.errorResponse "Invalid sale"
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Failure 409 {object} handlers.errorResponse "Credit limit exceeded"
// @Security BearerAuth
// @Router /sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", req.AccountID))

	sale, err := h.saleService.RegisterSale(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to register sale")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSale godoc
// @Summary Get a sale
// @Tags sales
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} handlers.errorResponse "Sale not found"
// @Security BearerAuth
// @Router /sales/{saleID} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("sale_id", c.Param("saleID")))

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), c.Param("saleID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// addPayment godoc
// @Summary Add a payment to a sale
// @Description Cash and transfer payments reduce the balance now; checks wait until cashed.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Param   payment body dto.PaymentRequest true "Payment"
// @Success 201 {object} dto.AddPaymentResponse
// @Failure 400 {object} handlers.errorResponse "Invalid payment or amount above the open amount"
// @Failure 404 {object} handlers.errorResponse "Sale not found"
// @Security BearerAuth
// @Router /sales/{saleID}/payments [post]
func (h *saleHandler) addPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("sale_id", c.Param("saleID")))
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	receipt, err := h.paymentService.AddPayment(c.Request.Context(), c.Param("saleID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAddPaymentResponse(receipt))
}

// voidSale godoc
// @Summary Void a sale
// @Description Rejects the sale's pending checks and reverses its outstanding debt.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Param   void body dto.VoidSaleRequest true "Reason"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} handlers.errorResponse "Sale not found"
// @Failure 409 {object} handlers.errorResponse "Sale already voided"
// @Security BearerAuth
// @Router /sales/{saleID}/void [post]
func (h *saleHandler) voidSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("sale_id", c.Param("saleID")))
	var req dto.VoidSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	sale, err := h.saleService.VoidSale(c.Request.Context(), c.Param("saleID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to void sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}
