package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type checkHandler struct {
	checkService portssvc.CheckSvcFacade
}

func registerCheckRoutes(rg *gin.RouterGroup, checkService portssvc.CheckSvcFacade) {
	h := &checkHandler{checkService: checkService}

	checks := rg.Group("/checks")
	{
		checks.GET("/:checkID", h.getCheck)
		checks.POST("/:checkID/cash", h.cashCheck)
		checks.POST("/:checkID/reject", h.rejectCheck)
		checks.PATCH("/:checkID", h.editCheck)
	}
}

// getCheck godoc
// @Summary Get a check
// @Tags checks
// @Produce  json
// @Param   checkID path string true "Check ID"
// @Success 200 {object} dto.CheckResponse
// @Failure 404 {object} handlers.errorResponse "Check not found"
// @Security BearerAuth
// @Router /checks/{checkID} [get]
func (h *checkHandler) getCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("check_id", c.Param("checkID")))

	check, err := h.checkService.GetCheckByID(c.Request.Context(), c.Param("checkID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get check")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckResponse(check))
}

// cashCheck godoc
// @Summary Cash a pending check
// @Description Records the collection on the client's account. Fails with 409 if the check is not pending.
// @Tags checks
// @Accept  json
// @Produce  json
// @Param   checkID path string true "Check ID"
// @Param   cash body dto.CashCheckRequest false "Cleared date, defaults to now"
// @Success 200 {object} dto.CheckResponse
// @Failure 404 {object} handlers.errorResponse "Check not found"
// @Failure 409 {object} handlers.errorResponse "Check already processed"
// @Security BearerAuth
// @Router /checks/{checkID}/cash [post]
func (h *checkHandler) cashCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("check_id", c.Param("checkID")))
	var req dto.CashCheckRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err, "request format")
			return
		}
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	check, err := h.checkService.CashCheck(c.Request.Context(), c.Param("checkID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cash check")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckResponse(check))
}

// rejectCheck godoc
// @Summary Reject a pending check
// @Description The sale's debt stays on the account.
// @Tags checks
// @Accept  json
// @Produce  json
// @Param   checkID path string true "Check ID"
// @Param   reject body dto.RejectCheckRequest true "Reason"
// @Success 200 {object} dto.CheckResponse
// @Failure 404 {object} handlers.errorResponse "Check not found"
// @Failure 409 {object} handlers.errorResponse "Check already processed"
// @Security BearerAuth
// @Router /checks/{checkID}/reject [post]
func (h *checkHandler) rejectCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("check_id", c.Param("checkID")))
	var req dto.RejectCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	check, err := h.checkService.RejectCheck(c.Request.Context(), c.Param("checkID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reject check")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckResponse(check))
}

// editCheck godoc
// @Summary Edit a pending check
// @Description Number, bank and dates may change; the amount may not.
// @Tags checks
// @Accept  json
// @Produce  json
// @Param   checkID path string true "Check ID"
// @Param   check body dto.EditCheckRequest true "Fields to change"
// @Success 200 {object} dto.CheckResponse
// @Failure 400 {object} handlers.errorResponse "Invalid edit"
// @Failure 409 {object} handlers.errorResponse "Check already processed"
// @Security BearerAuth
// @Router /checks/{checkID} [patch]
func (h *checkHandler) editCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("check_id", c.Param("checkID")))
	var req dto.EditCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	check, err := h.checkService.EditCheck(c.Request.Context(), c.Param("checkID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to edit check")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckResponse(check))
}
