package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps a service error onto an HTTP status and a stable error code.
// Integrity and unknown failures get a generic message so internal details never leak.
func classify(err error) (int, string, string) {
	switch {
	case apperrors.IsIntegrityError(err):
		return http.StatusInternalServerError, "LEDGER_INTEGRITY", "ledger integrity error, the account needs reconciliation"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, apperrors.ErrCreditLimitExceeded):
		return http.StatusConflict, "CREDIT_LIMIT_EXCEEDED", err.Error()
	case errors.Is(err, apperrors.ErrAlreadyProcessed):
		return http.StatusConflict, "ALREADY_PROCESSED", err.Error()
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE", err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "Forbidden"
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}

// respondError logs err at a level matching its class and writes the mapped response.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.String("code", code))
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.String("code", code))
	}
	c.JSON(status, errorResponse{Error: message, Code: code})
}

// respondBindError reports a request that failed JSON, query or binding validation.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid " + what + ": " + err.Error(), Code: "VALIDATION"})
}

// actingUser extracts the authenticated user or writes a 401.
func actingUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
	}
	return userID, ok
}
