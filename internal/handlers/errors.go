package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto its HTTP status. Internal failures
// are logged at error level and their cause is not echoed to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := apperrors.HTTPStatus(err)
	body := gin.H{"error": err.Error()}

	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["productId"] = stockErr.ProductID
		body["available"] = stockErr.Available
		body["requested"] = stockErr.Requested
	}

	switch {
	case status == http.StatusInternalServerError:
		logger.Error(msg, slog.String("error", err.Error()))
		body = gin.H{"error": msg}
	case status >= 500:
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
	default:
		logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
