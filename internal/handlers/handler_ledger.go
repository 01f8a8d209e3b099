package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes the ledger façade to the POS modules.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to ledger movements.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/movements", h.postMovement)
		ledger.GET("/movements", h.listMovements)
		ledger.POST("/reversals", h.reverseMovement)
		ledger.GET("/verify/:category/:accountID", h.verifyBalance)
	}
}

// postMovement godoc
// @Summary Post a business event to the ledger
// @Description Records the cash, customer account and stock movements of a sale, income, expense, purchase, return or adjustment in one transaction. Re-posting the same reference returns the original result.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   movement body dto.PostMovementRequest true "Business event"
// @Success 201 {object} dto.LedgerResultResponse "Posted"
// @Success 200 {object} dto.LedgerResultResponse "Already posted; original result"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer account or stock line not found"
// @Failure 409 {object} map[string]string "No open session, session mismatch or closed account"
// @Failure 422 {object} map[string]interface{} "Insufficient stock"
// @Failure 503 {object} map[string]string "Transient failure, retry"
// @Security BearerAuth
// @Router /ledger/movements [post]
func (h *ledgerHandler) postMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for PostMovement", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(req.Kind)), slog.String("reference_id", req.ReferenceID))
	logger.Info("Received request to post movement")

	result, err := h.ledgerService.Post(c.Request.Context(), req.ToPostRequest(userID))
	if err != nil {
		respondError(c, logger, err, "Failed to post movement")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToLedgerResultResponse(result))
}

// reverseMovement godoc
// @Summary Reverse a posted business event
// @Description Posts one compensating movement for every original movement of the reference.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   reversal body dto.ReverseMovementRequest true "Reference to reverse"
// @Success 201 {object} dto.LedgerResultResponse
// @Success 200 {object} dto.LedgerResultResponse "Already reversed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Nothing posted under the reference"
// @Failure 409 {object} map[string]string "No open session for the cash reversal"
// @Failure 422 {object} map[string]interface{} "Insufficient stock"
// @Security BearerAuth
// @Router /ledger/reversals [post]
func (h *ledgerHandler) reverseMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for ReverseMovement", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("reference_id", req.ReferenceID), slog.String("reference_type", string(req.ReferenceType)))
	logger.Info("Received request to reverse movement")

	result, err := h.ledgerService.Reverse(c.Request.Context(), domain.ReverseRequest{
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		ActorID:       userID,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to reverse movement")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToLedgerResultResponse(result))
}

// listMovements godoc
// @Summary List movements
// @Description Lists movements of one category, newest first, with token pagination.
// @Tags ledger
// @Produce  json
// @Param   category query string true "CASH, ACCOUNT or STOCK"
// @Param   accountId query string false "Session, customer account or product ID"
// @Param   referenceId query string false "Business reference"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /ledger/movements [get]
func (h *ledgerHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Failed to bind query for ListMovements", err)
		return
	}

	resp, err := h.ledgerService.ListMovements(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verifyBalance godoc
// @Summary Verify a stored balance
// @Description Recomputes a balance from its movements and compares it with the stored value.
// @Tags ledger
// @Produce  json
// @Param   category path string true "CASH, ACCOUNT or STOCK"
// @Param   accountID path string true "Session, customer account or product ID"
// @Success 200 {object} dto.BalanceCheckResponse
// @Failure 400 {object} map[string]string "Invalid category"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Balance not found"
// @Security BearerAuth
// @Router /ledger/verify/{category}/{accountID} [get]
func (h *ledgerHandler) verifyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	category := domain.MovementCategory(strings.ToUpper(c.Param("category")))
	accountID := c.Param("accountID")
	if !category.IsValid() {
		logger.Warn("Invalid movement category", slog.String("category", string(category)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be one of CASH, ACCOUNT, STOCK"})
		return
	}

	logger = logger.With(slog.String("category", string(category)), slog.String("account_id", accountID))

	check, err := h.ledgerService.VerifyBalance(c.Request.Context(), category, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify balance")
		return
	}
	if !check.Consistent {
		logger.Error("Stored balance differs from movements",
			slog.String("stored", check.Stored.String()),
			slog.String("reconstructed", check.Reconstructed.String()))
	}
	c.JSON(http.StatusOK, dto.ToBalanceCheckResponse(check))
}
