package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashRegisterHandler handles the drawer session lifecycle and its reports.
type cashRegisterHandler struct {
	cashRegisterService portssvc.CashRegisterSvcFacade
	reportingService    portssvc.ReportingSvcFacade
	now                 func() time.Time
}

func newCashRegisterHandler(cs portssvc.CashRegisterSvcFacade, rs portssvc.ReportingSvcFacade) *cashRegisterHandler {
	return &cashRegisterHandler{cashRegisterService: cs, reportingService: rs, now: time.Now}
}

// registerCashRegisterRoutes registers routes related to the cash register.
func registerCashRegisterRoutes(rg *gin.RouterGroup, cashRegisterService portssvc.CashRegisterSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newCashRegisterHandler(cashRegisterService, reportingService)

	register := rg.Group("/cash-register")
	{
		register.POST("/open", h.openSession)
		register.POST("/close", h.closeSession)
		register.GET("/current", h.currentSession)
		register.GET("/sessions", h.listSessions)
		register.GET("/sessions/:sessionID", h.getSession)
		register.GET("/sessions/:sessionID/report", h.sessionReport)
	}
}

// openSession godoc
// @Summary Open the cash register
// @Description Opens a new drawer session with the counted opening balance. Only one session may be open.
// @Tags cash-register
// @Accept  json
// @Produce  json
// @Param   session body dto.OpenSessionRequest true "Opening balance"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A session is already open"
// @Security BearerAuth
// @Router /cash-register/open [post]
func (h *cashRegisterHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for OpenSession", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	session, err := h.cashRegisterService.OpenSession(c.Request.Context(), req.OpeningBalance, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open cash register session")
		return
	}

	logger.Info("Cash register session opened", slog.String("session_id", session.ID))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session, false))
}

// closeSession godoc
// @Summary Close the cash register
// @Description Reconciles the open session against the counted drawer balance and closes it.
// @Tags cash-register
// @Accept  json
// @Produce  json
// @Param   session body dto.CloseSessionRequest true "Counted balance"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "No open session"
// @Security BearerAuth
// @Router /cash-register/close [post]
func (h *cashRegisterHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for CloseSession", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	session, err := h.cashRegisterService.CloseSession(c.Request.Context(), userID, req.CountedBalance)
	if err != nil {
		respondError(c, logger, err, "Failed to close cash register session")
		return
	}

	logger.Info("Cash register session closed", slog.String("session_id", session.ID))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, false))
}

// currentSession godoc
// @Summary Get the open session
// @Tags cash-register
// @Produce  json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "No open session"
// @Security BearerAuth
// @Router /cash-register/current [get]
func (h *cashRegisterHandler) currentSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	session, err := h.cashRegisterService.CurrentSession(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to get current session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, h.cashRegisterService.IsStale(*session, h.now())))
}

// listSessions godoc
// @Summary List cash register sessions
// @Tags cash-register
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListSessionsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /cash-register/sessions [get]
func (h *cashRegisterHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Failed to bind query for ListSessions", err)
		return
	}

	resp, err := h.cashRegisterService.ListSessions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSession godoc
// @Summary Get a cash register session
// @Tags cash-register
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /cash-register/sessions/{sessionID} [get]
func (h *cashRegisterHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("session_id", c.Param("sessionID")))
	session, err := h.cashRegisterService.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, h.cashRegisterService.IsStale(*session, h.now())))
}

// sessionReport godoc
// @Summary Session reconciliation report
// @Description Totals per payment method, expected drawer balance and, once closed, the variance.
// @Tags cash-register
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /cash-register/sessions/{sessionID}/report [get]
func (h *cashRegisterHandler) sessionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("session_id", c.Param("sessionID")))
	report, err := h.reportingService.SessionReport(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to build session report")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionReportResponse(report))
}
