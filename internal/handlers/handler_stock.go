package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	lines := rg.Group("/stock-lines")
	{
		lines.POST("", h.registerStockLine)
		lines.GET("/:productID", h.getStockLine)
		lines.PATCH("/:productID/backorder", h.setBackorder)
	}
}

// registerStockLine godoc
// @Summary Register a product with the stock ledger
// @Description Creates the stock line of a product at zero. Initial stock is posted as an adjustment.
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   line body dto.CreateStockLineRequest true "Stock line"
// @Success 201 {object} dto.StockLineResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Product already registered"
// @Security BearerAuth
// @Router /stock-lines [post]
func (h *stockHandler) registerStockLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStockLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for RegisterStockLine", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("product_id", req.ProductID))
	line, err := h.stockService.RegisterStockLine(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to register stock line")
		return
	}

	logger.Info("Stock line registered")
	c.JSON(http.StatusCreated, dto.ToStockLineResponse(line))
}

// getStockLine godoc
// @Summary Get the stock line of a product
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.StockLineResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not registered"
// @Security BearerAuth
// @Router /stock-lines/{productID} [get]
func (h *stockHandler) getStockLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("product_id", c.Param("productID")))
	line, err := h.stockService.GetStockLine(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get stock line")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockLineResponse(line))
}

// setBackorder godoc
// @Summary Set the backorder policy of a product
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   policy body dto.UpdateBackorderRequest true "Backorder policy"
// @Success 200 {object} dto.StockLineResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not registered"
// @Security BearerAuth
// @Router /stock-lines/{productID}/backorder [patch]
func (h *stockHandler) setBackorder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("product_id", c.Param("productID")))
	var req dto.UpdateBackorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for SetBackorder", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	line, err := h.stockService.SetBackorder(c.Request.Context(), c.Param("productID"), *req.AllowBackorder, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update backorder policy")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockLineResponse(line))
}
