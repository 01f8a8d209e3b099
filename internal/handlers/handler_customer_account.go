package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type customerAccountHandler struct {
	customerAccountService portssvc.CustomerAccountSvcFacade
}

func newCustomerAccountHandler(cs portssvc.CustomerAccountSvcFacade) *customerAccountHandler {
	return &customerAccountHandler{customerAccountService: cs}
}

// registerCustomerAccountRoutes registers routes related to customer current accounts.
func registerCustomerAccountRoutes(rg *gin.RouterGroup, customerAccountService portssvc.CustomerAccountSvcFacade) {
	h := newCustomerAccountHandler(customerAccountService)

	accounts := rg.Group("/customer-accounts")
	{
		accounts.POST("", h.createCustomerAccount)
		accounts.GET("", h.getCustomerAccountByCustomer)
		accounts.GET("/:accountID", h.getCustomerAccount)
		accounts.PATCH("/:accountID/status", h.updateCustomerAccountStatus)
	}
}

// createCustomerAccount godoc
// @Summary Open a customer current account
// @Description Opens the current account of a customer with a zero balance. One account per customer.
// @Tags customer-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateCustomerAccountRequest true "Account details"
// @Success 201 {object} dto.CustomerAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Customer already has an account"
// @Security BearerAuth
// @Router /customer-accounts [post]
func (h *customerAccountHandler) createCustomerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for CreateCustomerAccount", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("customer_id", req.CustomerID))
	account, err := h.customerAccountService.CreateCustomerAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create customer account")
		return
	}

	logger.Info("Customer account created", slog.String("account_id", account.ID))
	c.JSON(http.StatusCreated, dto.ToCustomerAccountResponse(account))
}

// getCustomerAccount godoc
// @Summary Get a customer account
// @Tags customer-accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.CustomerAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /customer-accounts/{accountID} [get]
func (h *customerAccountHandler) getCustomerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	account, err := h.customerAccountService.GetCustomerAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get customer account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerAccountResponse(account))
}

// getCustomerAccountByCustomer godoc
// @Summary Find the account of a customer
// @Tags customer-accounts
// @Produce  json
// @Param   customerId query string true "Customer ID"
// @Success 200 {object} dto.CustomerAccountResponse
// @Failure 400 {object} map[string]string "customerId missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /customer-accounts [get]
func (h *customerAccountHandler) getCustomerAccountByCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId query parameter is required"})
		return
	}

	account, err := h.customerAccountService.GetCustomerAccountByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, logger.With(slog.String("customer_id", customerID)), err, "Failed to get customer account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerAccountResponse(account))
}

// updateCustomerAccountStatus godoc
// @Summary Change the status of a customer account
// @Description Closed accounts reject new movements; reversals of earlier movements still apply.
// @Tags customer-accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   status body dto.UpdateCustomerAccountStatusRequest true "New status"
// @Success 200 {object} dto.CustomerAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /customer-accounts/{accountID}/status [patch]
func (h *customerAccountHandler) updateCustomerAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var req dto.UpdateCustomerAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Failed to bind JSON for UpdateCustomerAccountStatus", err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	account, err := h.customerAccountService.UpdateCustomerAccountStatus(c.Request.Context(), c.Param("accountID"), req.Status, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update customer account status")
		return
	}

	logger.Info("Customer account status changed", slog.String("status", string(account.Status)))
	c.JSON(http.StatusOK, dto.ToCustomerAccountResponse(account))
}
