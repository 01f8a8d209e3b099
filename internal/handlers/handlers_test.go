package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/events"
	"github.com/SscSPs/pos_ledger/internal/handlers"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	token     string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *HandlersTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "pos-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.token = suite.generateTestToken("cashier-1")

	cfg := &config.Config{
		JWTSecret:          suite.jwtSecret,
		IsProduction:       true,
		LedgerMaxRetries:   1,
		LedgerRetryDelay:   time.Millisecond,
		StaleSessionAfter:  24 * time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	repos, _ := memory.NewRepositoryProvider(0)
	container := services.NewServiceContainer(cfg, repos, events.LogPublisher{})

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container, nil))
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlersTestSuite) openSession(opening int64) dto.SessionResponse {
	w := suite.do(http.MethodPost, "/api/v1/cash-register/open", gin.H{"openingBalance": decimal.NewFromInt(opening)})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.SessionResponse
	suite.decode(w, &resp)
	return resp
}

func (suite *HandlersTestSuite) stockProduct(productID string, qty int64) {
	w := suite.do(http.MethodPost, "/api/v1/stock-lines", gin.H{"productId": productID})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "ADJUSTMENT",
		"referenceId": "init-" + productID,
		"stock":       []gin.H{{"productId": productID, "quantity": qty}},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/cash-register/current", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestSessionLifecycle() {
	w := suite.do(http.MethodGet, "/api/v1/cash-register/current", nil)
	suite.Equal(http.StatusConflict, w.Code)

	session := suite.openSession(100)
	suite.Equal("cashier-1", session.OpenedBy)

	w = suite.do(http.MethodPost, "/api/v1/cash-register/open", gin.H{"openingBalance": decimal.NewFromInt(5)})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/cash-register/open", gin.H{"openingBalance": decimal.NewFromInt(-5)})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "INCOME",
		"referenceId": "inc-1",
		"cash":        gin.H{"amount": decimal.NewFromInt(40)},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/cash-register/close", gin.H{"countedBalance": decimal.NewFromInt(138)})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var closed dto.SessionResponse
	suite.decode(w, &closed)
	suite.Require().NotNil(closed.Variance)
	suite.True(decimal.NewFromInt(-2).Equal(*closed.Variance))
	suite.True(decimal.NewFromInt(140).Equal(*closed.ExpectedBalance))

	w = suite.do(http.MethodGet, "/api/v1/cash-register/sessions/"+session.SessionID+"/report", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report dto.SessionReportResponse
	suite.decode(w, &report)
	suite.True(decimal.NewFromInt(40).Equal(report.CashTotal))
	suite.Equal(1, report.MovementCount)

	w = suite.do(http.MethodGet, "/api/v1/cash-register/sessions", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListSessionsResponse
	suite.decode(w, &list)
	suite.Len(list.Sessions, 1)

	w = suite.do(http.MethodGet, "/api/v1/cash-register/sessions/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestPostSaleReplayAndReverse() {
	suite.openSession(0)
	suite.stockProduct("p-1", 5)

	sale := gin.H{
		"kind":        "SALE",
		"referenceId": "sale-1",
		"cash":        gin.H{"amount": decimal.RequireFromString("25.50")},
		"stock":       []gin.H{{"productId": "p-1", "quantity": 2}},
	}
	w := suite.do(http.MethodPost, "/api/v1/ledger/movements", sale)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var first dto.LedgerResultResponse
	suite.decode(w, &first)
	suite.False(first.Replayed)
	suite.Len(first.Movements, 2)

	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", sale)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var replay dto.LedgerResultResponse
	suite.decode(w, &replay)
	suite.True(replay.Replayed)
	suite.Equal(first.Movements[0].ID, replay.Movements[0].ID)

	w = suite.do(http.MethodGet, "/api/v1/stock-lines/p-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var line dto.StockLineResponse
	suite.decode(w, &line)
	suite.Equal(int64(3), line.Stock)

	w = suite.do(http.MethodPost, "/api/v1/ledger/reversals", gin.H{"referenceId": "sale-1", "referenceType": "sale"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/ledger/reversals", gin.H{"referenceId": "sale-1", "referenceType": "sale_reversal"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/ledger/verify/stock/p-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var check dto.BalanceCheckResponse
	suite.decode(w, &check)
	suite.True(check.Consistent)
	suite.True(decimal.NewFromInt(5).Equal(check.Stored))

	w = suite.do(http.MethodGet, "/api/v1/ledger/movements?category=STOCK&accountId=p-1&limit=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListMovementsResponse
	suite.decode(w, &page)
	suite.Len(page.Movements, 2)
	suite.NotNil(page.NextToken)
}

func (suite *HandlersTestSuite) TestPostRejections() {
	suite.stockProduct("p-1", 1)

	w := suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "INCOME",
		"referenceId": "inc-1",
		"cash":        gin.H{"amount": decimal.NewFromInt(10)},
	})
	suite.Equal(http.StatusConflict, w.Code)

	suite.openSession(0)

	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "SALE",
		"referenceId": "sale-1",
		"cash":        gin.H{"amount": decimal.NewFromInt(10)},
		"stock":       []gin.H{{"productId": "p-1", "quantity": 4}},
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var body map[string]any
	suite.decode(w, &body)
	suite.Equal("p-1", body["productId"])
	suite.EqualValues(1, body["available"])
	suite.EqualValues(4, body["requested"])

	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "INCOME",
		"referenceId": "inc-2",
		"cash":        gin.H{"amount": decimal.Zero},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/ledger/verify/bogus/x", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/ledger/movements", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCustomerAccounts() {
	w := suite.do(http.MethodPost, "/api/v1/customer-accounts", gin.H{"customerId": "cust-1", "creditLimit": decimal.NewFromInt(100), "paymentTermDays": 30})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var account dto.CustomerAccountResponse
	suite.decode(w, &account)
	suite.True(account.Balance.IsZero())

	w = suite.do(http.MethodPost, "/api/v1/customer-accounts", gin.H{"customerId": "cust-1"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/customer-accounts?customerId=cust-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/customer-accounts/unknown", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/customer-accounts/"+account.AccountID+"/status", gin.H{"status": "CLOSED"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/ledger/movements", gin.H{
		"kind":        "SALE",
		"referenceId": "sale-on-credit",
		"account":     gin.H{"accountId": account.AccountID, "amount": decimal.NewFromInt(10)},
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/customer-accounts/"+account.AccountID+"/status", gin.H{"status": "GONE"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestStockLines() {
	w := suite.do(http.MethodPost, "/api/v1/stock-lines", gin.H{"productId": "p-9"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/stock-lines", gin.H{"productId": "p-9"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/stock-lines/p-9/backorder", gin.H{"allowBackorder": true})
	suite.Require().Equal(http.StatusOK, w.Code)
	var line dto.StockLineResponse
	suite.decode(w, &line)
	suite.True(line.AllowBackorder)

	w = suite.do(http.MethodPatch, "/api/v1/stock-lines/p-9/backorder", gin.H{})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/stock-lines/p-404", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
