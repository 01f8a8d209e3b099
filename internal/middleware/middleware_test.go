package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func signToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(buf *bytes.Buffer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	r.Use(StructuredLoggingMiddleware(logger))
	r.Use(extra...)
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		GetLoggerFromCtx(c.Request.Context()).Info("handled")
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRouter(&buf, AuthMiddleware(testSecret))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"bad scheme", "Basic abc", http.StatusUnauthorized, "Bearer"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + signToken(t, "user-1", -time.Minute), http.StatusUnauthorized, "expired"},
		{"valid", "Bearer " + signToken(t, "user-1", time.Hour), http.StatusOK, "user-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestStructuredLoggingMiddlewareCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"msg":"handled"`)
}

func TestRateLimit(t *testing.T) {
	lim, err := NewRateLimiter("2-M")
	require.NoError(t, err)

	var buf bytes.Buffer
	r := newTestRouter(&buf, RateLimit(lim))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewRateLimiter("not-a-rate")
	assert.Error(t, err)
}
