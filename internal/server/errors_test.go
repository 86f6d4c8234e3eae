package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/paydocs/internal/authorization"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid payroll input", payrolldomain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"incomplete document inputs", documentdomain.ErrIncompleteInputs, http.StatusBadRequest, "invalid_input"},
		{"invalid order package", orderdomain.ErrInvalidPackage, http.StatusBadRequest, "invalid_input"},
		{"invalid payment event", orderdomain.ErrInvalidEvent, http.StatusBadRequest, "invalid_input"},
		{"missing identity", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"session not found", sessiondomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"order not found", orderdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid session transition", sessiondomain.ErrInvalidTransition, http.StatusConflict, "conflict"},
		{"payment mismatch", sessiondomain.ErrPaymentMismatch, http.StatusConflict, "conflict"},
		{"out of order period", ytddomain.ErrOutOfOrderPeriod, http.StatusConflict, "conflict"},
		{"year boundary", ytddomain.ErrYearBoundaryCrossed, http.StatusConflict, "conflict"},
		{"unsupported state", taxdomain.ErrJurisdictionNotSupported, http.StatusUnprocessableEntity, "jurisdiction_not_supported"},
		{"unsupported year", taxdomain.ErrYearNotSupported, http.StatusUnprocessableEntity, "jurisdiction_not_supported"},
		{"delivery failed", sessiondomain.ErrDeliveryFailed, http.StatusBadGateway, "delivery_failed"},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, payload.Type)
		})
	}

	t.Run("wrapped errors still map", func(t *testing.T) {
		status, payload := mapError(errors.Join(errors.New("context"), sessiondomain.ErrPaymentMismatch))
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "conflict", payload.Type)
	})
}

func TestClassifyErrorForLog(t *testing.T) {
	class, code := classifyErrorForLog(sessiondomain.ErrInvalidTransition)
	assert.Equal(t, "client_error", class)
	assert.Equal(t, "conflict", code)

	class, code = classifyErrorForLog(errors.New("boom"))
	assert.Equal(t, "server_error", class)
	assert.Equal(t, "internal_error", code)
}

func TestErrorHandlingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("renders the mapped error", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandlingMiddleware())
		r.GET("/boom", func(c *gin.Context) {
			AbortWithError(c, sessiondomain.ErrNotFound)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":{"type":"not_found","message":"not found"}}`, w.Body.String())
	})

	t.Run("leaves written responses alone", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandlingMiddleware())
		r.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIdentityRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := &Server{}
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.GET("/whoami", s.IdentityRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header propagates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"user-1"}`, w.Body.String())
	})
}
