package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/paydocs/internal/authorization"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_input",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, taxdomain.ErrJurisdictionNotSupported),
		errors.Is(err, taxdomain.ErrYearNotSupported):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "jurisdiction_not_supported",
			Message: err.Error(),
		}
	case errors.Is(err, sessiondomain.ErrDeliveryFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "delivery_failed",
			Message: "delivery failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, payrolldomain.ErrInvalidInput),
		errors.Is(err, documentdomain.ErrIncompleteInputs),
		errors.Is(err, documentdomain.ErrInvalidDocumentType),
		errors.Is(err, taxdomain.ErrInvalidFilingStatus),
		errors.Is(err, orderdomain.ErrInvalidPackage),
		errors.Is(err, orderdomain.ErrInvalidEvent):
		return true
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, sessiondomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, ytddomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	}
	return false
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, sessiondomain.ErrInvalidTransition),
		errors.Is(err, sessiondomain.ErrPaymentMismatch),
		errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrOwnershipMismatch),
		errors.Is(err, ytddomain.ErrOutOfOrderPeriod),
		errors.Is(err, ytddomain.ErrYearBoundaryCrossed):
		return true
	}
	return false
}

// classifyErrorForLog feeds the request logger a stable (type, code)
// pair without rendering a response.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "server_error", payload.Type
	}
	return "client_error", payload.Type
}
