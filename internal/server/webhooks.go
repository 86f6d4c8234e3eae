package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
)

// PaymentWebhook accepts provider notifications. Replayed event IDs are
// acknowledged without changing anything.
func (s *Server) PaymentWebhook(c *gin.Context) {
	var event orderdomain.PaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	order, err := s.orderSvc.HandlePaymentEvent(c.Request.Context(), event)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})
}
