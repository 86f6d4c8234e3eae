package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.OwnerUserID = currentUserID(c)

	order, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := s.orderSvc.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
