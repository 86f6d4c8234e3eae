package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
)

// Admin routes read across owners; the authorization middleware has
// already checked the caller's role.

func (s *Server) AdminGetSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionRepo.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if session == nil {
		AbortWithError(c, sessiondomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) AdminGetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := s.orderRepo.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if order == nil {
		AbortWithError(c, orderdomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) AdminUserDashboard(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	data, pageInfo, err := s.orderSvc.Dashboard(c.Request.Context(), userID, p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": data.Documents,
		"orders":    data.Orders,
		"page_info": pageInfo,
	})
}

type roleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Server) GrantRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.authzSvc.Grant(c.Request.Context(), req.UserID, req.Role); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "granted"})
}

func (s *Server) RevokeRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.authzSvc.Revoke(c.Request.Context(), req.UserID, req.Role); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
