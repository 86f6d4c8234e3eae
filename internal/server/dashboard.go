package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
)

func (s *Server) Dashboard(c *gin.Context) {
	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	data, pageInfo, err := s.orderSvc.Dashboard(c.Request.Context(), currentUserID(c), p)
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
