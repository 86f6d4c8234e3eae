package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
)

// GetDocument serves the stored payload exactly as assembled; documents
// are never recomputed on read.
func (s *Server) GetDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := s.docRepo.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if doc == nil || doc.OwnerUserID != currentUserID(c) {
		AbortWithError(c, documentdomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, doc)
}
