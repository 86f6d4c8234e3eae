package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// IdentityRequired reads the opaque user identity from the X-User-ID
// header. Authentication happens at the edge; this service only needs a
// stable owner key.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequireAuthorization gates back-office routes on the caller's role.
func (s *Server) RequireAuthorization(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authzSvc.Authorize(c.Request.Context(), c.GetString(userIDKey), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
