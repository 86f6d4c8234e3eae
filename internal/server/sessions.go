package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
)

type startSessionRequest struct {
	DocumentType documentdomain.DocumentType `json:"document_type"`
	Inputs       sessiondomain.SessionInputs `json:"inputs"`
}

func (s *Server) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	session, err := s.sessionSvc.Start(c.Request.Context(), sessiondomain.StartRequest{
		OwnerUserID:  currentUserID(c),
		DocumentType: req.DocumentType,
		Inputs:       req.Inputs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) ListSessions(c *gin.Context) {
	sessions, err := s.sessionSvc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) GetSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionSvc.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) UpdateSessionInputs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var inputs sessiondomain.SessionInputs
	if err := c.ShouldBindJSON(&inputs); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	session, err := s.sessionSvc.UpdateInputs(c.Request.Context(), currentUserID(c), id, inputs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) ValidateSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionSvc.Validate(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) PreviewSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionSvc.Preview(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type confirmOrderRequest struct {
	OrderID string `json:"order_id"`
}

func (s *Server) ConfirmSessionOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req confirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	orderID, err := snowflake.ParseString(req.OrderID)
	if err != nil || orderID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	session, err := s.sessionSvc.ConfirmOrder(c.Request.Context(), currentUserID(c), id, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) DeliverSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionSvc.Deliver(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) CancelSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionSvc.Cancel(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// pathID parses a snowflake path parameter; it aborts the request on
// garbage input.
func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil || id == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}
