package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
)

// Repository persists sessions. Get returns (nil, nil) when the session
// does not exist.
type Repository interface {
	Get(ctx context.Context, id snowflake.ID) (*GenerationSession, error)
	Save(ctx context.Context, session *GenerationSession) error
	ListByOwner(ctx context.Context, ownerUserID string) ([]GenerationSession, error)
}

type StartRequest struct {
	OwnerUserID  string                      `json:"-"`
	DocumentType documentdomain.DocumentType `json:"document_type"`
	Inputs       SessionInputs               `json:"inputs"`
}

// Service drives the generation lifecycle. Every call verifies the
// caller owns the session; sessions never leak across users.
type Service interface {
	Start(ctx context.Context, req StartRequest) (GenerationSession, error)
	Get(ctx context.Context, ownerUserID string, id snowflake.ID) (GenerationSession, error)
	List(ctx context.Context, ownerUserID string) ([]GenerationSession, error)
	UpdateInputs(ctx context.Context, ownerUserID string, id snowflake.ID, inputs SessionInputs) (GenerationSession, error)
	Validate(ctx context.Context, ownerUserID string, id snowflake.ID) (GenerationSession, error)
	Preview(ctx context.Context, ownerUserID string, id snowflake.ID) (GenerationSession, error)
	ConfirmOrder(ctx context.Context, ownerUserID string, id, orderID snowflake.ID) (GenerationSession, error)
	Deliver(ctx context.Context, ownerUserID string, id snowflake.ID) (GenerationSession, error)
	Cancel(ctx context.Context, ownerUserID string, id snowflake.ID) (GenerationSession, error)
}
