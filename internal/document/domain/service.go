package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Assembler maps completed calculations into document payloads. Assembly
// is pure; persistence belongs to the session and order services.
type Assembler interface {
	AssemblePaystub(ctx context.Context, in PaystubInputs) (PaystubPayload, error)
	AssembleW2(ctx context.Context, in W2Inputs) (W2Payload, error)
	Assemble1099(ctx context.Context, in Form1099Inputs) (Form1099Payload, error)
	AssembleTaxReturn(ctx context.Context, in TaxReturnInputs) (TaxReturnPayload, error)
}

// Repository persists assembled documents. Get returns (nil, nil) when
// the document does not exist.
type Repository interface {
	Get(ctx context.Context, id snowflake.ID) (*GeneratedDocument, error)
	Save(ctx context.Context, doc *GeneratedDocument) error
	ListByOwner(ctx context.Context, ownerUserID string) ([]GeneratedDocument, error)
}
