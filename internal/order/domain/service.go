package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
)

// Repository persists the ledger. Lookups return (nil, nil) when the row
// does not exist.
type Repository interface {
	Get(ctx context.Context, id snowflake.ID) (*Order, error)
	GetByReference(ctx context.Context, reference string) (*Order, error)
	Save(ctx context.Context, order *Order) error
	ListByOwner(ctx context.Context, ownerUserID string, p pagination.Pagination) ([]*Order, error)
	LinkDocument(ctx context.Context, link *OrderDocument) error
	DocumentIDs(ctx context.Context, orderID snowflake.ID) ([]snowflake.ID, error)
	RecordEvent(ctx context.Context, record *PaymentEventRecord) (bool, error)
}

type CreateOrderRequest struct {
	OwnerUserID string      `json:"-"`
	Package     PackageType `json:"package"`
	AmountCents int64       `json:"amount_cents"`
}

// Service is the order ledger. HandlePaymentEvent is idempotent on the
// provider event ID.
type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (Order, error)
	Get(ctx context.Context, ownerUserID string, id snowflake.ID) (Order, error)
	LinkDocument(ctx context.Context, ownerUserID string, orderID, documentID snowflake.ID) error
	Dashboard(ctx context.Context, ownerUserID string, p pagination.Pagination) (DashboardData, *pagination.PageInfo, error)
	HandlePaymentEvent(ctx context.Context, event PaymentEvent) (Order, error)
}
