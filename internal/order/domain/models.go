// Package domain contains the order ledger model. An order is the
// purchase record for one or more generated documents.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
)

// PackageType is what the buyer paid for. Bundles cover several
// documents under a single order.
type PackageType string

const (
	PackagePaystub   PackageType = "paystub"
	PackageW2        PackageType = "w2"
	Package1099Misc  PackageType = "1099_misc"
	PackageTaxReturn PackageType = "tax_return"
	PackageBundle    PackageType = "bundle"
)

func (p PackageType) Valid() bool {
	switch p {
	case PackagePaystub, PackageW2, Package1099Misc, PackageTaxReturn, PackageBundle:
		return true
	}
	return false
}

// PriceCents is the list price per package. Zero for unknown packages.
func (p PackageType) PriceCents() int64 {
	switch p {
	case PackagePaystub:
		return 499
	case PackageW2:
		return 799
	case Package1099Misc:
		return 799
	case PackageTaxReturn:
		return 1_499
	case PackageBundle:
		return 2_999
	}
	return 0
}

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// CanTransition reports whether the ledger allows moving to next.
// Pending resolves to paid or failed; only paid orders refund.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusFailed
	case OrderStatusPaid:
		return next == OrderStatusRefunded
	}
	return false
}

// Order is one ledger entry. Reference is the external identifier shared
// with the payment provider.
type Order struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Reference   string       `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	OwnerUserID string       `gorm:"column:owner_user_id;type:text;not null;index" json:"owner_user_id"`
	Package     PackageType  `gorm:"type:text;not null" json:"package"`
	AmountCents int64        `gorm:"not null" json:"amount_cents"`
	Status      OrderStatus  `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// OrderDocument links an order to a generated document it covers.
type OrderDocument struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	OrderID    snowflake.ID `gorm:"not null;uniqueIndex:ux_order_document,priority:1"`
	DocumentID snowflake.ID `gorm:"not null;uniqueIndex:ux_order_document,priority:2"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OrderDocument) TableName() string { return "order_documents" }

// PaymentEventRecord stores every provider event once. The unique event
// index is what makes replayed webhooks a no-op.
type PaymentEventRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	EventID    string       `gorm:"column:event_id;type:text;not null;uniqueIndex"`
	OrderID    snowflake.ID `gorm:"not null;index"`
	Status     OrderStatus  `gorm:"type:text;not null"`
	ReceivedAt time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (PaymentEventRecord) TableName() string { return "payment_events" }

// PaymentEvent is an inbound provider notification.
type PaymentEvent struct {
	EventID        string      `json:"event_id"`
	OrderReference string      `json:"order_reference"`
	Status         OrderStatus `json:"status"`
}

func (e PaymentEvent) Validate() error {
	if e.EventID == "" || e.OrderReference == "" {
		return ErrInvalidEvent
	}
	switch e.Status {
	case OrderStatusPaid, OrderStatusFailed, OrderStatusRefunded:
		return nil
	}
	return ErrInvalidEvent
}

// DashboardEntry is one row of the user's ledger view. Document payloads
// are served exactly as stored; nothing is recomputed here.
type DashboardEntry struct {
	Order       Order          `json:"order"`
	DocumentIDs []snowflake.ID `json:"document_ids"`
}

// DashboardData is the full ledger view: the owner's documents most
// recent first, plus their orders with the documents each covers.
type DashboardData struct {
	Documents []documentdomain.GeneratedDocument `json:"documents"`
	Orders    []DashboardEntry                   `json:"orders"`
}
