package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	"github.com/smallbiznis/paydocs/pkg/db"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type RepositoryParam struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p RepositoryParam) orderdomain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) Save(ctx context.Context, order *orderdomain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// ListByOwner fetches one row past the page size so the caller can build
// cursor page info.
func (r *repository) ListByOwner(ctx context.Context, ownerUserID string, p pagination.Pagination) ([]*orderdomain.Order, error) {
	stmt := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC, id DESC")

	if p.PageToken != "" {
		cursor, err := pagination.DecodeCursor(p.PageToken)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		// Filter on the same composite key the sort uses.
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var orders []*orderdomain.Order
	err := stmt.Limit(pageSize + 1).Find(&orders).Error
	return orders, err
}

func (r *repository) LinkDocument(ctx context.Context, link *orderdomain.OrderDocument) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if err != nil && db.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func (r *repository) DocumentIDs(ctx context.Context, orderID snowflake.ID) ([]snowflake.ID, error) {
	var links []orderdomain.OrderDocument
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.DocumentID)
	}
	return ids, nil
}

// RecordEvent inserts the event exactly once. It returns false when the
// event ID was seen before.
func (r *repository) RecordEvent(ctx context.Context, record *orderdomain.PaymentEventRecord) (bool, error) {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
