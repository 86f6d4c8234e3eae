package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	"github.com/smallbiznis/paydocs/pkg/db/option"
	genericrepo "github.com/smallbiznis/paydocs/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	store genericrepo.Repository[documentdomain.GeneratedDocument]
}

type RepositoryParam struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p RepositoryParam) documentdomain.Repository {
	return &repository{
		db:    p.DB,
		store: genericrepo.ProvideStore[documentdomain.GeneratedDocument](p.DB),
	}
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*documentdomain.GeneratedDocument, error) {
	return r.store.FindOne(ctx, &documentdomain.GeneratedDocument{ID: id})
}

func (r *repository) Save(ctx context.Context, doc *documentdomain.GeneratedDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *repository) ListByOwner(ctx context.Context, ownerUserID string) ([]documentdomain.GeneratedDocument, error) {
	rows, err := r.store.Find(ctx,
		&documentdomain.GeneratedDocument{OwnerUserID: ownerUserID},
		option.WithOrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, err
	}

	docs := make([]documentdomain.GeneratedDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, *row)
	}
	return docs, nil
}
