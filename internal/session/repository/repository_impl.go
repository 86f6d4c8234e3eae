package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
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

func NewRepository(p RepositoryParam) sessiondomain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*sessiondomain.GenerationSession, error) {
	var session sessiondomain.GenerationSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repository) Save(ctx context.Context, session *sessiondomain.GenerationSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *repository) ListByOwner(ctx context.Context, ownerUserID string) ([]sessiondomain.GenerationSession, error) {
	var sessions []sessiondomain.GenerationSession
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}
