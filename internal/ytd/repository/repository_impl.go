package repository

import (
	"context"
	"errors"

	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
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

func NewRepository(p RepositoryParam) ytddomain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) GetByKey(ctx context.Context, employeeTaxID, employerEIN string, year int) (*ytddomain.YtdTotals, error) {
	var totals ytddomain.YtdTotals
	err := r.db.WithContext(ctx).
		Where("employee_tax_id = ? AND employer_ein = ? AND year = ?", employeeTaxID, employerEIN, year).
		First(&totals).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &totals, nil
}

// LatestByKey returns the key's most recent stored year, regardless of
// which year the caller is working in.
func (r *repository) LatestByKey(ctx context.Context, employeeTaxID, employerEIN string) (*ytddomain.YtdTotals, error) {
	var totals ytddomain.YtdTotals
	err := r.db.WithContext(ctx).
		Where("employee_tax_id = ? AND employer_ein = ?", employeeTaxID, employerEIN).
		Order("year DESC").
		First(&totals).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &totals, nil
}

func (r *repository) Save(ctx context.Context, totals *ytddomain.YtdTotals) error {
	return r.db.WithContext(ctx).Save(totals).Error
}
