package promos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	ListActive(ctx context.Context, now time.Time) ([]PromoCode, error)
	Create(ctx context.Context, promo *PromoCode) error

	// IncrementUsage bumps the usage count if the cap still allows it.
	// Returns ErrUsageExceeded when the cap was hit by a concurrent checkout.
	IncrementUsage(ctx context.Context, code string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	var promo PromoCode
	err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]PromoCode, error) {
	var promos []PromoCode
	err := r.db.WithContext(ctx).
		Where("is_active = true AND starts_at <= ? AND ends_at >= ?", now, now).
		Where("usage_cap IS NULL OR usage_count < usage_cap").
		Order("code ASC").
		Find(&promos).Error
	return promos, err
}

func (r *repository) Create(ctx context.Context, promo *PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *repository) IncrementUsage(ctx context.Context, code string) error {
	// The guarded UPDATE makes cap enforcement atomic under concurrent
	// checkouts without an extra row lock.
	result := r.db.WithContext(ctx).Model(&PromoCode{}).
		Where("code = ?", code).
		Where("usage_cap IS NULL OR usage_count < usage_cap").
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageExceeded
	}
	return nil
}
