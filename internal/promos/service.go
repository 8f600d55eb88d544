package promos

import (
	"context"
	"strings"
	"time"

	"seatgrid/internal/pricing"
	"seatgrid/internal/shared/constants"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"
)

type Service interface {
	// Validate checks a code against an order amount and returns the
	// discount descriptor on success. Rejection reasons come back as the
	// typed errors in this package, checked in a fixed order.
	Validate(ctx context.Context, code string, orderAmount int64) (*pricing.Promo, error)

	// Apply validates and reports the discounted amount without consuming a
	// use. Usage is only counted when a checkout confirms.
	Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error)

	ListActive(ctx context.Context) ([]ActivePromoResponse, error)

	// ConsumeUsage counts one confirmed use of the code
	ConsumeUsage(ctx context.Context, code string) error
}

type service struct {
	repo         Repository
	engine       pricing.Engine
	cacheService cache.Service
}

// NewService creates the promo service. cacheService may be nil; active
// listings then always hit Postgres.
func NewService(repo Repository, engine pricing.Engine, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		engine:       engine,
		cacheService: cacheService,
	}
}

func (s *service) Validate(ctx context.Context, code string, orderAmount int64) (*pricing.Promo, error) {
	promo, err := s.repo.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !promo.IsActive || now.Before(promo.StartsAt) || now.After(promo.EndsAt) {
		return nil, ErrPromoInactive
	}
	if orderAmount < promo.MinOrderAmount {
		return nil, ErrMinimumNotMet
	}
	if promo.UsageCap != nil && promo.UsageCount >= *promo.UsageCap {
		return nil, ErrUsageExceeded
	}

	descriptor := promo.ToPromo()
	return &descriptor, nil
}

func (s *service) Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error) {
	promo, err := s.Validate(ctx, req.Code, req.OrderAmount)
	if err != nil {
		return nil, err
	}

	discount := pricing.DiscountOn(promo, req.OrderAmount)
	return &ApplyResponse{
		Code:        promo.Code,
		Type:        promo.Type,
		Discount:    discount,
		FinalAmount: req.OrderAmount - discount,
	}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ActivePromoResponse, error) {
	if s.cacheService != nil {
		var cached []ActivePromoResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_PROMOS_ACTIVE, &cached); err == nil {
			return cached, nil
		}
	}

	promos, err := s.repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]ActivePromoResponse, 0, len(promos))
	for _, p := range promos {
		result = append(result, ActivePromoResponse{
			Code:           p.Code,
			Type:           p.DiscountType,
			Value:          p.DiscountValue,
			MinOrderAmount: p.MinOrderAmount,
			EndsAt:         p.EndsAt,
		})
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.CACHE_KEY_PROMOS_ACTIVE, result, constants.TTL_PROMOS_ACTIVE); err != nil {
			logger.GetDefault().Debug("failed to cache active promos", "error", err)
		}
	}
	return result, nil
}

func (s *service) ConsumeUsage(ctx context.Context, code string) error {
	if err := s.repo.IncrementUsage(ctx, normalizeCode(code)); err != nil {
		return err
	}

	// Consuming a use can exhaust a capped code and drop it from the listing.
	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_PROMOS_ACTIVE); err != nil {
			logger.GetDefault().Debug("failed to invalidate active promos cache", "error", err)
		}
	}

	logger.GetDefault().Debug("Consumed promo usage", "code", code)
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
