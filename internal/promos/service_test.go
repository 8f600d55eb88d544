package promos

import (
	"context"
	"sync"
	"testing"
	"time"

	"seatgrid/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	codes map[string]*PromoCode
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{codes: make(map[string]*PromoCode)}
}

func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	promo, ok := f.codes[code]
	if !ok {
		return nil, ErrPromoNotFound
	}
	copied := *promo
	return &copied, nil
}

func (f *fakeRepo) ListActive(ctx context.Context, now time.Time) ([]PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PromoCode
	for _, p := range f.codes {
		if !p.IsActive || now.Before(p.StartsAt) || now.After(p.EndsAt) {
			continue
		}
		if p.UsageCap != nil && p.UsageCount >= *p.UsageCap {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, promo *PromoCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[promo.Code] = promo
	return nil
}

func (f *fakeRepo) IncrementUsage(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	promo, ok := f.codes[code]
	if !ok {
		return ErrUsageExceeded
	}
	if promo.UsageCap != nil && promo.UsageCount >= *promo.UsageCap {
		return ErrUsageExceeded
	}
	promo.UsageCount++
	return nil
}

func activePromo(code string) *PromoCode {
	now := time.Now()
	return &PromoCode{
		Code:          code,
		DiscountType:  pricing.DiscountPercent,
		DiscountValue: 10,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		IsActive:      true,
	}
}

func newTestService(promos ...*PromoCode) (Service, *fakeRepo) {
	repo := newFakeRepo()
	for _, p := range promos {
		repo.codes[p.Code] = p
	}
	return NewService(repo, pricing.NewEngine(pricing.DefaultPolicy()), nil), repo
}

func TestValidateUnknownCode(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Validate(context.Background(), "NOPE", 1000)
	assert.ErrorIs(t, err, ErrPromoNotFound)
}

func TestValidateNormalizesCode(t *testing.T) {
	svc, _ := newTestService(activePromo("WELCOME10"))

	promo, err := svc.Validate(context.Background(), "  welcome10 ", 1000)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", promo.Code)
	assert.Equal(t, pricing.DiscountPercent, promo.Type)
}

func TestValidateInactiveWindow(t *testing.T) {
	expired := activePromo("OLD")
	expired.EndsAt = time.Now().Add(-time.Minute)

	notYet := activePromo("SOON")
	notYet.StartsAt = time.Now().Add(time.Hour)
	notYet.EndsAt = time.Now().Add(2 * time.Hour)

	disabled := activePromo("OFF")
	disabled.IsActive = false

	svc, _ := newTestService(expired, notYet, disabled)

	for _, code := range []string{"OLD", "SOON", "OFF"} {
		_, err := svc.Validate(context.Background(), code, 1000)
		assert.ErrorIs(t, err, ErrPromoInactive, code)
	}
}

func TestValidateMinimumOrder(t *testing.T) {
	promo := activePromo("MIN500")
	promo.MinOrderAmount = 500
	svc, _ := newTestService(promo)

	_, err := svc.Validate(context.Background(), "MIN500", 499)
	assert.ErrorIs(t, err, ErrMinimumNotMet)

	// The minimum is inclusive.
	_, err = svc.Validate(context.Background(), "MIN500", 500)
	assert.NoError(t, err)
}

func TestValidateUsageCap(t *testing.T) {
	cap := 2
	promo := activePromo("CAPPED")
	promo.UsageCap = &cap
	promo.UsageCount = 2
	svc, _ := newTestService(promo)

	_, err := svc.Validate(context.Background(), "CAPPED", 1000)
	assert.ErrorIs(t, err, ErrUsageExceeded)
}

func TestValidateChecksWindowBeforeMinimum(t *testing.T) {
	// A code failing several checks reports the first one in order.
	promo := activePromo("BOTH")
	promo.IsActive = false
	promo.MinOrderAmount = 5000
	svc, _ := newTestService(promo)

	_, err := svc.Validate(context.Background(), "BOTH", 100)
	assert.ErrorIs(t, err, ErrPromoInactive)
}

func TestApplyPercent(t *testing.T) {
	svc, _ := newTestService(activePromo("WELCOME10"))

	resp, err := svc.Apply(context.Background(), ApplyRequest{Code: "WELCOME10", OrderAmount: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Discount)
	assert.Equal(t, int64(900), resp.FinalAmount)
}

func TestApplyFixedClampedToOrder(t *testing.T) {
	promo := activePromo("FLAT")
	promo.DiscountType = pricing.DiscountFixed
	promo.DiscountValue = 2000
	svc, _ := newTestService(promo)

	resp, err := svc.Apply(context.Background(), ApplyRequest{Code: "FLAT", OrderAmount: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.Discount)
	assert.Equal(t, int64(0), resp.FinalAmount)
}

func TestApplyDoesNotConsumeUsage(t *testing.T) {
	svc, repo := newTestService(activePromo("WELCOME10"))

	_, err := svc.Apply(context.Background(), ApplyRequest{Code: "WELCOME10", OrderAmount: 1000})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.codes["WELCOME10"].UsageCount)
}

func TestConsumeUsageEnforcesCap(t *testing.T) {
	cap := 1
	promo := activePromo("ONCE")
	promo.UsageCap = &cap
	svc, repo := newTestService(promo)

	require.NoError(t, svc.ConsumeUsage(context.Background(), "once"))
	assert.Equal(t, 1, repo.codes["ONCE"].UsageCount)

	err := svc.ConsumeUsage(context.Background(), "ONCE")
	assert.ErrorIs(t, err, ErrUsageExceeded)
}

func TestListActiveFiltersAndMaps(t *testing.T) {
	expired := activePromo("OLD")
	expired.EndsAt = time.Now().Add(-time.Minute)
	svc, _ := newTestService(activePromo("LIVE"), expired)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "LIVE", active[0].Code)
	assert.Equal(t, pricing.DiscountPercent, active[0].Type)
	assert.Equal(t, float64(10), active[0].Value)
}
