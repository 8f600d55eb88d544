package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatgrid/internal/pricing"
	"seatgrid/internal/promos"
	"seatgrid/internal/reservations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHolds is a scripted reservations.Service covering the calls checkout
// makes: GetWithSeats, Confirm and Release.
type fakeHolds struct {
	hold       *reservations.Hold
	seats      []reservations.HoldSeat
	confirmErr error
	confirmed  bool
	released   bool
}

func (f *fakeHolds) Reserve(ctx context.Context, eventID string, req reservations.ReserveRequest) (*reservations.HoldResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeHolds) Extend(ctx context.Context, eventID string, holdID string) (*reservations.HoldResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeHolds) Release(ctx context.Context, holdID string) (*reservations.ReleaseResponse, error) {
	f.released = true
	return &reservations.ReleaseResponse{SeatsReleased: len(f.seats)}, nil
}

func (f *fakeHolds) GetWithSeats(ctx context.Context, holdID uuid.UUID) (*reservations.Hold, []reservations.HoldSeat, error) {
	if f.hold == nil || f.hold.ID != holdID {
		return nil, nil, reservations.ErrHoldNotFound
	}
	return f.hold, f.seats, nil
}

func (f *fakeHolds) Confirm(ctx context.Context, holdID uuid.UUID) (*reservations.Snapshot, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirmed = true
	return &reservations.Snapshot{
		HoldID:       f.hold.ID,
		EventID:      f.hold.EventID,
		BuyerSession: f.hold.BuyerSession,
		Seats:        f.seats,
	}, nil
}

func (f *fakeHolds) SweepOnce(ctx context.Context) (int, error) {
	return 0, nil
}

type fakePromos struct {
	promo        *pricing.Promo
	validateErr  error
	validatedAmt int64
	consumed     []string
	consumeErr   error
}

func (f *fakePromos) Validate(ctx context.Context, code string, orderAmount int64) (*pricing.Promo, error) {
	f.validatedAmt = orderAmount
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.promo, nil
}

func (f *fakePromos) Apply(ctx context.Context, req promos.ApplyRequest) (*promos.ApplyResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakePromos) ListActive(ctx context.Context) ([]promos.ActivePromoResponse, error) {
	return nil, nil
}

func (f *fakePromos) ConsumeUsage(ctx context.Context, code string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, code)
	return nil
}

type fakeCheckoutRepo struct {
	allocations map[uuid.UUID]*Allocation
	seats       map[uuid.UUID][]AllocationSeat
}

func newFakeCheckoutRepo() *fakeCheckoutRepo {
	return &fakeCheckoutRepo{
		allocations: make(map[uuid.UUID]*Allocation),
		seats:       make(map[uuid.UUID][]AllocationSeat),
	}
}

func (f *fakeCheckoutRepo) CreateAllocation(ctx context.Context, allocation *Allocation, seats []AllocationSeat) error {
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	copied := *allocation
	f.allocations[allocation.ID] = &copied
	f.seats[allocation.ID] = seats
	return nil
}

func (f *fakeCheckoutRepo) UpdateStatus(ctx context.Context, allocationID uuid.UUID, status string, failureReason *string) error {
	allocation, ok := f.allocations[allocationID]
	if !ok {
		return ErrAllocationNotFound
	}
	allocation.Status = status
	allocation.FailureReason = failureReason
	return nil
}

func (f *fakeCheckoutRepo) GetByID(ctx context.Context, allocationID uuid.UUID) (*Allocation, []AllocationSeat, error) {
	allocation, ok := f.allocations[allocationID]
	if !ok {
		return nil, nil, ErrAllocationNotFound
	}
	return allocation, f.seats[allocationID], nil
}

func (f *fakeCheckoutRepo) single(t *testing.T) *Allocation {
	t.Helper()
	require.Len(t, f.allocations, 1)
	for _, a := range f.allocations {
		return a
	}
	return nil
}

type fakeProducer struct {
	events []*AllocationEvent
	err    error
}

func (f *fakeProducer) PublishAllocationConfirmed(ctx context.Context, event *AllocationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

type checkoutFixture struct {
	svc      Service
	repo     *fakeCheckoutRepo
	holds    *fakeHolds
	promos   *fakePromos
	producer *fakeProducer
	eventID  uuid.UUID
	holdID   uuid.UUID
}

// newFixture wires a checkout over a live two-seat hold worth 1000 base.
func newFixture() *checkoutFixture {
	eventID := uuid.New()
	holdID := uuid.New()
	holds := &fakeHolds{
		hold: &reservations.Hold{
			ID:           holdID,
			EventID:      eventID,
			BuyerSession: "buyer-1",
			ExpiresAt:    time.Now().Add(5 * time.Minute),
		},
		seats: []reservations.HoldSeat{
			{ID: uuid.New(), HoldID: holdID, SeatID: uuid.New(), PriceAtHold: 500},
			{ID: uuid.New(), HoldID: holdID, SeatID: uuid.New(), PriceAtHold: 500},
		},
	}
	repo := newFakeCheckoutRepo()
	promoSvc := &fakePromos{}
	producer := &fakeProducer{}
	svc := NewService(repo, holds, promoSvc, pricing.NewEngine(pricing.DefaultPolicy()), producer)
	return &checkoutFixture{
		svc:      svc,
		repo:     repo,
		holds:    holds,
		promos:   promoSvc,
		producer: producer,
		eventID:  eventID,
		holdID:   holdID,
	}
}

func TestConfirmHappyPath(t *testing.T) {
	fx := newFixture()

	resp, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, resp.Status)
	assert.Len(t, resp.SeatIDs, 2)
	assert.Equal(t, int64(1000), resp.Quote.BaseTotal)
	assert.Equal(t, int64(1215), resp.Quote.GrandTotal) // 1000 + 35 fee + 180 tax
	assert.Nil(t, resp.PromoCode)

	assert.True(t, fx.holds.confirmed)
	allocation := fx.repo.single(t)
	assert.Equal(t, StatusPaid, allocation.Status)
	assert.Equal(t, "buyer-1", allocation.BuyerSession)

	require.Len(t, fx.producer.events, 1)
	event := fx.producer.events[0]
	assert.Equal(t, fx.eventID, event.EventID)
	assert.Equal(t, fx.holdID, event.HoldID)
	assert.Equal(t, int64(1215), event.GrandTotal)
}

func TestConfirmPaymentFailedReleasesHold(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentFailed,
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	// Seats go back immediately instead of waiting out the hold TTL.
	assert.True(t, fx.holds.released)
	assert.False(t, fx.holds.confirmed)

	allocation := fx.repo.single(t)
	assert.Equal(t, StatusFailed, allocation.Status)
	require.NotNil(t, allocation.FailureReason)
	assert.Empty(t, fx.producer.events)
}

func TestConfirmExpiredHold(t *testing.T) {
	fx := newFixture()
	fx.holds.hold.ExpiresAt = time.Now().Add(-time.Second)

	_, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	assert.ErrorIs(t, err, reservations.ErrHoldExpired)

	// Rejected before any money moved: nothing recorded, nothing released.
	assert.Empty(t, fx.repo.allocations)
	assert.False(t, fx.holds.released)
}

func TestConfirmWrongEvent(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Confirm(context.Background(), uuid.New().String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	assert.ErrorIs(t, err, reservations.ErrHoldNotFound)
}

func TestConfirmWithPromo(t *testing.T) {
	fx := newFixture()
	fx.promos.promo = &pricing.Promo{Code: "TEN", Type: pricing.DiscountPercent, Amount: 10}

	resp, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PromoCode:     "ten",
		PaymentStatus: PaymentCaptured,
	})
	require.NoError(t, err)

	// Validation sees the undiscounted base.
	assert.Equal(t, int64(1000), fx.promos.validatedAmt)
	assert.Equal(t, int64(100), resp.Quote.Discount)
	assert.Equal(t, int64(1115), resp.Quote.GrandTotal) // 900 + 35 + 180
	require.NotNil(t, resp.PromoCode)
	assert.Equal(t, "TEN", *resp.PromoCode)

	// Usage is consumed exactly once, after payment.
	assert.Equal(t, []string{"TEN"}, fx.promos.consumed)

	allocation := fx.repo.single(t)
	require.NotNil(t, allocation.PromoCode)
	assert.Equal(t, "TEN", *allocation.PromoCode)
	assert.Equal(t, int64(100), allocation.Discount)
}

func TestConfirmPromoRejectedKeepsHold(t *testing.T) {
	fx := newFixture()
	fx.promos.validateErr = promos.ErrMinimumNotMet

	_, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PromoCode:     "MIN500",
		PaymentStatus: PaymentCaptured,
	})
	assert.ErrorIs(t, err, promos.ErrMinimumNotMet)

	// Promo rejection happens before the hold is touched: the buyer can
	// retry without the code.
	assert.False(t, fx.holds.confirmed)
	assert.False(t, fx.holds.released)
	assert.Empty(t, fx.repo.allocations)
}

func TestConfirmHoldConsumeFailure(t *testing.T) {
	fx := newFixture()
	fx.holds.confirmErr = reservations.ErrHoldExpired

	_, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	assert.ErrorIs(t, err, reservations.ErrHoldExpired)

	allocation := fx.repo.single(t)
	assert.Equal(t, StatusFailed, allocation.Status)
	assert.Empty(t, fx.producer.events)
}

func TestConfirmProducerFailureIsNotFatal(t *testing.T) {
	fx := newFixture()
	fx.producer.err = errors.New("broker down")

	resp, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
}

func TestConfirmPromoUsageRaceIsNotFatal(t *testing.T) {
	fx := newFixture()
	fx.promos.promo = &pricing.Promo{Code: "CAPPED", Type: pricing.DiscountFixed, Amount: 100}
	fx.promos.consumeErr = promos.ErrUsageExceeded

	resp, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PromoCode:     "CAPPED",
		PaymentStatus: PaymentCaptured,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
}

func TestGetAllocation(t *testing.T) {
	fx := newFixture()
	resp, err := fx.svc.Confirm(context.Background(), fx.eventID.String(), ConfirmRequest{
		HoldID:        fx.holdID.String(),
		PaymentStatus: PaymentCaptured,
	})
	require.NoError(t, err)

	fetched, err := fx.svc.GetAllocation(context.Background(), resp.AllocationID)
	require.NoError(t, err)
	assert.Equal(t, resp.AllocationID, fetched.AllocationID)
	assert.Equal(t, StatusPaid, fetched.Status)
	assert.Equal(t, resp.Quote, fetched.Quote)
	assert.Len(t, fetched.SeatIDs, 2)
}

func TestGetAllocationNotFound(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.GetAllocation(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrAllocationNotFound)
}
