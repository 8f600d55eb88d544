package checkout

import (
	"context"
	"fmt"
	"time"

	"seatgrid/internal/pricing"
	"seatgrid/internal/promos"
	"seatgrid/internal/reservations"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Confirm runs the whole checkout: quote the held seats, validate the
	// promo, check payment, then convert the hold into a paid allocation.
	Confirm(ctx context.Context, eventID string, req ConfirmRequest) (*ConfirmResponse, error)

	GetAllocation(ctx context.Context, allocationID string) (*AllocationResponse, error)
}

type service struct {
	repo     Repository
	holds    reservations.Service
	promos   promos.Service
	engine   pricing.Engine
	producer AllocationProducer
}

func NewService(repo Repository, holds reservations.Service, promoService promos.Service, engine pricing.Engine, producer AllocationProducer) Service {
	return &service{
		repo:     repo,
		holds:    holds,
		promos:   promoService,
		engine:   engine,
		producer: producer,
	}
}

func (s *service) Confirm(ctx context.Context, eventID string, req ConfirmRequest) (*ConfirmResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	holdID, err := uuid.Parse(req.HoldID)
	if err != nil {
		return nil, fmt.Errorf("invalid hold ID: %w", err)
	}

	hold, holdSeats, err := s.holds.GetWithSeats(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if hold.EventID != eventUUID {
		return nil, reservations.ErrHoldNotFound
	}
	if hold.IsExpired(time.Now()) {
		return nil, reservations.ErrHoldExpired
	}

	seatPrices := make([]pricing.SeatPrice, 0, len(holdSeats))
	for _, hs := range holdSeats {
		seatPrices = append(seatPrices, pricing.SeatPrice{
			SeatID:    hs.SeatID.String(),
			BasePrice: hs.PriceAtHold,
		})
	}

	// Promo validation runs against the undiscounted base, before payment
	// and before the hold is consumed, so every rejection leaves the hold
	// intact for a retry.
	var promo *pricing.Promo
	var promoCode *string
	if req.PromoCode != "" {
		baseTotal := s.engine.Quote(seatPrices, nil).BaseTotal
		promo, err = s.promos.Validate(ctx, req.PromoCode, baseTotal)
		if err != nil {
			return nil, err
		}
		promoCode = &promo.Code
	}

	quote := s.engine.Quote(seatPrices, promo)

	allocation := &Allocation{
		EventID:        hold.EventID,
		HoldID:         hold.ID,
		BuyerSession:   hold.BuyerSession,
		PromoCode:      promoCode,
		BaseTotal:      quote.BaseTotal,
		Discount:       quote.Discount,
		ConvenienceFee: quote.ConvenienceFee,
		TaxAmount:      quote.TaxAmount,
		GrandTotal:     quote.GrandTotal,
		Status:         StatusPending,
	}
	allocationSeats := make([]AllocationSeat, 0, len(holdSeats))
	for _, hs := range holdSeats {
		allocationSeats = append(allocationSeats, AllocationSeat{
			SeatID:      hs.SeatID,
			PriceAtHold: hs.PriceAtHold,
		})
	}
	if err := s.repo.CreateAllocation(ctx, allocation, allocationSeats); err != nil {
		return nil, err
	}

	// A failed capture releases the seats immediately instead of letting
	// them sit HELD until the sweep.
	if req.PaymentStatus != PaymentCaptured {
		s.failAllocation(ctx, allocation.ID, "payment not captured")
		if _, err := s.holds.Release(ctx, hold.ID.String()); err != nil {
			logger.GetDefault().Error("Failed to release hold after payment failure", "hold_id", hold.ID.String(), "error", err)
		}
		return nil, ErrPaymentFailed
	}

	snapshot, err := s.holds.Confirm(ctx, holdID)
	if err != nil {
		s.failAllocation(ctx, allocation.ID, err.Error())
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, allocation.ID, StatusPaid, nil); err != nil {
		return nil, fmt.Errorf("failed to mark allocation paid: %w", err)
	}

	if promo != nil {
		// The cap was checked during validation; losing the race here is
		// logged, not refunded.
		if err := s.promos.ConsumeUsage(ctx, promo.Code); err != nil {
			logger.GetDefault().Warn("Failed to consume promo usage", "code", promo.Code, "error", err)
		}
	}

	seatIDs := make([]string, 0, len(snapshot.Seats))
	for _, seat := range snapshot.Seats {
		seatIDs = append(seatIDs, seat.SeatID.String())
	}

	if err := s.producer.PublishAllocationConfirmed(ctx, &AllocationEvent{
		AllocationID: allocation.ID,
		EventID:      snapshot.EventID,
		HoldID:       snapshot.HoldID,
		SeatIDs:      seatIDs,
		PromoCode:    promoCode,
		GrandTotal:   quote.GrandTotal,
		ConfirmedAt:  time.Now(),
	}); err != nil {
		logger.GetDefault().Error("Failed to publish allocation event", "allocation_id", allocation.ID.String(), "error", err)
	}

	logger.GetDefault().LogAllocationPaid(ctx, allocation.ID.String(), snapshot.EventID.String(), quote.GrandTotal)

	return &ConfirmResponse{
		AllocationID: allocation.ID.String(),
		EventID:      snapshot.EventID.String(),
		SeatIDs:      seatIDs,
		PromoCode:    promoCode,
		Quote:        quote,
		Status:       StatusPaid,
	}, nil
}

func (s *service) GetAllocation(ctx context.Context, allocationID string) (*AllocationResponse, error) {
	id, err := uuid.Parse(allocationID)
	if err != nil {
		return nil, fmt.Errorf("invalid allocation ID: %w", err)
	}

	allocation, allocationSeats, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seatIDs := make([]string, 0, len(allocationSeats))
	for _, seat := range allocationSeats {
		seatIDs = append(seatIDs, seat.SeatID.String())
	}

	return &AllocationResponse{
		AllocationID: allocation.ID.String(),
		EventID:      allocation.EventID.String(),
		HoldID:       allocation.HoldID.String(),
		SeatIDs:      seatIDs,
		PromoCode:    allocation.PromoCode,
		Quote:        allocation.quote(),
		Status:       allocation.Status,
		CreatedAt:    allocation.CreatedAt,
	}, nil
}

func (s *service) failAllocation(ctx context.Context, allocationID uuid.UUID, reason string) {
	if err := s.repo.UpdateStatus(ctx, allocationID, StatusFailed, &reason); err != nil {
		logger.GetDefault().Error("Failed to mark allocation failed", "allocation_id", allocationID.String(), "error", err)
	}
}
