package reservations

import (
	"context"
	"fmt"
	"time"

	"seatgrid/internal/seats"
	"seatgrid/internal/shared/config"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Reserve claims the exact seat set for the hold TTL
	Reserve(ctx context.Context, eventID string, req ReserveRequest) (*HoldResponse, error)

	// Extend pushes the hold expiry forward. Extensions are throttled; a
	// throttled call succeeds without changing the expiry.
	Extend(ctx context.Context, eventID string, holdID string) (*HoldResponse, error)

	// Release returns the hold's seats. Releasing an unknown or already
	// released hold succeeds with zero seats.
	Release(ctx context.Context, holdID string) (*ReleaseResponse, error)

	// GetWithSeats reads a hold and its seat snapshot without consuming it
	GetWithSeats(ctx context.Context, holdID uuid.UUID) (*Hold, []HoldSeat, error)

	// Confirm consumes a live hold and returns the reservation-time price
	// snapshot. Checkout is the only caller.
	Confirm(ctx context.Context, holdID uuid.UUID) (*Snapshot, error)

	// SweepOnce releases every expired hold. The background sweeper is the
	// only timeout-based path from HELD back to AVAILABLE.
	SweepOnce(ctx context.Context) (int, error)
}

type service struct {
	repo         Repository
	config       *config.Config
	availability seats.Service
}

func NewService(repo Repository, cfg *config.Config, availability seats.Service) Service {
	return &service{
		repo:         repo,
		config:       cfg,
		availability: availability,
	}
}

func (s *service) Reserve(ctx context.Context, eventID string, req ReserveRequest) (*HoldResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if len(req.SeatIDs) == 0 {
		return nil, ErrNoSeats
	}
	if len(req.SeatIDs) > s.config.Reservation.MaxSeatsPerHold {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySeats, s.config.Reservation.MaxSeatsPerHold)
	}

	seatUUIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	unique := make(map[uuid.UUID]bool, len(req.SeatIDs))
	for _, idStr := range req.SeatIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID: %s", idStr)
		}
		if unique[id] {
			continue
		}
		unique[id] = true
		seatUUIDs = append(seatUUIDs, id)
	}

	hold, err := s.repo.ReserveSeats(ctx, eventUUID, seatUUIDs, req.BuyerSession, s.config.Reservation.HoldTTL)
	if err != nil {
		return nil, err
	}

	s.availability.InvalidateAvailability(ctx, eventID)
	logger.GetDefault().LogHoldCreated(ctx, hold.ID.String(), eventID, len(seatUUIDs))

	return s.holdResponse(hold, seatUUIDs, false), nil
}

func (s *service) Extend(ctx context.Context, eventID string, holdID string) (*HoldResponse, error) {
	holdUUID, err := uuid.Parse(holdID)
	if err != nil {
		return nil, fmt.Errorf("invalid hold ID: %w", err)
	}

	hold, err := s.repo.GetHold(ctx, holdUUID)
	if err != nil {
		return nil, err
	}

	// An expired hold cannot be revived. To the extending client it is
	// already gone, whether or not the sweeper has reclaimed the seats yet.
	now := time.Now()
	if hold.IsExpired(now) {
		return nil, ErrHoldNotFound
	}

	seatIDs, err := s.holdSeatIDs(ctx, holdUUID)
	if err != nil {
		return nil, err
	}

	// Throttle: back-to-back extends are a no-op success so a polling client
	// cannot pin seats indefinitely by hammering the endpoint.
	if hold.LastExtendedAt != nil && now.Sub(*hold.LastExtendedAt) < s.config.Reservation.ExtendThrottle {
		return s.holdResponse(hold, seatIDs, false), nil
	}

	newExpiry := now.Add(s.config.Reservation.HoldTTL)
	if err := s.repo.UpdateExpiry(ctx, holdUUID, newExpiry, now); err != nil {
		return nil, err
	}

	hold.ExpiresAt = newExpiry
	hold.LastExtendedAt = &now
	logger.GetDefault().Info("Hold extended", "hold_id", holdID, "expires_at", newExpiry.Format(time.RFC3339))

	return s.holdResponse(hold, seatIDs, true), nil
}

func (s *service) Release(ctx context.Context, holdID string) (*ReleaseResponse, error) {
	holdUUID, err := uuid.Parse(holdID)
	if err != nil {
		return nil, fmt.Errorf("invalid hold ID: %w", err)
	}

	hold, err := s.repo.GetHold(ctx, holdUUID)
	if err == ErrHoldNotFound {
		return &ReleaseResponse{SeatsReleased: 0}, nil
	}
	if err != nil {
		return nil, err
	}

	released, err := s.repo.ReleaseHold(ctx, holdUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to release hold: %w", err)
	}

	s.availability.InvalidateAvailability(ctx, hold.EventID.String())
	logger.GetDefault().LogHoldReleased(ctx, holdID, released, "requested")

	return &ReleaseResponse{SeatsReleased: released}, nil
}

func (s *service) GetWithSeats(ctx context.Context, holdID uuid.UUID) (*Hold, []HoldSeat, error) {
	hold, err := s.repo.GetHold(ctx, holdID)
	if err != nil {
		return nil, nil, err
	}
	holdSeats, err := s.repo.GetHoldSeats(ctx, holdID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load hold seats: %w", err)
	}
	return hold, holdSeats, nil
}

func (s *service) Confirm(ctx context.Context, holdID uuid.UUID) (*Snapshot, error) {
	snapshot, err := s.repo.ConfirmHold(ctx, holdID)
	if err != nil {
		return nil, err
	}

	s.availability.InvalidateAvailability(ctx, snapshot.EventID.String())
	return snapshot, nil
}

func (s *service) SweepOnce(ctx context.Context) (int, error) {
	released, eventIDs, err := s.repo.SweepExpired(ctx, time.Now(), s.config.Reservation.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired holds: %w", err)
	}

	for _, eventID := range eventIDs {
		s.availability.InvalidateAvailability(ctx, eventID.String())
	}
	return released, nil
}

func (s *service) holdSeatIDs(ctx context.Context, holdID uuid.UUID) ([]uuid.UUID, error) {
	holdSeats, err := s.repo.GetHoldSeats(ctx, holdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hold seats: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(holdSeats))
	for _, hs := range holdSeats {
		ids = append(ids, hs.SeatID)
	}
	return ids, nil
}

func (s *service) holdResponse(hold *Hold, seatIDs []uuid.UUID, extended bool) *HoldResponse {
	ids := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		ids = append(ids, id.String())
	}
	ttl := int(time.Until(hold.ExpiresAt).Seconds())
	if ttl < 0 {
		ttl = 0
	}
	return &HoldResponse{
		HoldID:     hold.ID.String(),
		EventID:    hold.EventID.String(),
		SeatIDs:    ids,
		ExpiresAt:  hold.ExpiresAt,
		TTLSeconds: ttl,
		Extended:   extended,
	}
}
