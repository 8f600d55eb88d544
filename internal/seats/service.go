package seats

import (
	"context"
	"fmt"

	"seatgrid/internal/floorplan"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/constants"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Floor-plan generation
	GenerateFloorPlan(ctx context.Context, eventID string, req GenerateRequest) (*GenerateResponse, error)

	// Availability
	GetAvailability(ctx context.Context, eventID string) (*AvailabilityResponse, error)

	// InvalidateAvailability drops the cached availability view for an event.
	// Reservation and checkout call this after every state transition.
	InvalidateAvailability(ctx context.Context, eventID string)
}

type service struct {
	repo         Repository
	config       *config.Config
	cacheService cache.Service
}

// NewService creates the inventory service. cacheService may be nil; reads
// then always hit Postgres.
func NewService(repo Repository, cfg *config.Config, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		config:       cfg,
		cacheService: cacheService,
	}
}

func (s *service) GenerateFloorPlan(ctx context.Context, eventID string, req GenerateRequest) (*GenerateResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	descriptors, err := floorplan.Generate(req.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	if len(descriptors) == 0 {
		return nil, ErrEmptyFloorPlan
	}

	seats := make([]Seat, 0, len(descriptors))
	for _, d := range descriptors {
		seats = append(seats, FromDescriptor(eventUUID, d))
	}

	if err := s.repo.ReplaceEventSeats(ctx, eventUUID, seats); err != nil {
		return nil, err
	}

	s.InvalidateAvailability(ctx, eventID)

	logger.GetDefault().InfoWithContext(ctx, "Floor plan generated", map[string]interface{}{
		"event_id": eventID,
		"seats":    len(seats),
		"kind":     string(req.Template.Kind),
	})

	return &GenerateResponse{SeatsCreated: len(seats)}, nil
}

func (s *service) GetAvailability(ctx context.Context, eventID string) (*AvailabilityResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	cacheKey := constants.BuildAvailabilityKey(eventID)
	if s.cacheService != nil {
		var cached AvailabilityResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			logger.GetDefault().Debug("availability cache hit", "key", cacheKey)
			return &cached, nil
		}
	}

	seats, err := s.repo.GetEventSeats(ctx, eventUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	resp := &AvailabilityResponse{
		TotalSeats: len(seats),
		FloorPlan:  make([]FloorPlanSeat, 0, len(seats)),
	}
	for i := range seats {
		switch seats[i].Status {
		case StatusHeld:
			resp.HeldCount++
		case StatusConfirmed:
			resp.ConfirmedCount++
		}
		resp.FloorPlan = append(resp.FloorPlan, seats[i].ToFloorPlanSeat())
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, resp, s.config.Redis.AvailabilityTTL); err != nil {
			logger.GetDefault().Debug("failed to cache availability", "error", err)
		}
	}

	return resp, nil
}

func (s *service) InvalidateAvailability(ctx context.Context, eventID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildAvailabilityKey(eventID)); err != nil {
		logger.GetDefault().Debug("failed to invalidate availability cache", "error", err)
	}
}
