package seats

import (
	"context"
	"testing"
	"time"

	"seatgrid/internal/floorplan"
	"seatgrid/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEvent   map[uuid.UUID][]Seat
	allocated bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEvent: make(map[uuid.UUID][]Seat)}
}

func (f *fakeRepo) ReplaceEventSeats(ctx context.Context, eventID uuid.UUID, seats []Seat) error {
	if f.allocated {
		return ErrSeatsAllocated
	}
	for i := range seats {
		seats[i].ID = uuid.New()
	}
	f.byEvent[eventID] = seats
	return nil
}

func (f *fakeRepo) GetEventSeats(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	return f.byEvent[eventID], nil
}

func (f *fakeRepo) CountEventSeats(ctx context.Context, eventID uuid.UUID) (int64, error) {
	return int64(len(f.byEvent[eventID])), nil
}

func (f *fakeRepo) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	wanted := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = true
	}
	var out []Seat
	for _, seats := range f.byEvent {
		for _, s := range seats {
			if wanted[s.ID] {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	var count int64
	for _, s := range f.byEvent[eventID] {
		if s.Status == status {
			count++
		}
	}
	return count, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{AvailabilityTTL: 30 * time.Second},
	}
}

func theaterTemplate(rows, cols int) floorplan.Template {
	return floorplan.Template{
		Kind: floorplan.KindTheater,
		Theater: &floorplan.TheaterTemplate{
			Section:   "Main",
			Rows:      rows,
			Cols:      cols,
			BasePrice: 500,
		},
	}
}

func TestGenerateFloorPlanCreatesInventory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig(), nil)
	eventID := uuid.New()

	resp, err := svc.GenerateFloorPlan(context.Background(), eventID.String(), GenerateRequest{
		Template: theaterTemplate(2, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.SeatsCreated)

	stored := repo.byEvent[eventID]
	require.Len(t, stored, 6)
	for _, seat := range stored {
		assert.Equal(t, eventID, seat.EventID)
		assert.Equal(t, StatusAvailable, seat.Status)
		assert.Equal(t, int64(500), seat.BasePrice)
	}
}

func TestGenerateFloorPlanInvalidEventID(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig(), nil)

	_, err := svc.GenerateFloorPlan(context.Background(), "not-a-uuid", GenerateRequest{
		Template: theaterTemplate(1, 1),
	})
	assert.Error(t, err)
}

func TestGenerateFloorPlanRejectsEmptyTemplate(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig(), nil)

	_, err := svc.GenerateFloorPlan(context.Background(), uuid.New().String(), GenerateRequest{
		Template: theaterTemplate(0, 10),
	})
	assert.ErrorIs(t, err, ErrEmptyFloorPlan)
}

func TestGenerateFloorPlanRejectsMismatchedVariant(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig(), nil)

	_, err := svc.GenerateFloorPlan(context.Background(), uuid.New().String(), GenerateRequest{
		Template: floorplan.Template{Kind: floorplan.KindTheater},
	})
	assert.ErrorIs(t, err, floorplan.ErrVariantMismatch)
}

func TestGenerateFloorPlanRefusesWhileAllocated(t *testing.T) {
	repo := newFakeRepo()
	repo.allocated = true
	svc := NewService(repo, testConfig(), nil)

	_, err := svc.GenerateFloorPlan(context.Background(), uuid.New().String(), GenerateRequest{
		Template: theaterTemplate(2, 2),
	})
	assert.ErrorIs(t, err, ErrSeatsAllocated)
}

func TestGetAvailabilityCountsStates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig(), nil)
	eventID := uuid.New()

	repo.byEvent[eventID] = []Seat{
		{ID: uuid.New(), EventID: eventID, Status: StatusAvailable, RowLabel: "A", SeatNumber: 1},
		{ID: uuid.New(), EventID: eventID, Status: StatusHeld, RowLabel: "A", SeatNumber: 2},
		{ID: uuid.New(), EventID: eventID, Status: StatusHeld, RowLabel: "A", SeatNumber: 3},
		{ID: uuid.New(), EventID: eventID, Status: StatusConfirmed, RowLabel: "A", SeatNumber: 4},
	}

	resp, err := svc.GetAvailability(context.Background(), eventID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TotalSeats)
	assert.Equal(t, 2, resp.HeldCount)
	assert.Equal(t, 1, resp.ConfirmedCount)
	require.Len(t, resp.FloorPlan, 4)
	assert.Equal(t, StatusHeld, resp.FloorPlan[1].Status)
}

func TestGetAvailabilityEmptyEvent(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig(), nil)

	resp, err := svc.GetAvailability(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalSeats)
	assert.Empty(t, resp.FloorPlan)
}
