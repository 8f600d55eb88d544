package seats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Floor-plan lifecycle
	ReplaceEventSeats(ctx context.Context, eventID uuid.UUID, seats []Seat) error
	GetEventSeats(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	CountEventSeats(ctx context.Context, eventID uuid.UUID) (int64, error)

	// Lookups used by the reservation and checkout flows
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// lockEventSeats fetches every seat row of the event FOR UPDATE so the guard
// check and the delete below see a stable inventory. Postgres does not allow
// row locks on aggregates, so the allocated check counts the fetched rows.
func lockEventSeats(tx *gorm.DB, eventID uuid.UUID, dest *[]Seat) *gorm.DB {
	return tx.Model(&Seat{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(dest)
}

func countAllocated(seats []Seat) int {
	allocated := 0
	for i := range seats {
		if seats[i].Status == StatusHeld || seats[i].Status == StatusConfirmed {
			allocated++
		}
	}
	return allocated
}

// ReplaceEventSeats swaps the entire inventory for an event in one
// transaction. Regeneration is all-or-nothing: if any existing seat is HELD or
// CONFIRMED the whole operation fails and the previous plan stays intact.
func (r *repository) ReplaceEventSeats(ctx context.Context, eventID uuid.UUID, seats []Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Seat
		if err := lockEventSeats(tx, eventID, &existing).Error; err != nil {
			return fmt.Errorf("failed to lock event seats: %w", err)
		}
		if countAllocated(existing) > 0 {
			return ErrSeatsAllocated
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&Seat{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous floor plan: %w", err)
		}

		if len(seats) > 0 {
			if err := tx.CreateInBatches(&seats, 500).Error; err != nil {
				return fmt.Errorf("failed to insert seats: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetEventSeats(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("section ASC, row_label ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountEventSeats(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("id IN ?", seatIDs).
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}
