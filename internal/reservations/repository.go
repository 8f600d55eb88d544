package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatgrid/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// ReserveSeats atomically claims the exact seat set or fails with a
	// SeatConflictError naming every seat that blocked the claim.
	ReserveSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, buyerSession string, ttl time.Duration) (*Hold, error)

	GetHold(ctx context.Context, holdID uuid.UUID) (*Hold, error)
	GetHoldSeats(ctx context.Context, holdID uuid.UUID) ([]HoldSeat, error)
	UpdateExpiry(ctx context.Context, holdID uuid.UUID, expiresAt time.Time, extendedAt time.Time) error

	// ConfirmHold converts the hold's seats to CONFIRMED and consumes the
	// hold, returning the price snapshot captured at reservation time.
	ConfirmHold(ctx context.Context, holdID uuid.UUID) (*Snapshot, error)

	// ReleaseHold returns the hold's seats to AVAILABLE. Releasing a hold
	// that no longer exists is a no-op reporting zero seats.
	ReleaseHold(ctx context.Context, holdID uuid.UUID) (int, error)

	// SweepExpired releases every hold whose expiry has passed and reports
	// the affected event IDs so callers can invalidate availability caches.
	SweepExpired(ctx context.Context, now time.Time, batchSize int) (int, []uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReserveSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, buyerSession string, ttl time.Duration) (*Hold, error) {
	var hold *Hold
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock in a stable order so concurrent reservations over overlapping
		// seat sets cannot deadlock.
		var locked []seats.Seat
		err := tx.Model(&seats.Seat{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND event_id = ?", seatIDs, eventID).
			Order("id ASC").
			Find(&locked).Error
		if err != nil {
			return fmt.Errorf("failed to lock seats: %w", err)
		}

		found := make(map[uuid.UUID]*seats.Seat, len(locked))
		for i := range locked {
			found[locked[i].ID] = &locked[i]
		}

		var conflicts []string
		for _, id := range seatIDs {
			seat, ok := found[id]
			if !ok || !seat.IsAvailable() {
				conflicts = append(conflicts, id.String())
			}
		}
		if len(conflicts) > 0 {
			return &SeatConflictError{SeatIDs: conflicts}
		}

		now := time.Now()
		hold = &Hold{
			ID:           uuid.New(),
			EventID:      eventID,
			BuyerSession: buyerSession,
			ExpiresAt:    now.Add(ttl),
		}
		if err := tx.Create(hold).Error; err != nil {
			return fmt.Errorf("failed to create hold: %w", err)
		}

		holdSeats := make([]HoldSeat, 0, len(seatIDs))
		for _, id := range seatIDs {
			holdSeats = append(holdSeats, HoldSeat{
				HoldID:      hold.ID,
				SeatID:      id,
				PriceAtHold: found[id].BasePrice,
			})
		}
		if err := tx.Create(&holdSeats).Error; err != nil {
			return fmt.Errorf("failed to create hold seats: %w", err)
		}

		err = tx.Model(&seats.Seat{}).
			Where("id IN ?", seatIDs).
			Updates(map[string]interface{}{
				"status":  seats.StatusHeld,
				"hold_id": hold.ID,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to mark seats held: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

func (r *repository) GetHold(ctx context.Context, holdID uuid.UUID) (*Hold, error) {
	var hold Hold
	err := r.db.WithContext(ctx).First(&hold, "id = ?", holdID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, err
	}
	return &hold, nil
}

func (r *repository) GetHoldSeats(ctx context.Context, holdID uuid.UUID) ([]HoldSeat, error) {
	var holdSeats []HoldSeat
	err := r.db.WithContext(ctx).
		Where("hold_id = ?", holdID).
		Order("seat_id ASC").
		Find(&holdSeats).Error
	return holdSeats, err
}

func (r *repository) UpdateExpiry(ctx context.Context, holdID uuid.UUID, expiresAt time.Time, extendedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&Hold{}).
		Where("id = ?", holdID).
		Updates(map[string]interface{}{
			"expires_at":       expiresAt,
			"last_extended_at": extendedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHoldNotFound
	}
	return nil
}

func (r *repository) ConfirmHold(ctx context.Context, holdID uuid.UUID) (*Snapshot, error) {
	var snapshot *Snapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hold Hold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&hold, "id = ?", holdID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldNotFound
			}
			return err
		}
		if hold.IsExpired(time.Now()) {
			return ErrHoldExpired
		}

		var holdSeats []HoldSeat
		if err := tx.Where("hold_id = ?", hold.ID).Order("seat_id ASC").Find(&holdSeats).Error; err != nil {
			return fmt.Errorf("failed to load hold seats: %w", err)
		}

		err = tx.Model(&seats.Seat{}).
			Where("hold_id = ?", hold.ID).
			Updates(map[string]interface{}{
				"status":  seats.StatusConfirmed,
				"hold_id": nil,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to confirm seats: %w", err)
		}

		if err := tx.Where("hold_id = ?", hold.ID).Delete(&HoldSeat{}).Error; err != nil {
			return fmt.Errorf("failed to remove hold seats: %w", err)
		}
		if err := tx.Delete(&hold).Error; err != nil {
			return fmt.Errorf("failed to remove hold: %w", err)
		}

		snapshot = &Snapshot{
			HoldID:       hold.ID,
			EventID:      hold.EventID,
			BuyerSession: hold.BuyerSession,
			Seats:        holdSeats,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *repository) ReleaseHold(ctx context.Context, holdID uuid.UUID) (int, error) {
	released := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hold Hold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&hold, "id = ?", holdID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already released
			}
			return err
		}

		n, err := releaseLocked(tx, &hold)
		if err != nil {
			return err
		}
		released = n
		return nil
	})
	return released, err
}

func (r *repository) SweepExpired(ctx context.Context, now time.Time, batchSize int) (int, []uuid.UUID, error) {
	released := 0
	var eventIDs []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SKIP LOCKED keeps the sweep from fighting an in-flight confirm or
		// release on the same hold row.
		var expired []Hold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("expires_at <= ?", now).
			Order("expires_at ASC").
			Limit(batchSize).
			Find(&expired).Error
		if err != nil {
			return fmt.Errorf("failed to find expired holds: %w", err)
		}

		seen := make(map[uuid.UUID]bool)
		for i := range expired {
			if _, err := releaseLocked(tx, &expired[i]); err != nil {
				return err
			}
			released++
			if !seen[expired[i].EventID] {
				seen[expired[i].EventID] = true
				eventIDs = append(eventIDs, expired[i].EventID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return released, eventIDs, nil
}

// releaseLocked returns a hold's seats to AVAILABLE and removes the hold.
// Callers must already hold the row lock on the hold.
func releaseLocked(tx *gorm.DB, hold *Hold) (int, error) {
	result := tx.Model(&seats.Seat{}).
		Where("hold_id = ? AND status = ?", hold.ID, seats.StatusHeld).
		Updates(map[string]interface{}{
			"status":  seats.StatusAvailable,
			"hold_id": nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to release seats: %w", result.Error)
	}

	if err := tx.Where("hold_id = ?", hold.ID).Delete(&HoldSeat{}).Error; err != nil {
		return 0, fmt.Errorf("failed to remove hold seats: %w", err)
	}
	if err := tx.Delete(hold).Error; err != nil {
		return 0, fmt.Errorf("failed to remove hold: %w", err)
	}
	return int(result.RowsAffected), nil
}
