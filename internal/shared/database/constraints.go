package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints GORM tags cannot express. The
// unique index on seat_hold_seats.seat_id already comes from the model tag;
// what lives here backs the sweep and the seat-status invariants.
func MigrateConstraints(db *gorm.DB) error {
	// The sweep scans by expiry; holds are short-lived so the index stays
	// small even under load.
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seat_holds_expires_at
		ON seat_holds (expires_at);
	`).Error
	if err != nil {
		return err
	}

	// A HELD or CONFIRMED seat without tracking, or an AVAILABLE seat still
	// pointing at a hold, is a state machine violation.
	err = db.Exec(`
		ALTER TABLE seat_inventory
		DROP CONSTRAINT IF EXISTS chk_seat_hold_consistency;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE seat_inventory
		ADD CONSTRAINT chk_seat_hold_consistency
		CHECK (
			(status = 'HELD' AND hold_id IS NOT NULL) OR
			(status != 'HELD' AND hold_id IS NULL)
		);
	`).Error
	if err != nil {
		return err
	}

	// Availability reads filter by event and status together
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seat_inventory_event_status
		ON seat_inventory (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
