package database

import (
	"seatgrid/internal/checkout"
	"seatgrid/internal/promos"
	"seatgrid/internal/reservations"
	"seatgrid/internal/seats"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&seats.Seat{},
		&reservations.Hold{},
		&reservations.HoldSeat{},
		&promos.PromoCode{},
		&checkout.Allocation{},
		&checkout.AllocationSeat{},
	)
	if err != nil {
		return err
	}
	return MigrateConstraints(db)
}
