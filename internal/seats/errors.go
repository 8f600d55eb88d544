package seats

import "errors"

var (
	// ErrSeatsAllocated rejects floor-plan regeneration while any seat of the
	// event is HELD or CONFIRMED.
	ErrSeatsAllocated = errors.New("event has held or confirmed seats")

	// ErrEmptyFloorPlan rejects templates that generate zero seats
	ErrEmptyFloorPlan = errors.New("template generates no seats")
)
