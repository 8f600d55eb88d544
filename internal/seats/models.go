package seats

import (
	"time"

	"github.com/google/uuid"

	"seatgrid/internal/floorplan"
)

// Seat allocation states. AVAILABLE -> HELD -> CONFIRMED is the only forward
// path; HELD falls back to AVAILABLE on release or expiry. CONFIRMED is
// terminal for this engine.
const (
	StatusAvailable = "AVAILABLE"
	StatusHeld      = "HELD"
	StatusConfirmed = "CONFIRMED"
)

// Seat is the durable record of one addressable seat for an event. Static
// attributes come from floor-plan generation; Status and HoldID carry the
// current allocation state.
type Seat struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID     uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_event_seat" json:"event_id"`
	Section     string     `gorm:"not null;uniqueIndex:idx_event_seat" json:"section"`
	RowLabel    string     `gorm:"not null;uniqueIndex:idx_event_seat" json:"row_label"`
	SeatNumber  int        `gorm:"not null;uniqueIndex:idx_event_seat" json:"seat_number"`
	SeatClass   string     `gorm:"type:varchar(50);not null;default:'STANDARD'" json:"seat_class"`
	BasePrice   int64      `gorm:"not null" json:"base_price"`
	X           float64    `gorm:"not null;default:0" json:"x"`
	Y           float64    `gorm:"not null;default:0" json:"y"`
	TemplateRef string     `gorm:"type:varchar(50)" json:"template_ref"`
	Status      string     `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'HELD', 'CONFIRMED');default:'AVAILABLE';index" json:"status"`
	HoldID      *uuid.UUID `gorm:"type:uuid;index" json:"hold_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seat_inventory"
}

func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// FromDescriptor builds an inventory row from a generated descriptor
func FromDescriptor(eventID uuid.UUID, d floorplan.SeatDescriptor) Seat {
	return Seat{
		EventID:     eventID,
		Section:     d.Section,
		RowLabel:    d.RowLabel,
		SeatNumber:  d.SeatNumber,
		SeatClass:   d.SeatClass,
		BasePrice:   d.BasePrice,
		X:           d.X,
		Y:           d.Y,
		TemplateRef: d.TemplateRef,
		Status:      StatusAvailable,
	}
}

// Request/response models

type GenerateRequest struct {
	Template floorplan.Template `json:"template" binding:"required"`
}

type GenerateResponse struct {
	SeatsCreated int `json:"seats_created"`
}

// FloorPlanSeat is the per-seat view on the availability endpoint
type FloorPlanSeat struct {
	ID         string  `json:"id"`
	Section    string  `json:"section"`
	RowLabel   string  `json:"row_label"`
	SeatNumber int     `json:"seat_number"`
	SeatClass  string  `json:"seat_class"`
	BasePrice  int64   `json:"base_price"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Status     string  `json:"status"`
}

// AvailabilityResponse summarizes the live allocation state of an event
type AvailabilityResponse struct {
	TotalSeats     int             `json:"total_seats"`
	HeldCount      int             `json:"held_count"`
	ConfirmedCount int             `json:"confirmed_count"`
	FloorPlan      []FloorPlanSeat `json:"floor_plan"`
}

// ToFloorPlanSeat converts an inventory row to its availability view
func (s *Seat) ToFloorPlanSeat() FloorPlanSeat {
	return FloorPlanSeat{
		ID:         s.ID.String(),
		Section:    s.Section,
		RowLabel:   s.RowLabel,
		SeatNumber: s.SeatNumber,
		SeatClass:  s.SeatClass,
		BasePrice:  s.BasePrice,
		X:          s.X,
		Y:          s.Y,
		Status:     s.Status,
	}
}
