package checkout

import (
	"time"

	"github.com/google/uuid"

	"seatgrid/internal/pricing"
)

// Allocation lifecycle. PENDING is transient inside a single checkout call;
// a crash mid-checkout leaves a PENDING row behind for reconciliation.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusFailed  = "FAILED"
)

// Payment outcomes reported by the payment step
const (
	PaymentCaptured = "CAPTURED"
	PaymentFailed   = "FAILED"
)

// Allocation is the durable record of a checkout attempt with its full price
// breakdown frozen at confirmation time.
type Allocation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	HoldID         uuid.UUID `gorm:"type:uuid;index;not null" json:"hold_id"`
	BuyerSession   string    `gorm:"type:varchar(100)" json:"buyer_session"`
	PromoCode      *string   `gorm:"type:varchar(50)" json:"promo_code,omitempty"`
	BaseTotal      int64     `gorm:"not null" json:"base_total"`
	Discount       int64     `gorm:"not null;default:0" json:"discount"`
	ConvenienceFee int64     `gorm:"not null" json:"convenience_fee"`
	TaxAmount      int64     `gorm:"not null" json:"tax_amount"`
	GrandTotal     int64     `gorm:"not null" json:"grand_total"`
	Status         string    `gorm:"type:varchar(20);check:status IN ('PENDING', 'PAID', 'FAILED');default:'PENDING';index" json:"status"`
	FailureReason  *string   `gorm:"type:varchar(200)" json:"failure_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the table name for Allocation
func (Allocation) TableName() string {
	return "allocations"
}

// AllocationSeat records one seat of an allocation with its held price
type AllocationSeat struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AllocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"allocation_id"`
	SeatID       uuid.UUID `gorm:"type:uuid;index;not null" json:"seat_id"`
	PriceAtHold  int64     `gorm:"not null" json:"price_at_hold"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName sets the table name for AllocationSeat
func (AllocationSeat) TableName() string {
	return "allocation_seats"
}

// Request/response models

type ConfirmRequest struct {
	HoldID        string `json:"hold_id" binding:"required"`
	PromoCode     string `json:"promo_code"`
	PaymentStatus string `json:"payment_status" binding:"required,oneof=CAPTURED FAILED"`
}

type ConfirmResponse struct {
	AllocationID string        `json:"allocation_id"`
	EventID      string        `json:"event_id"`
	SeatIDs      []string      `json:"seat_ids"`
	PromoCode    *string       `json:"promo_code,omitempty"`
	Quote        pricing.Quote `json:"quote"`
	Status       string        `json:"status"`
}

type AllocationResponse struct {
	AllocationID string        `json:"allocation_id"`
	EventID      string        `json:"event_id"`
	HoldID       string        `json:"hold_id"`
	SeatIDs      []string      `json:"seat_ids"`
	PromoCode    *string       `json:"promo_code,omitempty"`
	Quote        pricing.Quote `json:"quote"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (a *Allocation) quote() pricing.Quote {
	return pricing.Quote{
		BaseTotal:      a.BaseTotal,
		Discount:       a.Discount,
		DiscountedBase: a.BaseTotal - a.Discount,
		ConvenienceFee: a.ConvenienceFee,
		TaxAmount:      a.TaxAmount,
		GrandTotal:     a.GrandTotal,
	}
}
