package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Hold is an exclusive time-boxed claim on a set of seats. It lives in
// Postgres rather than in a cache TTL so holds survive restarts and the
// sweeper can work from the persisted expiry.
type Hold struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	BuyerSession   string     `gorm:"type:varchar(100);index" json:"buyer_session"`
	ExpiresAt      time.Time  `gorm:"index;not null" json:"expires_at"`
	LastExtendedAt *time.Time `json:"last_extended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName sets the table name for Hold
func (Hold) TableName() string {
	return "seat_holds"
}

func (h *Hold) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// HoldSeat links one seat to a hold and snapshots its price at hold time.
// The unique index on seat_id is the database-level guarantee that a seat is
// never claimed by two live holds.
type HoldSeat struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HoldID      uuid.UUID `gorm:"type:uuid;index;not null" json:"hold_id"`
	SeatID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"seat_id"`
	PriceAtHold int64     `gorm:"not null" json:"price_at_hold"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name for HoldSeat
func (HoldSeat) TableName() string {
	return "seat_hold_seats"
}

// Request/response models

type ReserveRequest struct {
	SeatIDs      []string `json:"seat_ids" binding:"required,min=1"`
	BuyerSession string   `json:"buyer_session"`
}

type HoldResponse struct {
	HoldID     string    `json:"hold_id"`
	EventID    string    `json:"event_id"`
	SeatIDs    []string  `json:"seat_ids"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
	Extended   bool      `json:"extended,omitempty"`
}

type ReleaseResponse struct {
	SeatsReleased int `json:"seats_released"`
}

// Snapshot is what checkout consumes when a hold is confirmed: the seat set
// with the prices captured at reservation time.
type Snapshot struct {
	HoldID       uuid.UUID
	EventID      uuid.UUID
	BuyerSession string
	Seats        []HoldSeat
}
