package promos

import (
	"time"

	"github.com/google/uuid"

	"seatgrid/internal/pricing"
)

// PromoCode is a discount definition with an active window and an optional
// usage cap. Usage is counted on confirmed checkouts only.
type PromoCode struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code           string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountType   pricing.DiscountType `gorm:"type:varchar(20);check:discount_type IN ('FIXED', 'PERCENT');not null" json:"discount_type"`
	DiscountValue  float64              `gorm:"not null" json:"discount_value"`
	MinOrderAmount int64                `gorm:"not null;default:0" json:"min_order_amount"`
	StartsAt       time.Time            `gorm:"not null" json:"starts_at"`
	EndsAt         time.Time            `gorm:"not null" json:"ends_at"`
	UsageCap       *int                 `json:"usage_cap,omitempty"`
	UsageCount     int                  `gorm:"not null;default:0" json:"usage_count"`
	IsActive       bool                 `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// TableName sets the table name for PromoCode
func (PromoCode) TableName() string {
	return "promo_codes"
}

// ToPromo converts a validated code into the descriptor the pricing engine
// consumes.
func (p *PromoCode) ToPromo() pricing.Promo {
	return pricing.Promo{
		Code:   p.Code,
		Type:   p.DiscountType,
		Amount: p.DiscountValue,
	}
}

// Request/response models

type ApplyRequest struct {
	Code        string `json:"code" binding:"required"`
	OrderAmount int64  `json:"order_amount" binding:"required,min=0"`
}

type ApplyResponse struct {
	Code        string               `json:"code"`
	Type        pricing.DiscountType `json:"type"`
	Discount    int64                `json:"discount"`
	FinalAmount int64                `json:"final_amount"`
}

type ActivePromoResponse struct {
	Code           string               `json:"code"`
	Type           pricing.DiscountType `json:"type"`
	Value          float64              `json:"value"`
	MinOrderAmount int64                `json:"min_order_amount"`
	EndsAt         time.Time            `json:"ends_at"`
}
