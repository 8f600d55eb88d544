package pricing

import (
	"math"
)

// DiscountType distinguishes flat-amount promos from percentage promos
type DiscountType string

const (
	DiscountFixed   DiscountType = "FIXED"
	DiscountPercent DiscountType = "PERCENT"
)

// Promo is the validated discount descriptor consumed by the engine. For
// FIXED the amount is in minor currency units; for PERCENT it is percentage
// points of the base total.
type Promo struct {
	Code   string       `json:"code"`
	Type   DiscountType `json:"type"`
	Amount float64      `json:"amount"`
}

// SeatPrice is the minimal seat view the engine needs
type SeatPrice struct {
	SeatID    string `json:"seat_id"`
	BasePrice int64  `json:"base_price"`
}

// Quote is the itemized result, all amounts in minor currency units. It is
// derived, never persisted: seat selection or promo state can change between
// checkout steps, so every step recomputes.
type Quote struct {
	BaseTotal      int64 `json:"base_total"`
	Discount       int64 `json:"discount"`
	DiscountedBase int64 `json:"discounted_base"`
	ConvenienceFee int64 `json:"convenience_fee"`
	TaxAmount      int64 `json:"tax_amount"`
	GrandTotal     int64 `json:"grand_total"`
}

// Policy holds the fee and tax percentages. Fee and tax are both computed on
// the undiscounted base: the platform fee is not discounted away, and tax is
// never charged on the fee.
type Policy struct {
	ConvenienceFeePercent float64
	ConvenienceFeeFlat    int64
	TaxPercent            float64
}

// DefaultPolicy matches the reference behavior: 2% + 15 convenience fee,
// 18% tax.
func DefaultPolicy() Policy {
	return Policy{
		ConvenienceFeePercent: 2.0,
		ConvenienceFeeFlat:    15,
		TaxPercent:            18.0,
	}
}

// Engine computes price quotes. It carries no mutable state; identical
// inputs always produce identical quotes, which checkout relies on for
// idempotent retries.
type Engine struct {
	policy Policy
}

// NewEngine creates a pricing engine with the given policy
func NewEngine(policy Policy) Engine {
	return Engine{policy: policy}
}

// Quote computes the itemized total for a seat set and an optional promo.
// The promo must already have been validated; a nil promo means no discount.
func (e Engine) Quote(seats []SeatPrice, promo *Promo) Quote {
	var base int64
	for _, seat := range seats {
		base += seat.BasePrice
	}

	discount := DiscountOn(promo, base)

	fee := roundMinor(float64(base)*e.policy.ConvenienceFeePercent/100) + e.policy.ConvenienceFeeFlat
	tax := roundMinor(float64(base) * e.policy.TaxPercent / 100)

	return Quote{
		BaseTotal:      base,
		Discount:       discount,
		DiscountedBase: base - discount,
		ConvenienceFee: fee,
		TaxAmount:      tax,
		GrandTotal:     base - discount + fee + tax,
	}
}

// DiscountOn clamps the discount into [0, base]: a FIXED promo never
// exceeds the base total and a PERCENT promo never goes negative.
func DiscountOn(promo *Promo, base int64) int64 {
	if promo == nil {
		return 0
	}
	switch promo.Type {
	case DiscountFixed:
		d := roundMinor(promo.Amount)
		if d > base {
			return base
		}
		if d < 0 {
			return 0
		}
		return d
	case DiscountPercent:
		d := roundMinor(float64(base) * promo.Amount / 100)
		if d > base {
			return base
		}
		if d < 0 {
			return 0
		}
		return d
	default:
		return 0
	}
}

// roundMinor rounds to the nearest minor currency unit
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
