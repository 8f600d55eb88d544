package promos

import "errors"

// Validation failures, one per rejection reason. Checked in a fixed order:
// existence, active window, minimum order, usage cap.
var (
	ErrPromoNotFound = errors.New("promo code not found")
	ErrPromoInactive = errors.New("promo code is not active")
	ErrMinimumNotMet = errors.New("order amount below promo minimum")
	ErrUsageExceeded = errors.New("promo code usage cap reached")
)
