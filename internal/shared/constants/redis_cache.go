package constants

import "time"

// Redis cache configuration for the seat inventory engine.
// Pattern: seatgrid:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "seatgrid"
)

// ================== CACHE TTL DURATIONS ==================

const (
	// Availability snapshots change on every hold and confirm, so the cache
	// only absorbs read bursts; correctness comes from invalidation.
	TTL_AVAILABILITY = 30 * time.Second

	// Active promo listings change when codes are created or exhausted
	TTL_PROMOS_ACTIVE = 1 * time.Minute
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":seats:availability:event:" // + event-id
)

// ================== PROMOS MODULE ==================

const (
	CACHE_KEY_PROMOS_ACTIVE = CACHE_PREFIX + ":promos:active"
)

// ================== HELPER FUNCTIONS ==================

func BuildAvailabilityKey(eventID string) string {
	return CACHE_KEY_AVAILABILITY + eventID
}
