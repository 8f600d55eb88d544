package reservations

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSeatUnavailable is the sentinel wrapped by SeatConflictError
	ErrSeatUnavailable = errors.New("seat not available")

	ErrHoldNotFound = errors.New("hold not found")
	ErrHoldExpired  = errors.New("hold has expired")
	ErrNoSeats      = errors.New("no seats specified")
	ErrTooManySeats = errors.New("too many seats for a single hold")
)

// SeatConflictError reports exactly which seats blocked a reservation so the
// caller can adjust its selection instead of retrying blind.
type SeatConflictError struct {
	SeatIDs []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats not available: %s", strings.Join(e.SeatIDs, ", "))
}

func (e *SeatConflictError) Unwrap() error {
	return ErrSeatUnavailable
}
