package checkout

import "errors"

var (
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrPaymentFailed      = errors.New("payment was not captured")
)
