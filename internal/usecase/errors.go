package usecase

import (
	"errors"
)

// Service error taxonomy. Handlers dispatch on these with errors.Is; the
// wrapped message carries the specifics.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrItemNotFound     = errors.New("item not found")
	ErrItemInactive     = errors.New("item is not active")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBidNotFound      = errors.New("bid not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
