package entity

import (
	"github.com/google/uuid"
)

type BidStatus string

const (
	BidStatusActive   BidStatus = "active"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
	BidStatusExpired  BidStatus = "expired"
)

// DriverBid is a driver's offer on a private ride request. At most one bid
// exists per (ride request, driver); re-bidding replaces amount and notes.
type DriverBid struct {
	Base
	RideRequestID uuid.UUID `db:"ride_request_id"`
	DriverID      uuid.UUID `db:"driver_id"`
	Amount        float64   `db:"amount"`
	Status        BidStatus `db:"status"`
	Notes         string    `db:"notes"`
}
