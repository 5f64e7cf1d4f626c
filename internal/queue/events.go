package queue

import (
	"time"
)

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingRefunded  = "booking.refunded"
)

// BookingConfirmedEvent is published after a settlement commits.
type BookingConfirmedEvent struct {
	BookingID     string    `json:"booking_id"`
	BookingRef    string    `json:"booking_ref"`
	UserID        string    `json:"user_id"`
	ItemID        string    `json:"item_id"`
	ItemKind      string    `json:"item_kind"`
	TimeSlot      string    `json:"time_slot,omitempty"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	MilesRedeemed int64     `json:"miles_redeemed,omitempty"`
	NeedsReview   bool      `json:"needs_review,omitempty"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// BookingRefundedEvent is published after a refund commits.
type BookingRefundedEvent struct {
	BookingID      string    `json:"booking_id"`
	BookingRef     string    `json:"booking_ref"`
	UserID         string    `json:"user_id"`
	ItemID         string    `json:"item_id"`
	AmountCredited float64   `json:"amount_credited"`
	MilesReturned  int64     `json:"miles_returned,omitempty"`
	RefundedAt     time.Time `json:"refunded_at"`
}
