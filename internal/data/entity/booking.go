package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

type Booking struct {
	Base
	Ref             string        `db:"ref"`
	SessionID       string        `db:"session_id"`
	UserID          uuid.UUID     `db:"user_id"`
	ItemID          uuid.UUID     `db:"item_id"`
	ItemKind        ItemKind      `db:"item_kind"`
	TimeSlot        string        `db:"time_slot"`
	Quantity        int           `db:"quantity"`
	TotalPrice      float64       `db:"total_price"`
	Status          BookingStatus `db:"status"`
	PaymentIntentID *string       `db:"payment_intent_id"`
	MilesRedeemed   int64         `db:"miles_redeemed"`
	DiscountCode    *string       `db:"discount_code"`
	DiscountAmount  float64       `db:"discount_amount"`
	DiscountType    *string       `db:"discount_type"`
	// NeedsReview marks a booking settled after its slot was already full.
	// The payment was captured, so the row is kept for manual reconciliation.
	NeedsReview bool `db:"needs_review"`
}
