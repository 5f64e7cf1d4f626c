package entity

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutSession mirrors a gateway-hosted checkout session. SessionID is
// issued by the gateway and doubles as the settlement correlation key.
// Paid/Settled flip exactly once, on the first successful webhook delivery.
type CheckoutSession struct {
	SessionID        string    `db:"session_id"`
	UserID           uuid.UUID `db:"user_id"`
	ItemID           uuid.UUID `db:"item_id"`
	ItemKind         ItemKind  `db:"item_kind"`
	TimeSlot         string    `db:"time_slot"`
	Quantity         int       `db:"quantity"`
	TotalAmount      float64   `db:"total_amount"`
	MilesAmount      int64     `db:"miles_amount"`
	MilesDiscount    float64   `db:"miles_discount"`
	ReferralCode     *string   `db:"referral_code"`
	ReferralDiscount float64   `db:"referral_discount"`
	DiscountType     *string   `db:"discount_type"`
	Paid             bool      `db:"paid"`
	Settled          bool      `db:"settled"`
	CreatedAt        time.Time `db:"created_at"`
}
