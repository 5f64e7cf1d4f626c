package request

// CreateCheckoutRequest is the body of POST /create-checkout. Field names
// follow the contract the web client already submits.
type CreateCheckoutRequest struct {
	ItemID       string `json:"itemId" validate:"required,uuid4"`
	UserID       string `json:"userId" validate:"required,uuid4"`
	TimeSlot     string `json:"timeSlot,omitempty"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	MilesAmount  int64  `json:"milesAmount,omitempty" validate:"min=0"`
	ReferralCode string `json:"referralCode,omitempty"`
}
