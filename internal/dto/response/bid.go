package response

import (
	"time"

	"shuttle-booking/internal/data/entity"
)

type BidResponse struct {
	ID            string           `json:"id"`
	RideRequestID string           `json:"ride_request_id"`
	DriverID      string           `json:"driver_id"`
	Amount        float64          `json:"amount"`
	Status        entity.BidStatus `json:"status"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func BidToResponse(bid *entity.DriverBid) BidResponse {
	return BidResponse{
		ID:            bid.ID.String(),
		RideRequestID: bid.RideRequestID.String(),
		DriverID:      bid.DriverID.String(),
		Amount:        bid.Amount,
		Status:        bid.Status,
		Notes:         bid.Notes,
		CreatedAt:     bid.CreatedAt,
		UpdatedAt:     bid.UpdatedAt,
	}
}
