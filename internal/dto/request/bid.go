package request

type PlaceBidRequest struct {
	RideRequestID string  `json:"rideRequestId" validate:"required,uuid4"`
	DriverID      string  `json:"driverId" validate:"required,uuid4"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Notes         string  `json:"notes,omitempty" validate:"max=500"`
}
