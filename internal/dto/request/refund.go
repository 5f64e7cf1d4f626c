package request

// ProcessRefundRequest is the body of POST /process-refund. Either BookingID
// for a single refund, or RouteID with RefundAll for bulk reversal.
type ProcessRefundRequest struct {
	BookingID string `json:"bookingId,omitempty"`
	RouteID   string `json:"routeId,omitempty"`
	RefundAll bool   `json:"refundAll,omitempty"`
}
