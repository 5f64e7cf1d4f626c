package response

// RefundError reports one failed booking inside a bulk refund.
type RefundError struct {
	BookingID string `json:"booking_id"`
	Error     string `json:"error"`
}

// RefundResponse is returned by POST /process-refund. For bulk refunds,
// Errors lists the bookings that could not be reversed; the rest were
// processed regardless.
type RefundResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Refunded int           `json:"refunded,omitempty"`
	Errors   []RefundError `json:"errors,omitempty"`
}
