package response

// CheckoutResponse returns the gateway-hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// WebhookResponse acknowledges a processed (or safely ignored) event.
type WebhookResponse struct {
	Received bool `json:"received"`
}
