// Package gateway talks to the hosted payment provider: checkout session
// creation, refunds, and signed webhook events. Amounts cross this boundary
// in integer cents; everything inside the service uses dollars.
package gateway

import (
	"context"
	"errors"
)

// ErrGateway marks any failure of the external payment provider. Callers
// surface it and rely on the provider (or the operator) to retry.
var ErrGateway = errors.New("payment gateway error")

// SessionRequest describes a hosted checkout session to be created.
type SessionRequest struct {
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Session is the gateway's handle on a created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error)
	CreateRefund(ctx context.Context, paymentIntentID string) (string, error)
}
