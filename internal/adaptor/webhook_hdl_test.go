package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/usecase"

	"go.uber.org/zap"
)

type stubSettlement struct {
	err    error
	events []*gateway.Event
}

func (s *stubSettlement) SettleCheckout(ctx context.Context, event *gateway.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

const testWebhookSecret = "whsec_test"

func signedWebhookRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", gateway.SignPayload(payload, testWebhookSecret, time.Now()))
	return req
}

func TestHandleWebhookAcknowledges(t *testing.T) {
	service := &stubSettlement{}
	handler := NewWebhookHandler(service, testWebhookSecret, zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	rec := httptest.NewRecorder()

	handler.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Received bool `json:"received"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Received {
		t.Errorf("received = false, want true")
	}

	if len(service.events) != 1 || service.events[0].ID != "evt_1" {
		t.Errorf("settled events = %+v", service.events)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	service := &stubSettlement{}
	handler := NewWebhookHandler(service, testWebhookSecret, zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", gateway.SignPayload(payload, "whsec_wrong", time.Now()))

	rec := httptest.NewRecorder()
	handler.HandleWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" {
		t.Errorf("error body missing message")
	}

	if len(service.events) != 0 {
		t.Errorf("unsigned event reached the service")
	}
}

func TestHandleWebhookRequestsRedeliveryOnFailure(t *testing.T) {
	service := &stubSettlement{err: errors.New("database down")}
	handler := NewWebhookHandler(service, testWebhookSecret, zap.NewNop())

	payload := []byte(`{"id":"evt_2","type":"checkout.session.completed","data":{"object":{"id":"cs_2"}}}`)
	rec := httptest.NewRecorder()

	handler.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the gateway redelivers", rec.Code)
	}
}

func TestHandleWebhookBadEventIsNotRetried(t *testing.T) {
	service := &stubSettlement{err: usecase.ErrInvalidRequest}
	handler := NewWebhookHandler(service, testWebhookSecret, zap.NewNop())

	payload := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_3"}}}`)
	rec := httptest.NewRecorder()

	handler.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 so the gateway stops retrying", rec.Code)
	}
}
