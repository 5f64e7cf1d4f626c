package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shuttle-booking/pkg/utils"

	"go.uber.org/zap"
)

// Client is a thin REST client for the payment provider. Requests are
// form-encoded and authenticated with the secret key; every call carries a
// timeout so settlement and refund paths never hang on the provider.
type Client struct {
	baseURL   string
	secretKey string
	timeout   time.Duration
	http      *http.Client
	log       *zap.Logger
}

func NewClient(config utils.GatewayConfig, log *zap.Logger) *Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		secretKey: config.SecretKey,
		timeout:   timeout,
		http:      &http.Client{Timeout: timeout},
		log:       log.With(zap.String("component", "gateway")),
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("description", req.Description)
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var session Session
	if err := c.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	c.log.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.Int64("amount_cents", req.AmountCents),
	)

	return &session, nil
}

func (c *Client) CreateRefund(ctx context.Context, paymentIntentID string) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)

	var refund struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/v1/refunds", form, &refund); err != nil {
		return "", err
	}

	c.log.Info("Refund created",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("refund_id", refund.ID),
	)

	return refund.ID, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: build request %s: %v", ErrGateway, path, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("Gateway request failed",
			zap.Error(err),
			zap.String("path", path),
		)
		return fmt.Errorf("%w: %s: %v", ErrGateway, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("%w: read response %s: %v", ErrGateway, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Gateway returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("%w: %s returned %d", ErrGateway, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response %s: %v", ErrGateway, path, err)
	}

	return nil
}
