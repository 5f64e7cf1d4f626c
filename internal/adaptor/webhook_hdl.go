package adaptor

import (
	"errors"
	"io"
	"net/http"

	"shuttle-booking/internal/dto/response"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"go.uber.org/zap"
)

// Gateway webhook payloads are small; anything larger is not ours.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	service usecase.SettlementService
	secret  string
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.SettlementService, secret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		secret:  secret,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandleWebhook handles POST /webhook. The gateway retries on any non-2xx,
// so transient settlement failures return 500 to get a redelivery, while
// signature and payload problems return 400 because retrying cannot fix them.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "unreadable request body")
		return
	}

	event, err := gateway.ParseEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			h.log.Warn("Webhook signature rejected", zap.Error(err))
		} else {
			h.log.Warn("Webhook payload rejected", zap.Error(err))
		}
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	if err := h.service.SettleCheckout(r.Context(), event); err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			h.log.Warn("Webhook event rejected",
				zap.Error(err),
				zap.String("event_id", event.ID),
			)
			utils.ResponseBadRequest(w, err.Error())
			return
		}

		h.log.Error("Settlement failed, requesting redelivery",
			zap.Error(err),
			zap.String("event_id", event.ID),
		)
		utils.ResponseInternalError(w, "settlement failed")
		return
	}

	utils.ResponseOK(w, response.WebhookResponse{Received: true})
}
