package adaptor

import (
	"encoding/json"
	"net/http"

	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"go.uber.org/zap"
)

type CheckoutHandler struct {
	service usecase.CheckoutService
	log     *zap.Logger
}

func NewCheckoutHandler(service usecase.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "checkout")),
	}
}

// CreateCheckout handles POST /create-checkout
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.CreateCheckout(r.Context(), &req)
	if err != nil {
		writePaymentError(w, h.log, err, "create checkout")
		return
	}

	utils.ResponseOK(w, resp)
}
