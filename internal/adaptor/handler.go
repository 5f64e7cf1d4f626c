// Package adaptor contains the HTTP handlers. Handlers decode and validate
// transport concerns, delegate to the usecase services, and translate service
// errors into the shared {"error": "..."} contract.
package adaptor

import (
	"errors"
	"net/http"

	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Checkout *CheckoutHandler
	Webhook  *WebhookHandler
	Refund   *RefundHandler
	Bid      *BidHandler
	Wallet   *WalletHandler
	Item     *ItemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Checkout: NewCheckoutHandler(service.Checkout, log),
		Webhook:  NewWebhookHandler(service.Settlement, config.Gateway.WebhookSecret, log),
		Refund:   NewRefundHandler(service.Refund, log),
		Bid:      NewBidHandler(service.Bid, log),
		Wallet:   NewWalletHandler(service.Wallet, log),
		Item:     NewItemHandler(service.Capacity, log),
	}
}

// writeServiceError maps service errors onto HTTP statuses. Anything the
// client can fix is 400, missing resources are 404, gateway outages and
// everything unexpected are 500 with the detail kept out of the body.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest),
		errors.Is(err, usecase.ErrItemInactive),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrCapacityExceeded):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error())

	case errors.Is(err, usecase.ErrItemNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrBidNotFound):
		log.Warn(operation+" target not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, gateway.ErrGateway):
		log.Error(operation+" failed at payment gateway", zap.Error(err))
		utils.ResponseInternalError(w, "payment gateway unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "internal server error")
	}
}

// writePaymentError is writeServiceError for the payment endpoints, whose
// public contract is a flat 400 {"error"} for every caller-visible failure,
// missing resources included.
func writePaymentError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrItemNotFound),
		errors.Is(err, usecase.ErrBookingNotFound):
		log.Warn(operation+" target not found", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error())

	default:
		writeServiceError(w, log, err, operation)
	}
}
