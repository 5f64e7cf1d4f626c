package adaptor

import (
	"encoding/json"
	"net/http"

	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BidHandler struct {
	service usecase.BidService
	log     *zap.Logger
}

func NewBidHandler(service usecase.BidService, log *zap.Logger) *BidHandler {
	return &BidHandler{
		service: service,
		log:     log.With(zap.String("handler", "bid")),
	}
}

// PlaceBid handles POST /api/bids
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req request.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.PlaceBid(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "place bid")
		return
	}

	utils.ResponseOK(w, resp)
}

// ListBids handles GET /api/ride-requests/{id}/bids
func (h *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	rideRequestID := chi.URLParam(r, "id")
	if rideRequestID == "" {
		utils.ResponseBadRequest(w, "ride request ID is required")
		return
	}

	bids, err := h.service.ListBids(r.Context(), rideRequestID)
	if err != nil {
		writeServiceError(w, h.log, err, "list bids")
		return
	}

	utils.ResponseOK(w, bids)
}

// AcceptBid handles POST /api/bids/{id}/accept
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	bidID := chi.URLParam(r, "id")
	if bidID == "" {
		utils.ResponseBadRequest(w, "bid ID is required")
		return
	}

	resp, err := h.service.AcceptBid(r.Context(), bidID)
	if err != nil {
		writeServiceError(w, h.log, err, "accept bid")
		return
	}

	utils.ResponseOK(w, resp)
}

// WithdrawBid handles DELETE /api/bids/{id}
func (h *BidHandler) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	bidID := chi.URLParam(r, "id")
	if bidID == "" {
		utils.ResponseBadRequest(w, "bid ID is required")
		return
	}

	if err := h.service.WithdrawBid(r.Context(), bidID); err != nil {
		writeServiceError(w, h.log, err, "withdraw bid")
		return
	}

	utils.ResponseOK(w, map[string]bool{"deleted": true})
}
