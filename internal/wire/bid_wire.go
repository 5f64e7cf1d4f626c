package wire

import (
	"shuttle-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBid(r chi.Router, bidHandler *adaptor.BidHandler) {
	// POST /api/bids - Place or replace a driver's bid
	r.Post("/api/bids", bidHandler.PlaceBid)

	// GET /api/ride-requests/{id}/bids - All bids on a ride request, lowest first
	r.Get("/api/ride-requests/{id}/bids", bidHandler.ListBids)

	// POST /api/bids/{id}/accept - Accept one bid, reject the rest
	r.Post("/api/bids/{id}/accept", bidHandler.AcceptBid)

	// DELETE /api/bids/{id} - Withdraw an active bid
	r.Delete("/api/bids/{id}", bidHandler.WithdrawBid)
}
