package wire

import (
	"shuttle-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, handler *adaptor.Handler) {
	// ==================== PAYMENT FLOW ====================
	// POST /create-checkout - Build a hosted checkout session
	r.Post("/create-checkout", handler.Checkout.CreateCheckout)

	// POST /webhook - Gateway settlement callback (signed)
	r.Post("/webhook", handler.Webhook.HandleWebhook)

	// POST /process-refund - Reverse one booking or a whole route
	r.Post("/process-refund", handler.Refund.ProcessRefund)

	// ==================== CATALOG ====================
	// GET /api/items - Active routes and deals
	r.Get("/api/items", handler.Item.ListItems)

	// GET /api/items/{id}/capacity - Slot occupancy and threshold state
	r.Get("/api/items/{id}/capacity", handler.Item.GetCapacity)

	// ==================== WALLET ====================
	// GET /api/wallet/{userId} - Balances and recent ledger entries
	r.Get("/api/wallet/{userId}", handler.Wallet.GetWallet)

	// POST /api/wallet/{userId}/signup-bonus - One-time welcome miles
	r.Post("/api/wallet/{userId}/signup-bonus", handler.Wallet.GrantSignupBonus)

	// GET /api/referral-code/{userId} - User's shareable referral code
	r.Get("/api/referral-code/{userId}", handler.Wallet.GetReferralCode)
}
