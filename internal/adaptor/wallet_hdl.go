package adaptor

import (
	"net/http"

	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WalletHandler struct {
	service usecase.WalletService
	log     *zap.Logger
}

func NewWalletHandler(service usecase.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log.With(zap.String("handler", "wallet")),
	}
}

// GetWallet handles GET /api/wallet/{userId}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		utils.ResponseBadRequest(w, "user ID is required")
		return
	}

	resp, err := h.service.GetWallet(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get wallet")
		return
	}

	utils.ResponseOK(w, resp)
}

// GrantSignupBonus handles POST /api/wallet/{userId}/signup-bonus
func (h *WalletHandler) GrantSignupBonus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		utils.ResponseBadRequest(w, "user ID is required")
		return
	}

	resp, err := h.service.GrantSignupBonus(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "grant signup bonus")
		return
	}

	utils.ResponseOK(w, resp)
}

// GetReferralCode handles GET /api/referral-code/{userId}
func (h *WalletHandler) GetReferralCode(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		utils.ResponseBadRequest(w, "user ID is required")
		return
	}

	resp, err := h.service.GetReferralCode(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get referral code")
		return
	}

	utils.ResponseOK(w, resp)
}
