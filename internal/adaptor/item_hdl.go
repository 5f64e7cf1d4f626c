package adaptor

import (
	"net/http"

	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service usecase.CapacityService
	log     *zap.Logger
}

func NewItemHandler(service usecase.CapacityService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log.With(zap.String("handler", "item")),
	}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list items")
		return
	}

	utils.ResponseOK(w, items)
}

// GetCapacity handles GET /api/items/{id}/capacity?time_slot=...
func (h *ItemHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "item ID is required")
		return
	}

	resp, err := h.service.GetCapacity(r.Context(), itemID, r.URL.Query().Get("time_slot"))
	if err != nil {
		writeServiceError(w, h.log, err, "get capacity")
		return
	}

	utils.ResponseOK(w, resp)
}
