package adaptor

import (
	"encoding/json"
	"net/http"

	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/utils"

	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// ProcessRefund handles POST /process-refund
func (h *RefundHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	var req request.ProcessRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.ProcessRefund(r.Context(), &req)
	if err != nil {
		writePaymentError(w, h.log, err, "process refund")
		return
	}

	utils.ResponseOK(w, resp)
}
