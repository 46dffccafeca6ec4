package api

import (
	"log/slog"
	"net/http"

	"github.com/mabuhanifa/aahaar-backend/internal/payment"
)

// PaymentsHandler handles payment gateway callbacks.
type PaymentsHandler struct {
	Payments *payment.Service
}

type webhookRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// Webhook handles POST /api/payments/webhook. The gateway reports the
// outcome of a payment intent; the donation moves along with it.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TransactionID == "" || req.Status == "" {
		jsonError(w, http.StatusBadRequest, "transaction_id and status required")
		return
	}

	if err := h.Payments.HandleGatewayEvent(r.Context(), req.TransactionID, req.Status); err != nil {
		serviceError(w, err)
		return
	}

	slog.Info("gateway event processed", "transaction", req.TransactionID, "status", req.Status)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "processed"})
}
