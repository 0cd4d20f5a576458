package handlers

import (
	"loadboard-service/internal/api/dto"
	"loadboard-service/internal/services"
	"net/http"
)

type SubscriptionHandler struct {
	Store *services.LoadStore
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Store.SubscribeCarrierEmail(r.Context(), req.Email); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "subscribed"})
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ListSubscriptionsResponse{Emails: h.Store.CarrierEmails()})
}
