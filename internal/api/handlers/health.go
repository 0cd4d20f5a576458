package handlers

import (
	"loadboard-service/internal/services"
	"net/http"
)

type HealthResponse struct {
	Status      string `json:"status"`
	Loads       int    `json:"loads"`
	Subscribers int    `json:"subscribers"`
}

// HealthHandler reports liveness along with the size of the in-memory board.
type HealthHandler struct {
	Store *services.LoadStore
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := HealthResponse{Status: "ok"}
	if h.Store != nil {
		res.Loads = len(h.Store.ListLoads(services.OrderPosted))
		res.Subscribers = len(h.Store.CarrierEmails())
	}
	writeJSON(w, r, http.StatusOK, res)
}
