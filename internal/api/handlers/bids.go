package handlers

import (
	"loadboard-service/internal/adapters/notify"
	"loadboard-service/internal/api/dto"
	"loadboard-service/internal/services"
	"net/http"
)

// BidHandler records a carrier's bid and returns the email draft the
// carrier sends to confirm it.
type BidHandler struct {
	Store     *services.LoadStore
	Recipient string
}

func (h *BidHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BidRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	loadID := r.PathValue("id")
	bid, err := h.Store.AddBid(r.Context(), loadID, req.ToInput())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	// The load can vanish between AddBid and here; the bid still stands.
	res := dto.BidResponse{Bid: bid}
	if load, err := h.Store.GetLoad(loadID); err == nil {
		d := notify.BidDraft(h.Recipient, load, bid)
		res.Draft = dto.DraftResponse{To: d.To, Subject: d.Subject, Body: d.Body, Mailto: d.MailtoURL()}
	}

	writeJSON(w, r, http.StatusCreated, res)
}
