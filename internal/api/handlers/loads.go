package handlers

import (
	"loadboard-service/internal/api/dto"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/services"
	"net/http"
)

// LoadHandler exposes load listing and the administrator's load editing.
type LoadHandler struct {
	Store *services.LoadStore
}

func (h *LoadHandler) List(w http.ResponseWriter, r *http.Request) {
	order := services.OrderPosted
	switch r.URL.Query().Get("sort") {
	case "", "posted":
	case "pickup":
		order = services.OrderPickupDesc
	default:
		writeError(w, r, http.StatusBadRequest, "sort must be posted or pickup")
		return
	}

	loads := h.Store.ListLoads(order)

	res := dto.ListLoadsResponse{Loads: make([]dto.LoadResponse, 0, len(loads))}
	for _, l := range loads {
		res.Loads = append(res.Loads, dto.NewLoadResponse(l))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *LoadHandler) Get(w http.ResponseWriter, r *http.Request) {
	load, err := h.Store.GetLoad(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewLoadResponse(load))
}

func (h *LoadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	load, err := h.Store.PostLoad(r.Context(), req.ToDetails())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	w.Header().Set("Location", "/loads/"+load.ID)
	writeJSON(w, r, http.StatusCreated, dto.NewLoadResponse(load))
}

func (h *LoadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	load, err := h.Store.UpdateLoad(r.Context(), domain.Load{
		ID:          r.PathValue("id"),
		LoadDetails: req.ToDetails(),
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewLoadResponse(load))
}

func (h *LoadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveLoad(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
