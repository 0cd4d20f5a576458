package handlers

import (
	"loadboard-service/internal/api/dto"
	"loadboard-service/internal/ports"
	"loadboard-service/internal/services"
	"math"
	"net/http"
)

// DistanceHandler estimates route miles for loads. It never touches state.
type DistanceHandler struct {
	Store    *services.LoadStore
	Geocoder ports.Geocoder
}

func (h *DistanceHandler) ForLoad(w http.ResponseWriter, r *http.Request) {
	load, err := h.Store.GetLoad(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	miles, err := services.TotalDistance(r.Context(), h.Geocoder, load.Origin, load.Destinations)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	m := roundMiles(miles)
	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{LoadID: load.ID, Miles: &m})
}

func (h *DistanceHandler) All(w http.ResponseWriter, r *http.Request) {
	results, err := services.LoadDistances(r.Context(), h.Geocoder, h.Store.ListLoads(services.OrderPosted))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	res := dto.ListDistancesResponse{Distances: make([]dto.DistanceResponse, 0, len(results))}
	for _, d := range results {
		item := dto.DistanceResponse{LoadID: d.LoadID}
		if d.Err != nil {
			item.Error = "unresolvable"
		} else {
			m := roundMiles(d.Miles)
			item.Miles = &m
		}
		res.Distances = append(res.Distances, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func roundMiles(m float64) float64 { return math.Round(m*10) / 10 }
