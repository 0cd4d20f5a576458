package dto

type DistanceResponse struct {
	LoadID string   `json:"loadId"`
	Miles  *float64 `json:"miles"`
	Error  string   `json:"error,omitempty"`
}

type ListDistancesResponse struct {
	Distances []DistanceResponse `json:"distances"`
}
