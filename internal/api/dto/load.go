package dto

import "loadboard-service/internal/domain"

// LoadRequest is the body of POST /loads and PUT /loads/{id}.
type LoadRequest struct {
	ItemDescriptions  []string `json:"itemDescriptions"`
	ReferenceNumber   string   `json:"referenceNumber"`
	Origin            string   `json:"origin"`
	Destinations      []string `json:"destinations"`
	DestinationRefs   []string `json:"destinationRefs"`
	PickupDate        string   `json:"pickupDate"`
	DeliveryDate      string   `json:"deliveryDate"`
	PalletCount       int      `json:"palletCount"`
	Weight            int      `json:"weight"`
	EquipmentType     string   `json:"equipmentType"`
	Details           string   `json:"details"`
	AppointmentDate   string   `json:"appointmentDate"`
	AppointmentTime   string   `json:"appointmentTime"`
	AppointmentNumber string   `json:"appointmentNumber"`
}

func (r LoadRequest) ToDetails() domain.LoadDetails {
	return domain.LoadDetails{
		ItemDescriptions:  r.ItemDescriptions,
		ReferenceNumber:   r.ReferenceNumber,
		Origin:            r.Origin,
		Destinations:      r.Destinations,
		DestinationRefs:   r.DestinationRefs,
		PickupDate:        r.PickupDate,
		DeliveryDate:      r.DeliveryDate,
		PalletCount:       r.PalletCount,
		Weight:            r.Weight,
		EquipmentType:     domain.EquipmentType(r.EquipmentType),
		Details:           r.Details,
		AppointmentDate:   r.AppointmentDate,
		AppointmentTime:   r.AppointmentTime,
		AppointmentNumber: r.AppointmentNumber,
	}
}

// LoadResponse is a stored load plus a bid summary for list views.
type LoadResponse struct {
	domain.Load
	LowestBid *float64 `json:"lowestBid"`
	BidCount  int      `json:"bidCount"`
}

func NewLoadResponse(l domain.Load) LoadResponse {
	res := LoadResponse{Load: l, BidCount: len(l.Bids)}
	if res.Bids == nil {
		res.Bids = []domain.Bid{}
	}
	if low, ok := l.LowestBid(); ok {
		res.LowestBid = &low
	}
	return res
}

type ListLoadsResponse struct {
	Loads []LoadResponse `json:"loads"`
}
