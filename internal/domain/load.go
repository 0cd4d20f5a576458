package domain

import (
	"slices"
	"time"
)

// EquipmentType is the trailer or vehicle class a load requires.
type EquipmentType string

const (
	EquipmentDryVan53      EquipmentType = "53ft Dry Van"
	EquipmentBoxTruck26    EquipmentType = "26ft Box Truck"
	EquipmentFullDedicated EquipmentType = "Full Truck Dedicated"
	EquipmentSprinterVan   EquipmentType = "Sprinter Van"
	EquipmentFlatbed       EquipmentType = "Flatbed"
	EquipmentLTL           EquipmentType = "LTL"
)

// EquipmentTypes lists every accepted equipment type in display order.
var EquipmentTypes = []EquipmentType{
	EquipmentDryVan53,
	EquipmentBoxTruck26,
	EquipmentFullDedicated,
	EquipmentSprinterVan,
	EquipmentFlatbed,
	EquipmentLTL,
}

func (e EquipmentType) Valid() bool { return slices.Contains(EquipmentTypes, e) }

// LoadDetails holds every administrator-editable field of a Load.
// An update replaces all of it at once; id and bids are never part of it.
type LoadDetails struct {
	ItemDescriptions  []string      `json:"itemDescriptions"`
	ReferenceNumber   string        `json:"referenceNumber,omitempty"`
	Origin            string        `json:"origin"`
	Destinations      []string      `json:"destinations"`
	DestinationRefs   []string      `json:"destinationRefs,omitempty"`
	PickupDate        string        `json:"pickupDate"`
	DeliveryDate      string        `json:"deliveryDate"`
	PalletCount       int           `json:"palletCount"`
	Weight            int           `json:"weight"`
	EquipmentType     EquipmentType `json:"equipmentType"`
	Details           string        `json:"details"`
	AppointmentDate   string        `json:"appointmentDate,omitempty"`
	AppointmentTime   string        `json:"appointmentTime,omitempty"`
	AppointmentNumber string        `json:"appointmentNumber,omitempty"`
}

// Load is a freight shipment listing open for carrier bidding.
type Load struct {
	ID string `json:"id"`
	LoadDetails
	Bids []Bid `json:"bids"`
}

// Bid is a carrier's offer on a load. Bids are never edited once created.
type Bid struct {
	ID           string    `json:"id"`
	CarrierName  string    `json:"carrierName"`
	Amount       float64   `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
	CarrierEmail string    `json:"carrierEmail,omitempty"`
	TransitDays  int       `json:"transitDays,omitempty"`
}

// BidInput is the carrier-supplied part of a Bid.
type BidInput struct {
	CarrierName  string
	Amount       float64
	CarrierEmail string
	TransitDays  int
}

// LowestBid returns the smallest bid amount, or false when there are no bids.
func (l Load) LowestBid() (float64, bool) {
	if len(l.Bids) == 0 {
		return 0, false
	}
	low := l.Bids[0].Amount
	for _, b := range l.Bids[1:] {
		if b.Amount < low {
			low = b.Amount
		}
	}
	return low, true
}

func (d LoadDetails) Clone() LoadDetails {
	d.ItemDescriptions = slices.Clone(d.ItemDescriptions)
	d.Destinations = slices.Clone(d.Destinations)
	d.DestinationRefs = slices.Clone(d.DestinationRefs)
	return d
}

func (l Load) Clone() Load {
	l.LoadDetails = l.LoadDetails.Clone()
	l.Bids = slices.Clone(l.Bids)
	return l
}
