package domain

import (
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	MaxItemDescriptions = 6
	MinDestinations     = 1
	MaxDestinations     = 3

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)

// ValidEmail reports whether s has exactly one @, a non-empty local part and
// a dotted domain with no empty labels, and no whitespace anywhere.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeDetails trims text fields and drops blank item descriptions, then
// validates the result against the Load invariants.
func NormalizeDetails(d LoadDetails) (LoadDetails, error) {
	d = d.Clone()

	items := make([]string, 0, len(d.ItemDescriptions))
	for _, it := range d.ItemDescriptions {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	d.ItemDescriptions = items

	d.ReferenceNumber = strings.TrimSpace(d.ReferenceNumber)
	d.Origin = strings.TrimSpace(d.Origin)
	for i := range d.Destinations {
		d.Destinations[i] = strings.TrimSpace(d.Destinations[i])
	}
	if len(d.DestinationRefs) == 0 {
		d.DestinationRefs = nil
	}
	for i := range d.DestinationRefs {
		d.DestinationRefs[i] = strings.TrimSpace(d.DestinationRefs[i])
	}
	d.PickupDate = strings.TrimSpace(d.PickupDate)
	d.DeliveryDate = strings.TrimSpace(d.DeliveryDate)
	d.AppointmentDate = strings.TrimSpace(d.AppointmentDate)
	d.AppointmentTime = strings.TrimSpace(d.AppointmentTime)
	d.AppointmentNumber = strings.TrimSpace(d.AppointmentNumber)

	if err := ValidateDetails(d); err != nil {
		return LoadDetails{}, err
	}
	return d, nil
}

// ValidateDetails checks the Load invariants without modifying d.
func ValidateDetails(d LoadDetails) error {
	if len(d.ItemDescriptions) == 0 {
		return invalid("itemDescriptions", "at least one item description is required")
	}
	if len(d.ItemDescriptions) > MaxItemDescriptions {
		return invalid("itemDescriptions", "at most %d item descriptions are allowed", MaxItemDescriptions)
	}
	for i, it := range d.ItemDescriptions {
		if strings.TrimSpace(it) == "" {
			return invalid("itemDescriptions", "entry %d is blank", i)
		}
	}

	if strings.TrimSpace(d.Origin) == "" {
		return invalid("origin", "origin is required")
	}

	if n := len(d.Destinations); n < MinDestinations || n > MaxDestinations {
		return invalid("destinations", "must have between %d and %d entries, got %d", MinDestinations, MaxDestinations, n)
	}
	for i, dest := range d.Destinations {
		if strings.TrimSpace(dest) == "" {
			return invalid("destinations", "entry %d is blank", i)
		}
	}
	if d.DestinationRefs != nil && len(d.DestinationRefs) != len(d.Destinations) {
		return invalid("destinationRefs", "length %d does not match %d destinations", len(d.DestinationRefs), len(d.Destinations))
	}

	if err := validDate("pickupDate", d.PickupDate, true); err != nil {
		return err
	}
	if err := validDate("deliveryDate", d.DeliveryDate, true); err != nil {
		return err
	}

	if d.PalletCount < 0 {
		return invalid("palletCount", "must not be negative")
	}
	if d.Weight < 0 {
		return invalid("weight", "must not be negative")
	}
	if !d.EquipmentType.Valid() {
		return invalid("equipmentType", "unknown equipment type %q", d.EquipmentType)
	}

	if err := validDate("appointmentDate", d.AppointmentDate, false); err != nil {
		return err
	}
	if d.AppointmentTime != "" {
		if _, err := time.Parse(TimeLayout, d.AppointmentTime); err != nil {
			return invalid("appointmentTime", "must be HH:MM, got %q", d.AppointmentTime)
		}
	}

	return nil
}

// ValidateBid checks carrier-supplied bid fields.
func ValidateBid(in BidInput) error {
	if strings.TrimSpace(in.CarrierName) == "" {
		return invalid("carrierName", "carrier name is required")
	}
	if !(in.Amount > 0) {
		return invalid("amount", "must be greater than zero")
	}
	if math.IsInf(in.Amount, 1) {
		return invalid("amount", "must be a finite number")
	}
	if in.CarrierEmail != "" && !ValidEmail(in.CarrierEmail) {
		return invalid("carrierEmail", "%q is not a valid email address", in.CarrierEmail)
	}
	if in.TransitDays < 0 {
		return invalid("transitDays", "must not be negative")
	}
	return nil
}

func validDate(field, v string, required bool) error {
	if v == "" {
		if required {
			return invalid(field, "date is required")
		}
		return nil
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return invalid(field, "must be YYYY-MM-DD, got %q", v)
	}
	return nil
}
