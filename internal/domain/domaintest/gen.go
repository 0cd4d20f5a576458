// Package domaintest provides rapid generators for valid domain values.
package domaintest

import (
	"fmt"
	"loadboard-service/internal/domain"
	"time"

	"pgregory.net/rapid"
)

var places = []string{
	"New York, NY",
	"Los Angeles, CA",
	"Chicago, IL",
	"Dallas, TX",
	"Atlanta, GA",
	"Miami, FL",
	"3487 South Preston Highway, Lebanon Junction, KY 40150",
}

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func word() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Z][a-z0-9]{0,12}`)
}

func date(t *rapid.T, label string) string {
	return baseDate.AddDate(0, 0, rapid.IntRange(0, 720).Draw(t, label)).Format(domain.DateLayout)
}

// Details generates LoadDetails that already satisfy NormalizeDetails
// unchanged: trimmed, within bounds, known equipment.
func Details() *rapid.Generator[domain.LoadDetails] {
	return rapid.Custom(func(t *rapid.T) domain.LoadDetails {
		dests := rapid.SliceOfN(rapid.SampledFrom(places), domain.MinDestinations, domain.MaxDestinations).Draw(t, "destinations")

		d := domain.LoadDetails{
			ItemDescriptions: rapid.SliceOfN(word(), 1, domain.MaxItemDescriptions).Draw(t, "items"),
			Origin:           rapid.SampledFrom(places).Draw(t, "origin"),
			Destinations:     dests,
			PickupDate:       date(t, "pickup"),
			DeliveryDate:     date(t, "delivery"),
			PalletCount:      rapid.IntRange(0, 30).Draw(t, "pallets"),
			Weight:           rapid.IntRange(0, 45000).Draw(t, "weight"),
			EquipmentType:    rapid.SampledFrom(domain.EquipmentTypes).Draw(t, "equipment"),
			Details:          rapid.StringMatching(`[A-Za-z0-9 .,"]{0,40}`).Draw(t, "details"),
		}

		if rapid.Bool().Draw(t, "hasRef") {
			d.ReferenceNumber = "TR-" + word().Draw(t, "ref")
		}
		if rapid.Bool().Draw(t, "hasDestRefs") {
			refs := make([]string, len(dests))
			for i := range refs {
				if rapid.Bool().Draw(t, fmt.Sprintf("destRef%d", i)) {
					refs[i] = word().Draw(t, fmt.Sprintf("destRefValue%d", i))
				}
			}
			d.DestinationRefs = refs
		}
		if rapid.Bool().Draw(t, "hasAppt") {
			d.AppointmentDate = date(t, "apptDate")
			d.AppointmentTime = fmt.Sprintf("%02d:%02d", rapid.IntRange(0, 23).Draw(t, "hh"), rapid.IntRange(0, 59).Draw(t, "mm"))
			d.AppointmentNumber = word().Draw(t, "apptNumber")
		}
		return d
	})
}

func Bid() *rapid.Generator[domain.Bid] {
	return rapid.Custom(func(t *rapid.T) domain.Bid {
		b := domain.Bid{
			ID:          "bid-" + rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, "bidID"),
			CarrierName: word().Draw(t, "carrier"),
			Amount:      rapid.Float64Range(1, 20000).Draw(t, "amount"),
			Timestamp:   time.Unix(rapid.Int64Range(1_700_000_000, 1_800_000_000).Draw(t, "ts"), 0).UTC(),
			TransitDays: rapid.IntRange(0, 10).Draw(t, "transit"),
		}
		if rapid.Bool().Draw(t, "hasEmail") {
			b.CarrierEmail = "bids@" + rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "emailHost") + ".com"
		}
		return b
	})
}

// AppState generates a state of valid loads with distinct ids and a
// case-insensitively distinct subscriber list.
func AppState() *rapid.Generator[domain.AppState] {
	return rapid.Custom(func(t *rapid.T) domain.AppState {
		n := rapid.IntRange(0, 5).Draw(t, "loadCount")
		loads := make([]domain.Load, 0, n)
		for i := 0; i < n; i++ {
			loads = append(loads, domain.Load{
				ID:          fmt.Sprintf("load-%d", i+1),
				LoadDetails: Details().Draw(t, fmt.Sprintf("details%d", i)),
				Bids:        rapid.SliceOfNDistinct(Bid(), 0, 4, func(b domain.Bid) string { return b.ID }).Draw(t, fmt.Sprintf("bids%d", i)),
			})
		}

		emails := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z]{1,8}@[a-z]{1,8}\.com`), 0, 5,
			func(s string) string { return s },
		).Draw(t, "emails")

		return domain.AppState{Loads: loads, CarrierEmails: emails}
	})
}
