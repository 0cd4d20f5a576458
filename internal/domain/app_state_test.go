package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeAppStateShape(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ok   bool
	}{
		{"empty arrays", `{"loads": [], "carrierEmails": []}`, true},
		{"loads missing", `{"carrierEmails": []}`, false},
		{"emails missing", `{"loads": []}`, false},
		{"loads object", `{"loads": {}, "carrierEmails": []}`, false},
		{"emails null", `{"loads": [], "carrierEmails": null}`, false},
		{"top-level array", `[]`, false},
		{"not json", `<html>`, false},
		{"wrong element type", `{"loads": [1], "carrierEmails": []}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAppState([]byte(tt.doc))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMalformedState) {
				t.Fatalf("err = %v, want ErrMalformedState", err)
			}
		})
	}
}

func TestDecodeAppStateDropsLoadsWithoutID(t *testing.T) {
	doc := `{"loads": [{"id": ""}, {"id": "load-1", "origin": "Boston, MA"}], "carrierEmails": ["a@b.com"]}`

	s, err := DecodeAppState([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Loads) != 1 || s.Loads[0].ID != "load-1" {
		t.Fatalf("loads = %+v, want only load-1", s.Loads)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := AppState{
		Loads: []Load{{
			ID: "load-9",
			LoadDetails: LoadDetails{
				ItemDescriptions: []string{"Aventura", "Naples Illustrated"},
				ReferenceNumber:  "TR-1",
				Origin:           "3487 South Preston Highway, Lebanon Junction, KY 40150",
				Destinations:     []string{"Miami, FL", "Dallas, TX"},
				DestinationRefs:  []string{"", "PO-7"},
				PickupDate:       "2024-08-02",
				DeliveryDate:     "2024-08-03",
				PalletCount:      18,
				Weight:           24000,
				EquipmentType:    EquipmentFlatbed,
				Details:          "sharp appt",
				AppointmentDate:  "2024-08-03",
				AppointmentTime:  "08:30",
			},
			Bids: []Bid{{
				ID:          "bid-1",
				CarrierName: "Sunshine Express",
				Amount:      950.5,
				Timestamp:   time.Date(2024, 7, 22, 14, 0, 0, 0, time.UTC),
				TransitDays: 2,
			}},
		}},
		CarrierEmails: []string{"Dispatch@ABC.com"},
	}

	b, err := EncodeAppState(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeAppState(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff(in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeNilSlicesAsArrays(t *testing.T) {
	b, err := EncodeAppState(AppState{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"loads":[],"carrierEmails":[]}` {
		t.Fatalf("encoded = %s", b)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := AppState{
		Loads: []Load{{
			ID:          "l1",
			LoadDetails: LoadDetails{Destinations: []string{"A"}},
			Bids:        []Bid{{ID: "b1", Amount: 10}},
		}},
		CarrierEmails: []string{"a@b.com"},
	}

	c := s.Clone()
	c.Loads[0].Destinations[0] = "Z"
	c.Loads[0].Bids[0].Amount = 99
	c.CarrierEmails[0] = "z@z.com"

	if s.Loads[0].Destinations[0] != "A" || s.Loads[0].Bids[0].Amount != 10 || s.CarrierEmails[0] != "a@b.com" {
		t.Fatalf("Clone shares memory with original: %+v", s)
	}
}

func TestHasCarrierEmailIgnoresCase(t *testing.T) {
	s := AppState{CarrierEmails: []string{"a@b.com"}}
	if !s.HasCarrierEmail("A@B.COM") {
		t.Fatal("expected case-insensitive match")
	}
	if s.HasCarrierEmail("c@b.com") {
		t.Fatal("unexpected match")
	}
}

func TestLowestBid(t *testing.T) {
	l := Load{Bids: []Bid{{Amount: 950}, {Amount: 925}, {Amount: 940}}}
	low, ok := l.LowestBid()
	if !ok || low != 925 {
		t.Fatalf("LowestBid = %v, %v; want 925, true", low, ok)
	}

	if _, ok := (Load{}).LowestBid(); ok {
		t.Fatal("LowestBid on no bids should report false")
	}
}
