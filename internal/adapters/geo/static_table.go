package geo

import (
	"context"
	"fmt"
	"loadboard-service/internal/domain"
	"strings"
)

// Place is one "city, st" key in a StaticTable.
type Place struct {
	Key    string
	Coords domain.Coordinates
}

// StaticTable resolves places by substring match against a fixed, ordered
// list of known cities. The first key contained in the lowercased input
// wins, so declaration order is part of the lookup contract.
//
// A StaticTable is never mutated after construction and is safe for
// concurrent use.
type StaticTable struct {
	places []Place
}

// DefaultPlaces are the cities the load board ships with.
var DefaultPlaces = []Place{
	{"new york, ny", domain.Coordinates{Lat: 40.7128, Lon: -74.0060}},
	{"los angeles, ca", domain.Coordinates{Lat: 34.0522, Lon: -118.2437}},
	{"chicago, il", domain.Coordinates{Lat: 41.8781, Lon: -87.6298}},
	{"dallas, tx", domain.Coordinates{Lat: 32.7767, Lon: -96.7970}},
	{"atlanta, ga", domain.Coordinates{Lat: 33.7490, Lon: -84.3880}},
	{"miami, fl", domain.Coordinates{Lat: 25.7617, Lon: -80.1918}},
	{"denver, co", domain.Coordinates{Lat: 39.7392, Lon: -104.9903}},
	{"seattle, wa", domain.Coordinates{Lat: 47.6062, Lon: -122.3321}},
	{"boston, ma", domain.Coordinates{Lat: 42.3601, Lon: -71.0589}},
	{"philadelphia, pa", domain.Coordinates{Lat: 39.9526, Lon: -75.1652}},
	{"richmond, va", domain.Coordinates{Lat: 37.5407, Lon: -77.4360}},
	{"lebanon junction, ky", domain.Coordinates{Lat: 37.8362, Lon: -85.7225}},
	{"west palm beach, fl", domain.Coordinates{Lat: 26.7153, Lon: -80.0534}},
}

func NewStaticTable(places []Place) *StaticTable {
	cp := make([]Place, len(places))
	for i, p := range places {
		cp[i] = Place{Key: strings.ToLower(p.Key), Coords: p.Coords}
	}
	return &StaticTable{places: cp}
}

func NewDefaultTable() *StaticTable { return NewStaticTable(DefaultPlaces) }

func (t *StaticTable) Resolve(_ context.Context, place string) (domain.Coordinates, error) {
	if strings.TrimSpace(place) == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", place, domain.ErrPlaceNotFound)
	}

	lower := strings.ToLower(place)
	for _, p := range t.places {
		if strings.Contains(lower, p.Key) {
			return p.Coords, nil
		}
	}

	return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", place, domain.ErrPlaceNotFound)
}
