package ports

import (
	"context"
	"loadboard-service/internal/domain"
)

// Contract for resolving a free-text place to approximate coordinates.
type Geocoder interface {
	// Return domain.ErrPlaceNotFound when the place is unknown.
	Resolve(ctx context.Context, place string) (domain.Coordinates, error)
}

// Persistent place -> coordinate cache consulted before a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, places []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
