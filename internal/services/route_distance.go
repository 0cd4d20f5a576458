package services

import (
	"context"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/ports"
	"math"

	"golang.org/x/sync/errgroup"
)

const EarthRadiusMiles = 3959.0

// HaversineMiles returns the great-circle distance between a and b.
func HaversineMiles(a, b domain.Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TotalDistance resolves origin and every stop, then sums the great-circle
// legs between consecutive waypoints. If any waypoint cannot be resolved the
// whole route is reported as domain.ErrUnresolvable; legs are never skipped.
func TotalDistance(
	ctx context.Context,
	geocoder ports.Geocoder,
	origin string,
	stops []string,
) (float64, error) {
	if len(stops) == 0 {
		return 0, fmt.Errorf("total distance from %q: no stops: %w", origin, domain.ErrUnresolvable)
	}

	waypoints := append([]string{origin}, stops...)
	coords := make([]domain.Coordinates, 0, len(waypoints))

	for i, w := range waypoints {
		c, err := geocoder.Resolve(ctx, w)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, fmt.Errorf("total distance: %w", ctxErr)
			}
			return 0, fmt.Errorf("total distance: waypoint %d %q: %w: %w", i, w, domain.ErrUnresolvable, err)
		}
		coords = append(coords, c)
	}

	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += HaversineMiles(coords[i-1], coords[i])
	}

	return total, nil
}

// LoadDistance is the route distance of one load, or why it has none.
type LoadDistance struct {
	LoadID string
	Miles  float64
	Err    error
}

// LoadDistances computes TotalDistance for every load concurrently. A load
// whose route cannot be resolved gets its own Err and does not affect the
// others. The result is in the same order as loads.
func LoadDistances(ctx context.Context, geocoder ports.Geocoder, loads []domain.Load) ([]LoadDistance, error) {
	out := make([]LoadDistance, len(loads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for i, l := range loads {
		g.Go(func() error {
			miles, err := TotalDistance(gctx, geocoder, l.Origin, l.Destinations)
			out[i] = LoadDistance{LoadID: l.ID, Miles: miles, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load distances: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load distances: %w", err)
	}

	return out, nil
}
