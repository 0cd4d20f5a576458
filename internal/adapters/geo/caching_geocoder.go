package geo

import (
	"context"
	"errors"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/ports"
	"log"
	"strings"
)

// CachingGeocoder consults a persistent cache before delegating to Next.
// Only successful lookups are cached. Cache failures are logged and never
// turn a resolvable place into an error.
type CachingGeocoder struct {
	Next  ports.Geocoder
	Cache ports.GeocodeCache
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{Next: next, Cache: cache}
}

// cacheKey folds case only. The wrapped lookup matches on the raw text, so
// two inputs may share a key only when they resolve identically.
func cacheKey(s string) string {
	return strings.ToLower(s)
}

func (g *CachingGeocoder) Resolve(ctx context.Context, place string) (domain.Coordinates, error) {
	if g.Next == nil {
		return domain.Coordinates{}, errors.New("caching geocoder: next geocoder is nil")
	}

	key := cacheKey(place)
	if strings.TrimSpace(key) == "" || g.Cache == nil {
		return g.Next.Resolve(ctx, place)
	}

	hits, err := g.Cache.GetMany(ctx, []string{key})
	if err != nil {
		log.Printf("geocode cache read failed: key=%q err=%v", key, err)
	} else if c, ok := hits[key]; ok {
		return c, nil
	}

	c, err := g.Next.Resolve(ctx, place)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := g.Cache.PutMany(ctx, map[string]domain.Coordinates{key: c}); err != nil {
		log.Printf("geocode cache write failed: key=%q err=%v", key, err)
	}

	return c, nil
}
