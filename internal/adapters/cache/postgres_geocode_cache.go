package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"strings"
)

// PostgresGeocodeCache keeps place -> coordinate lookups next to the
// app_state row when the store runs on Postgres.
type PostgresGeocodeCache struct {
	DB *sql.DB
}

func NewPostgresGeocodeCache(db *sql.DB) *PostgresGeocodeCache {
	return &PostgresGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given places. Misses are simply absent.
func (s *PostgresGeocodeCache) GetMany(
	ctx context.Context,
	places []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.pg.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(places))
	for _, p := range places {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}

	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	q := `
	SELECT place, lat, lon
	FROM geocode_cache
	WHERE place = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var place string
		var c domain.Coordinates
		if err := rows.Scan(&place, &c.Lat, &c.Lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[place] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store place -> coordinate mappings, replacing existing rows.
func (s *PostgresGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.pg.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (place, lat, lon)
	VALUES ($1, $2, $3)
	ON CONFLICT (place) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for place, c := range results {
		if strings.TrimSpace(place) == "" {
			return errors.New("insert geocode cache: empty place key")
		}
		if _, err := stmt.ExecContext(ctx, place, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("insert geocode cache place=%q: %w", place, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
