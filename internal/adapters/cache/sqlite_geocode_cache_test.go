package cache

import (
	"context"
	"loadboard-service/internal/adapters/repositories"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/db"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *SqliteGeocodeCache {
	t.Helper()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.InitSchema(context.Background(), sqlDB); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSqliteGeocodeCache(sqlDB)
}

func TestSqliteGeocodeCachePutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := map[string]domain.Coordinates{
		"chicago, il": {Lat: 41.8781, Lon: -87.6298},
		"dallas, tx":  {Lat: 32.7767, Lon: -96.7970},
	}
	if err := c.PutMany(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"chicago, il", "dallas, tx", "chicago, il", "miami, fl", " "})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("hits = %d, want 2: %v", len(got), got)
	}
	if got["dallas, tx"] != in["dallas, tx"] {
		t.Fatalf("dallas = %+v, want %+v", got["dallas, tx"], in["dallas, tx"])
	}
}

func TestSqliteGeocodeCacheReplaces(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"x": {Lat: 1, Lon: 1}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"x": {Lat: 2, Lon: 2}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"x"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["x"].Lat != 2 {
		t.Fatalf("x = %+v, want replaced value", got["x"])
	}
}

func TestSqliteGeocodeCacheEmptyInputs(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	got, err := c.GetMany(ctx, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("GetMany(nil) = %v, %v", got, err)
	}
	if err := c.PutMany(ctx, nil); err != nil {
		t.Fatalf("PutMany(nil): %v", err)
	}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"": {}}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
