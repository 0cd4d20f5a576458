package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/ports"
	"loadboard-service/internal/seed"
	"log"
)

// Initialize the SQLite schema: the single-row app_state document table and
// the geocode cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "init schema", []string{
		`
	CREATE TABLE IF NOT EXISTS app_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		place TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`,
	})
}

// Initialize the Postgres schema. The document is stored as JSONB so it can
// be inspected with SQL, but it is always read and written whole.
// The geocode cache lives in the same database.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "init postgres schema", []string{
		`
	CREATE TABLE IF NOT EXISTS app_state (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		document JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		place TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`,
	})
}

func execAll(ctx context.Context, db *sql.DB, op string, statements []string) error {
	if db == nil {
		return fmt.Errorf("%s: DB is nil", op)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

// SeedFromJSON stores the AppState document at jsonPath through gw. Unless
// overwrite is set, an existing well-formed state is left alone.
// An empty jsonPath seeds the built-in sample data.
func SeedFromJSON(ctx context.Context, gw ports.StateGateway, jsonPath string, overwrite bool) error {
	if !overwrite {
		_, err := gw.Load(ctx)
		switch {
		case err == nil:
			log.Println("seed: app state already present, skipping")
			return nil
		case errors.Is(err, domain.ErrNoState), errors.Is(err, domain.ErrMalformedState):
		default:
			return fmt.Errorf("seed app state: check existing: %w", err)
		}
	}

	state := seed.Default()
	if jsonPath != "" {
		var err error
		state, err = seed.FromFile(jsonPath)
		if err != nil {
			return fmt.Errorf("seed app state: %w", err)
		}
	}

	if err := gw.Save(ctx, state); err != nil {
		return fmt.Errorf("seed app state: save: %w", err)
	}

	log.Printf("seed: stored loads=%d carrier_emails=%d", len(state.Loads), len(state.CarrierEmails))
	return nil
}
