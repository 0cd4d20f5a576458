package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"time"
)

// SQLite-backed implementation of the StateGateway port. The whole AppState
// lives in one row of app_state.
type SqliteStateGateway struct{ DB *sql.DB }

func NewSqliteStateGateway(db *sql.DB) *SqliteStateGateway {
	return &SqliteStateGateway{DB: db}
}

func (s *SqliteStateGateway) Load(ctx context.Context) (_ domain.AppState, err error) {
	defer obs.Time(ctx, "sqlite.state.Load")(&err)

	if s.DB == nil {
		return domain.AppState{}, errors.New("sqlite state gateway: DB is nil")
	}

	var doc string
	err = s.DB.QueryRowContext(ctx, `SELECT document FROM app_state WHERE id = 1;`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AppState{}, domain.ErrNoState
	}
	if err != nil {
		return domain.AppState{}, fmt.Errorf("load app state: query app_state table: %w", err)
	}

	return domain.DecodeAppState([]byte(doc))
}

func (s *SqliteStateGateway) Save(ctx context.Context, state domain.AppState) (err error) {
	defer obs.Time(ctx, "sqlite.state.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite state gateway: DB is nil")
	}

	doc, err := domain.EncodeAppState(state)
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO app_state (id, document, updated_at)
	VALUES (1, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET document = excluded.document,
		updated_at = excluded.updated_at;
	`, string(doc), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save app state: upsert app_state: %w", err)
	}

	return nil
}
