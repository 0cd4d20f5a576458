package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
)

// PostgresStateGateway stores the AppState document in a JSONB row.
// The *sql.DB is expected to use the pgx stdlib driver.
type PostgresStateGateway struct{ DB *sql.DB }

func NewPostgresStateGateway(db *sql.DB) *PostgresStateGateway {
	return &PostgresStateGateway{DB: db}
}

func (p *PostgresStateGateway) Load(ctx context.Context) (_ domain.AppState, err error) {
	defer obs.Time(ctx, "postgres.state.Load")(&err)

	if p.DB == nil {
		return domain.AppState{}, errors.New("postgres state gateway: DB is nil")
	}

	var doc []byte
	err = p.DB.QueryRowContext(ctx, `SELECT document::text FROM app_state WHERE id = 1;`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AppState{}, domain.ErrNoState
	}
	if err != nil {
		return domain.AppState{}, fmt.Errorf("load app state: query app_state table: %w", err)
	}

	return domain.DecodeAppState(doc)
}

func (p *PostgresStateGateway) Save(ctx context.Context, state domain.AppState) (err error) {
	defer obs.Time(ctx, "postgres.state.Save")(&err)

	if p.DB == nil {
		return errors.New("postgres state gateway: DB is nil")
	}

	doc, err := domain.EncodeAppState(state)
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	_, err = p.DB.ExecContext(ctx, `
	INSERT INTO app_state (id, document, updated_at)
	VALUES (1, $1::jsonb, NOW())
	ON CONFLICT (id) DO UPDATE
	SET document = EXCLUDED.document,
		updated_at = EXCLUDED.updated_at;
	`, string(doc))
	if err != nil {
		return fmt.Errorf("save app state: upsert app_state: %w", err)
	}

	return nil
}
