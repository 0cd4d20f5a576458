package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"loadboard-service/internal/config"
	"loadboard-service/internal/platform/db"
	"loadboard-service/internal/ports"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// OpenGateway builds the StateGateway selected by cfg.StoreBackend and makes
// sure its schema exists. The returned close func releases the backend.
func OpenGateway(ctx context.Context, cfg config.Config) (ports.StateGateway, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		sqlDB, err := OpenSQLiteFile(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open gateway: %w", err)
		}
		return NewSqliteStateGateway(sqlDB), sqlDB.Close, nil

	case config.BackendPostgres:
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open gateway: %w", err)
		}
		if err := InitPostgresSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("open gateway: %w", err)
		}
		return NewPostgresStateGateway(sqlDB), sqlDB.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open gateway: ping redis %q: %w", cfg.RedisAddr, err)
		}
		return NewRedisStateGateway(client, cfg.RedisKey), client.Close, nil

	case config.BackendFile:
		return NewFileStateGateway(cfg.StateFile), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("open gateway: unknown backend %q", cfg.StoreBackend)
	}
}

// OpenSQLiteFile opens (creating its directory if needed) the SQLite
// database at path and initializes the schema.
func OpenSQLiteFile(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open sqlite: create dir %q: %w", dir, err)
		}
	}

	sqlDB, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := InitSchema(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}
