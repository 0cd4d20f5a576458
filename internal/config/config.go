package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backends accepted by STORE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendFile     = "file"
)

// Config is the runtime configuration shared by cmd/server and cmd/dbtool.
// Values come from an optional YAML file and are overridden by environment
// variables (which godotenv may have populated from .env).
type Config struct {
	Port               string `yaml:"port"`
	StoreBackend       string `yaml:"store_backend"`
	DBPath             string `yaml:"db_path"`
	DatabaseURL        string `yaml:"database_url"`
	RedisAddr          string `yaml:"redis_addr"`
	RedisKey           string `yaml:"redis_key"`
	StateFile          string `yaml:"state_file"`
	SeedPath           string `yaml:"seed_path"`
	AdminToken         string `yaml:"admin_token"`
	NotifyRecipient    string `yaml:"notify_recipient"`
	GeocodeCache       bool   `yaml:"geocode_cache"`
	SubscribePerMinute int    `yaml:"subscribe_per_minute"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		StoreBackend:       BackendSQLite,
		DBPath:             "data/loadboard.db",
		RedisAddr:          "localhost:6379",
		RedisKey:           "loadboard:app_state",
		StateFile:          "data/app_state.json",
		NotifyRecipient:    "omorales@targetdistribution.com",
		GeocodeCache:       true,
		SubscribePerMinute: 5,
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_PATH (if any), then environment overrides. The result is validated.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	cfg.Port = Get("PORT", cfg.Port)
	cfg.StoreBackend = strings.ToLower(Get("STORE_BACKEND", cfg.StoreBackend))
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = Get("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisKey = Get("REDIS_KEY", cfg.RedisKey)
	cfg.StateFile = Get("STATE_FILE", cfg.StateFile)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.AdminToken = Get("ADMIN_TOKEN", cfg.AdminToken)
	cfg.NotifyRecipient = Get("NOTIFY_RECIPIENT", cfg.NotifyRecipient)

	var errs []error
	if v := os.Getenv("GEOCODE_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GEOCODE_CACHE: %w", err))
		}
		cfg.GeocodeCache = b
	}
	if v := os.Getenv("SUBSCRIBE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SUBSCRIBE_PER_MINUTE: %w", err))
		}
		cfg.SubscribePerMinute = n
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once rather than the first one found.
func Validate(cfg Config) error {
	var errs []string

	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, "port must be 1..65535")
	}
	if cfg.SubscribePerMinute < 0 {
		errs = append(errs, "subscribe_per_minute must be >= 0")
	}

	switch cfg.StoreBackend {
	case BackendSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			errs = append(errs, "db_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			errs = append(errs, "database_url is required for the postgres backend")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" || strings.TrimSpace(cfg.RedisKey) == "" {
			errs = append(errs, "redis_addr and redis_key are required for the redis backend")
		}
	case BackendFile:
		if strings.TrimSpace(cfg.StateFile) == "" {
			errs = append(errs, "state_file is required for the file backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store_backend %q is not one of sqlite, postgres, redis, file", cfg.StoreBackend))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
