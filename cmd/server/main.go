package main

import (
	"context"
	"errors"
	"loadboard-service/internal/adapters/cache"
	"loadboard-service/internal/adapters/geo"
	"loadboard-service/internal/adapters/notify"
	"loadboard-service/internal/adapters/repositories"
	"loadboard-service/internal/api"
	"loadboard-service/internal/config"
	"loadboard-service/internal/platform/db"
	"loadboard-service/internal/ports"
	"loadboard-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the configured state backend, geocoder and notifier behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, closeGW, err := repositories.OpenGateway(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeGW()

	// An explicit seed file is loaded on startup for local runs; otherwise an
	// empty store is seeded with the built-in sample loads.
	if cfg.SeedPath != "" {
		if err := repositories.SeedFromJSON(ctx, gw, cfg.SeedPath, false); err != nil {
			log.Fatal(err)
		}
	}

	geocoder, closeGeo, err := newGeocoder(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeGeo()

	store, err := services.OpenLoadStore(ctx, gw,
		services.WithNotifier(notify.NewLogNotifier(cfg.NotifyRecipient)),
	)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(api.RouterConfig{
		Store:              store,
		Geocoder:           geocoder,
		AdminToken:         cfg.AdminToken,
		BidRecipient:       cfg.NotifyRecipient,
		SubscribePerMinute: cfg.SubscribePerMinute,
	})

	log.Printf("Server listening addr=:%s backend=%s", cfg.Port, cfg.StoreBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// newGeocoder returns the static city table, fronted by a persistent cache
// when GEOCODE_CACHE is on. The cache shares the Postgres database on the
// postgres backend and uses the SQLite file everywhere else.
func newGeocoder(ctx context.Context, cfg config.Config) (ports.Geocoder, func() error, error) {
	table := geo.NewDefaultTable()
	if !cfg.GeocodeCache {
		return table, func() error { return nil }, nil
	}

	if cfg.StoreBackend == config.BackendPostgres {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return geo.NewCachingGeocoder(table, cache.NewPostgresGeocodeCache(sqlDB)), sqlDB.Close, nil
	}

	sqlDB, err := repositories.OpenSQLiteFile(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return geo.NewCachingGeocoder(table, cache.NewSqliteGeocodeCache(sqlDB)), sqlDB.Close, nil
}
