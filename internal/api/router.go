package api

import (
	"loadboard-service/internal/api/handlers"
	"loadboard-service/internal/ports"
	"loadboard-service/internal/services"
	"net/http"
)

// RouterConfig carries the dependencies and knobs the HTTP surface needs.
type RouterConfig struct {
	Store    *services.LoadStore
	Geocoder ports.Geocoder

	// AdminToken gates load editing and the subscriber list. Empty disables
	// the gate.
	AdminToken string

	// BidRecipient is the address bid drafts are addressed to.
	BidRecipient string

	// SubscribePerMinute limits subscriptions per client. Zero disables it.
	SubscribePerMinute int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	loads := &handlers.LoadHandler{Store: cfg.Store}
	bids := &handlers.BidHandler{Store: cfg.Store, Recipient: cfg.BidRecipient}
	distances := &handlers.DistanceHandler{Store: cfg.Store, Geocoder: cfg.Geocoder}
	subs := &handlers.SubscriptionHandler{Store: cfg.Store}
	health := &handlers.HealthHandler{Store: cfg.Store}

	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(cfg.AdminToken, h) }
	limiter := newClientLimiter(cfg.SubscribePerMinute)

	mux.HandleFunc("/health", health.Get)

	mux.HandleFunc("GET /loads", loads.List)
	mux.Handle("POST /loads", admin(loads.Create))
	mux.HandleFunc("GET /loads/{id}", loads.Get)
	mux.Handle("PUT /loads/{id}", admin(loads.Update))
	mux.Handle("DELETE /loads/{id}", admin(loads.Delete))

	mux.HandleFunc("POST /loads/{id}/bids", bids.Create)
	mux.HandleFunc("GET /loads/{id}/distance", distances.ForLoad)
	mux.HandleFunc("GET /distances", distances.All)

	mux.Handle("POST /subscriptions", limiter.middleware(http.HandlerFunc(subs.Create)))
	mux.Handle("GET /subscriptions", admin(subs.List))

	return requestIDMiddleware(loggingMiddleware(mux))
}
