package api

import (
	"encoding/json"
	"loadboard-service/internal/platform/obs"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware logs end-to-end request duration and response size for basic observability.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Milliseconds()

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			obs.RequestID(r.Context()), r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration,
		)
	})
}

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware honours an incoming X-Request-ID or assigns a new one,
// echoes it back, and puts it in the request context for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(obs.WithRequestID(r.Context(), id)))
	})
}

// requireAdmin allows the request through only with "Authorization: Bearer
// <token>". An empty token leaves the route open.
func requireAdmin(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			w.Header().Set("WWW-Authenticate", `Bearer realm="loadboard"`)
			writeJSONError(w, http.StatusUnauthorized, "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limiterIdleTTL is how long a client may stay quiet before its limiter is
// dropped. A full bucket refills within a minute, so a dropped limiter and a
// fresh one behave the same.
const limiterIdleTTL = 2 * time.Minute

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// clientLimiter rate-limits per client address. Idle clients are swept on
// access at most once per limiterIdleTTL.
type clientLimiter struct {
	mu        sync.Mutex
	m         map[string]*clientEntry
	r         rate.Limit
	b         int
	now       func() time.Time
	lastSweep time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &clientLimiter{
		m:   make(map[string]*clientEntry),
		r:   rate.Every(time.Minute / time.Duration(perMinute)),
		b:   perMinute,
		now: time.Now,
	}
}

func (cl *clientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) >= limiterIdleTTL {
		cl.sweepLocked(now)
	}

	if e, ok := cl.m[client]; ok {
		e.lastSeen = now
		return e.lim
	}
	e := &clientEntry{lim: rate.NewLimiter(cl.r, cl.b), lastSeen: now}
	cl.m[client] = e
	return e.lim
}

func (cl *clientLimiter) sweepLocked(now time.Time) {
	for client, e := range cl.m {
		if now.Sub(e.lastSeen) >= limiterIdleTTL {
			delete(cl.m, client)
		}
	}
	cl.lastSweep = now
}

func (cl *clientLimiter) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.m)
}

func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	if cl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.limiterFor(clientHost(r)).Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
