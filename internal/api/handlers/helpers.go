package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields. It writes the 400 itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeStoreError maps a LoadStore or distance error to its HTTP status.
// Client errors echo the message; anything else is logged and hidden.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "load not found")
	case errors.Is(err, domain.ErrDuplicate):
		writeError(w, r, http.StatusConflict, "email is already subscribed")
	case errors.Is(err, domain.ErrUnresolvable):
		writeError(w, r, http.StatusUnprocessableEntity, "route cannot be resolved to known locations")
	case errors.Is(err, domain.ErrPersistence):
		log.Printf("req_id=%s persist failed: method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusServiceUnavailable, "storage unavailable, changes were not saved")
	default:
		log.Printf("req_id=%s request failed: method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
