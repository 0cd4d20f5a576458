package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// AppState is the full persisted aggregate. Gateways read and write it as a
// single document; there is no per-entity persistence.
type AppState struct {
	Loads         []Load   `json:"loads"`
	CarrierEmails []string `json:"carrierEmails"`
}

// Clone returns a deep copy that shares no slices with s.
func (s AppState) Clone() AppState {
	out := AppState{
		Loads:         make([]Load, len(s.Loads)),
		CarrierEmails: slices.Clone(s.CarrierEmails),
	}
	for i, l := range s.Loads {
		out.Loads[i] = l.Clone()
	}
	if out.CarrierEmails == nil {
		out.CarrierEmails = []string{}
	}
	return out
}

// FindLoad returns the index of the load with the given id, or -1.
func (s AppState) FindLoad(id string) int {
	return slices.IndexFunc(s.Loads, func(l Load) bool { return l.ID == id })
}

// HasCarrierEmail reports whether email is subscribed, ignoring case.
func (s AppState) HasCarrierEmail(email string) bool {
	return slices.ContainsFunc(s.CarrierEmails, func(e string) bool {
		return strings.EqualFold(e, email)
	})
}

// EncodeAppState renders the wire document stored by every gateway.
func EncodeAppState(s AppState) ([]byte, error) {
	if s.Loads == nil {
		s.Loads = []Load{}
	}
	if s.CarrierEmails == nil {
		s.CarrierEmails = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode app state: %w", err)
	}
	return b, nil
}

// DecodeAppState parses a stored document. Anything that is not an object
// with array-valued "loads" and "carrierEmails" yields ErrMalformedState.
// Loads without an id are dropped.
func DecodeAppState(b []byte) (AppState, error) {
	var shape struct {
		Loads         json.RawMessage `json:"loads"`
		CarrierEmails json.RawMessage `json:"carrierEmails"`
	}
	if err := json.Unmarshal(b, &shape); err != nil {
		return AppState{}, fmt.Errorf("decode app state: %w: %v", ErrMalformedState, err)
	}
	if !isJSONArray(shape.Loads) {
		return AppState{}, fmt.Errorf("decode app state: %w: loads is not an array", ErrMalformedState)
	}
	if !isJSONArray(shape.CarrierEmails) {
		return AppState{}, fmt.Errorf("decode app state: %w: carrierEmails is not an array", ErrMalformedState)
	}

	var s AppState
	if err := json.Unmarshal(shape.Loads, &s.Loads); err != nil {
		return AppState{}, fmt.Errorf("decode app state: %w: loads: %v", ErrMalformedState, err)
	}
	if err := json.Unmarshal(shape.CarrierEmails, &s.CarrierEmails); err != nil {
		return AppState{}, fmt.Errorf("decode app state: %w: carrierEmails: %v", ErrMalformedState, err)
	}

	s.Loads = slices.DeleteFunc(s.Loads, func(l Load) bool { return strings.TrimSpace(l.ID) == "" })
	return s, nil
}

func isJSONArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}
