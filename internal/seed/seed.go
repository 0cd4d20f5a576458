// Package seed holds the AppState a fresh store starts from.
package seed

import (
	_ "embed"
	"fmt"
	"loadboard-service/internal/domain"
	"os"
)

//go:embed default_state.json
var defaultState []byte

// Default returns a fresh copy of the built-in sample loads and subscribers.
func Default() domain.AppState {
	s, err := domain.DecodeAppState(defaultState)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded default state is invalid: %v", err))
	}
	return s
}

// FromFile reads an AppState document from path. Unlike a gateway load, a
// malformed seed file is an error: it was supplied by an operator.
func FromFile(path string) (domain.AppState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.AppState{}, fmt.Errorf("seed from file: read %q: %w", path, err)
	}

	s, err := domain.DecodeAppState(b)
	if err != nil {
		return domain.AppState{}, fmt.Errorf("seed from file %q: %w", path, err)
	}

	for i, l := range s.Loads {
		if err := domain.ValidateDetails(l.LoadDetails); err != nil {
			return domain.AppState{}, fmt.Errorf("seed from file %q: load %d (%s): %w", path, i+1, l.ID, err)
		}
	}
	return s, nil
}
