package repositories

import (
	"context"
	"loadboard-service/internal/domain"
	"sync"
)

// MockStateGateway is an in-memory StateGateway with failure injection.
type MockStateGateway struct {
	mu      sync.Mutex
	doc     []byte
	loadErr error
	saveErr error
	saves   int

	// BeforeSave, when set, runs at the start of every Save. A non-nil
	// return fails the Save without storing anything.
	BeforeSave func(ctx context.Context, state domain.AppState) error
}

// NewMockStateGateway starts empty: Load reports domain.ErrNoState.
func NewMockStateGateway() *MockStateGateway {
	return &MockStateGateway{}
}

// NewMockStateGatewayWith starts with state already stored.
func NewMockStateGatewayWith(state domain.AppState) *MockStateGateway {
	m := &MockStateGateway{}
	m.doc, _ = domain.EncodeAppState(state)
	return m
}

// SetRaw stores an arbitrary document, e.g. a malformed one.
func (m *MockStateGateway) SetRaw(doc []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = append([]byte(nil), doc...)
}

func (m *MockStateGateway) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *MockStateGateway) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many Save calls completed successfully.
func (m *MockStateGateway) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MockStateGateway) Load(_ context.Context) (domain.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return domain.AppState{}, m.loadErr
	}
	if m.doc == nil {
		return domain.AppState{}, domain.ErrNoState
	}
	return domain.DecodeAppState(m.doc)
}

func (m *MockStateGateway) Save(ctx context.Context, state domain.AppState) error {
	if m.BeforeSave != nil {
		if err := m.BeforeSave(ctx, state); err != nil {
			return err
		}
	}

	doc, err := domain.EncodeAppState(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = doc
	m.saves++
	return nil
}
