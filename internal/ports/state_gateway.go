package ports

import (
	"context"
	"loadboard-service/internal/domain"
)

// Port: the durable read/write boundary for the whole AppState document.
type StateGateway interface {
	// Load the stored AppState. Returns domain.ErrNoState when nothing is
	// stored and domain.ErrMalformedState when the document has the wrong shape.
	Load(ctx context.Context) (domain.AppState, error)
	// Save replaces the stored AppState. A nil error means the write happened.
	Save(ctx context.Context, state domain.AppState) error
}
