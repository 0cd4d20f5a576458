package ports

import (
	"context"
	"loadboard-service/internal/domain"
)

// Hands a newly posted load to whatever tells subscribed carriers about it.
type Notifier interface {
	NotifyNewLoad(ctx context.Context, load domain.Load, subscribers []string) error
}
