package repositories

import (
	"context"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisStateGateway keeps the AppState document under a single key, the
// same opaque read/write-the-whole-blob contract as a cloud JSON store.
type RedisStateGateway struct {
	Client redis.UniversalClient
	Key    string
}

func NewRedisStateGateway(client redis.UniversalClient, key string) *RedisStateGateway {
	return &RedisStateGateway{Client: client, Key: key}
}

func (r *RedisStateGateway) Load(ctx context.Context) (_ domain.AppState, err error) {
	defer obs.Time(ctx, "redis.state.Load")(&err)

	if r.Client == nil {
		return domain.AppState{}, errors.New("redis state gateway: client is nil")
	}

	b, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AppState{}, domain.ErrNoState
	}
	if err != nil {
		return domain.AppState{}, fmt.Errorf("load app state: get %q: %w", r.Key, err)
	}

	return domain.DecodeAppState(b)
}

func (r *RedisStateGateway) Save(ctx context.Context, state domain.AppState) (err error) {
	defer obs.Time(ctx, "redis.state.Save")(&err)

	if r.Client == nil {
		return errors.New("redis state gateway: client is nil")
	}

	doc, err := domain.EncodeAppState(state)
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	if err := r.Client.Set(ctx, r.Key, doc, 0).Err(); err != nil {
		return fmt.Errorf("save app state: set %q: %w", r.Key, err)
	}

	return nil
}
