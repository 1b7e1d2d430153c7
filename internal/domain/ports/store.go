package ports

import (
	"context"

	"exchange-rate-cache/internal/domain/model"
)

// KeyValueStore is a durable slot store that survives process restarts.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RateStore persists the last known rate set. Save failures are reported
// but are never fatal to the caller.
type RateStore interface {
	Save(ctx context.Context, set model.CachedRateSet) error
	Load(ctx context.Context) (*model.CachedRateSet, bool)
}
