package cache

import (
	"context"
	"sync"

	"exchange-rate-cache/pkg/logger"
)

// MemoryStore keeps slots in process memory only. It satisfies the
// KeyValueStore contract for tests and for deployments that opt out of
// persistence.
type MemoryStore struct {
	slots map[string][]byte
	mutex sync.RWMutex
	log   *logger.Logger
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
		log:   log,
	}
}

func (c *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	value, found := c.slots[key]
	if !found {
		c.log.Debug("Memory store miss", "key", key)
		return nil, false, nil
	}

	c.log.Debug("Memory store hit", "key", key)
	return append([]byte(nil), value...), true, nil
}

func (c *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.slots[key] = append([]byte(nil), value...)
	c.log.Debug("Memory store set", "key", key, "bytes", len(value))

	return nil
}

func (c *MemoryStore) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.slots, key)
	c.log.Debug("Memory store delete", "key", key)

	return nil
}
