package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exchange-rate-cache/internal/domain/freshness"
	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/internal/domain/ports"
	"exchange-rate-cache/internal/metrics"
	"exchange-rate-cache/pkg/logger"
	"exchange-rate-cache/pkg/utils"
)

// DefaultKey is the well-known slot holding the last rate set.
const DefaultKey = "exchange_rates_cache"

var ErrMalformedEntry = errors.New("malformed cache entry")

// storedRateSet is the durable layout. It carries no version field, so a
// format change must either stay backward compatible or accept one miss.
type storedRateSet struct {
	Rates      *[]model.ExchangeRate `json:"rates"`
	ValidUntil string                `json:"validUntil"`
}

// RateStore is the best-effort durable mirror of the provider's rate set.
type RateStore struct {
	backend ports.KeyValueStore
	key     string
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRateStore(backend ports.KeyValueStore, key string, log *logger.Logger, m *metrics.Metrics) *RateStore {
	if key == "" {
		key = DefaultKey
	}
	return &RateStore{
		backend: backend,
		key:     key,
		log:     log.With("component", "rate_store"),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for expiry checks.
func (s *RateStore) WithClock(now func() time.Time) *RateStore {
	s.now = now
	return s
}

// Save overwrites the slot. A failure is logged and returned; the in-memory
// path must carry on regardless.
func (s *RateStore) Save(ctx context.Context, set model.CachedRateSet) error {
	payload, err := encodeRateSet(set)
	if err == nil {
		err = s.backend.Set(ctx, s.key, payload)
	}
	if err != nil {
		s.log.Warn("Failed to save exchange rates cache", "key", s.key, "error", err)
		s.observe("save", metrics.ResultFailure)
		return err
	}

	s.log.Debug("Saved exchange rates cache", "key", s.key, "rates", len(set.Rates), "valid_until", set.ValidUntil)
	s.observe("save", metrics.ResultSuccess)
	return nil
}

// Load returns the stored set if it is present, well formed and unexpired.
// Corrupt and expired entries are deleted. Load never fails.
func (s *RateStore) Load(ctx context.Context) (*model.CachedRateSet, bool) {
	data, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("Failed to load exchange rates cache", "key", s.key, "error", err)
		s.observe("load", metrics.ResultFailure)
		return nil, false
	}
	if !found {
		s.observe("load", metrics.ResultMiss)
		return nil, false
	}

	set, err := decodeRateSet(data)
	if err != nil {
		s.log.Warn("Discarding malformed exchange rates cache", "key", s.key, "error", err)
		s.purge(ctx)
		s.observe("load", metrics.ResultCorrupt)
		return nil, false
	}

	if !freshness.IsValid(set.ValidUntil, s.now()) {
		s.log.Info("Discarding expired exchange rates cache", "key", s.key, "valid_until", set.ValidUntil)
		s.purge(ctx)
		s.observe("load", metrics.ResultExpired)
		return nil, false
	}

	s.observe("load", metrics.ResultHit)
	return set, true
}

func (s *RateStore) purge(ctx context.Context) {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.log.Warn("Failed to purge exchange rates cache", "key", s.key, "error", err)
		s.observe("purge", metrics.ResultFailure)
		return
	}
	s.observe("purge", metrics.ResultSuccess)
}

func (s *RateStore) observe(op, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreOperations.WithLabelValues(op, result).Inc()
}

func encodeRateSet(set model.CachedRateSet) ([]byte, error) {
	rates := set.Rates
	if rates == nil {
		rates = []model.ExchangeRate{}
	}
	return json.Marshal(storedRateSet{
		Rates:      &rates,
		ValidUntil: utils.FormatTimestamp(set.ValidUntil),
	})
}

func decodeRateSet(data []byte) (*model.CachedRateSet, error) {
	var stored storedRateSet
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if stored.Rates == nil {
		return nil, fmt.Errorf("%w: missing rates", ErrMalformedEntry)
	}

	validUntil, err := utils.ParseTimestamp(stored.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid validUntil: %v", ErrMalformedEntry, err)
	}

	return &model.CachedRateSet{
		Rates:      *stored.Rates,
		ValidUntil: validUntil,
	}, nil
}
