package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"exchange-rate-cache/internal/domain/freshness"
	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/internal/domain/ports"
	"exchange-rate-cache/internal/metrics"
	"exchange-rate-cache/pkg/logger"
)

var (
	ErrRatesUnavailable = errors.New("exchange rates unavailable")
	ErrFetchFailed      = errors.New("exchange rate fetch failed")

	errEmptyResponse = errors.New("source returned no rate set")
)

const DefaultPollInterval = 60 * time.Second

type Option func(*RateProvider)

func WithClock(now func() time.Time) Option {
	return func(p *RateProvider) {
		p.now = now
	}
}

// WithSeed installs set at Start instead of reading the store.
func WithSeed(set model.CachedRateSet) Option {
	return func(p *RateProvider) {
		p.seed = &set
	}
}

// WithoutPersistence keeps every rate set in memory only. Used for fixed
// override tables that must never reach the durable store.
func WithoutPersistence() Option {
	return func(p *RateProvider) {
		p.ephemeral = true
	}
}

type rateState struct {
	rates      []model.ExchangeRate
	rateMap    model.RateMap
	validUntil time.Time
	err        error
	inFlight   int
	appliedSeq uint64
}

// RateProvider owns the authoritative in-memory rate set. All mutation goes
// through Start and Refresh; consumers only read through ConvertPrice and
// Snapshot.
type RateProvider struct {
	source  ports.RateSource
	store   ports.RateStore
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	seed    *model.CachedRateSet

	ephemeral bool

	mutex sync.RWMutex
	state rateState

	issued atomic.Uint64

	persistMutex sync.Mutex
	persistedSeq uint64

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewRateProvider(source ports.RateSource, store ports.RateStore, log *logger.Logger, m *metrics.Metrics, opts ...Option) *RateProvider {
	ctx, cancel := context.WithCancel(context.Background())
	p := &RateProvider{
		source:  source,
		store:   store,
		log:     log.With("component", "rate_provider"),
		metrics: m,
		now:     time.Now,
		baseCtx: ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start seeds the provider synchronously, before any network activity. It
// reports whether a usable rate set was installed.
func (p *RateProvider) Start(ctx context.Context) bool {
	set, ok := p.seed, p.seed != nil
	if !ok {
		set, ok = p.store.Load(ctx)
	}
	if !ok || !freshness.IsValid(set.ValidUntil, p.now()) {
		p.log.Info("No cached exchange rates, waiting for first refresh")
		return false
	}

	p.mutex.Lock()
	if p.state.rateMap != nil {
		p.mutex.Unlock()
		return p.hasUsableRates()
	}
	p.installLocked(*set)
	p.mutex.Unlock()

	p.observeRateSet(*set)
	p.log.Info("Seeded exchange rates", "rates", len(set.Rates), "valid_until", set.ValidUntil)
	return true
}

// Refresh fetches a new rate set and applies it. A response is dropped when
// a newer refresh has already been applied. A failure keeps serving a held
// valid rate set and only records the error.
func (p *RateProvider) Refresh(ctx context.Context) error {
	seq := p.issued.Add(1)
	log := p.log.With("refresh_id", uuid.NewString(), "source", p.source.Name())

	p.mutex.Lock()
	p.state.inFlight++
	p.mutex.Unlock()

	start := time.Now()
	set, fetchErr := p.source.FetchRates(ctx)
	p.observeDuration(time.Since(start))
	if fetchErr == nil && set == nil {
		fetchErr = errEmptyResponse
	}

	p.mutex.Lock()
	p.state.inFlight--

	if seq < p.state.appliedSeq {
		p.mutex.Unlock()
		log.Info("Discarding out-of-order exchange rates response", "seq", seq)
		p.observeRefresh(metrics.ResultDiscarded)
		if fetchErr != nil {
			return fmt.Errorf("%w: %v", ErrFetchFailed, fetchErr)
		}
		return nil
	}

	if fetchErr != nil {
		err := fmt.Errorf("%w: %v", ErrFetchFailed, fetchErr)
		usable := p.usableLocked()
		if !usable {
			err = fmt.Errorf("%w: %v", ErrRatesUnavailable, fetchErr)
		}
		p.state.err = err
		p.mutex.Unlock()

		if usable {
			log.Warn("Failed to refresh exchange rates, serving cached rates", "error", fetchErr)
		} else {
			log.Error("Failed to load exchange rates", "error", fetchErr)
		}
		p.observeRefresh(metrics.ResultFailure)
		return err
	}

	p.installLocked(*set)
	p.state.appliedSeq = seq
	p.mutex.Unlock()

	p.observeRefresh(metrics.ResultSuccess)
	p.observeRateSet(*set)
	log.Info("Refreshed exchange rates", "rates", len(set.Rates), "valid_until", set.ValidUntil)

	p.persist(ctx, seq, *set)
	return nil
}

// Refetch requests an out-of-band refresh without waiting for it.
func (p *RateProvider) Refetch() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.Refresh(p.baseCtx)
	}()
}

// Run refreshes immediately, then every interval and additionally when the
// refresh-ahead instant of the current set is reached. It returns when ctx
// is done.
func (p *RateProvider) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	_ = p.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var ahead *time.Timer
	var aheadC <-chan time.Time
	reschedule := func() {
		if ahead != nil {
			ahead.Stop()
		}
		ahead, aheadC = nil, nil
		if d, ok := p.refreshAheadDelay(); ok {
			ahead = time.NewTimer(d)
			aheadC = ahead.C
		}
	}
	reschedule()
	defer func() {
		if ahead != nil {
			ahead.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Stopping exchange rate refresh loop")
			return
		case <-ticker.C:
		case <-aheadC:
			p.log.Debug("Refresh-ahead window reached")
		}
		_ = p.Refresh(ctx)
		reschedule()
	}
}

// Close cancels pending Refetch calls and waits for them.
func (p *RateProvider) Close() {
	p.cancel()
	p.wg.Wait()
}

// ConvertPrice converts against the current rate set. It returns false
// immediately when no usable rate set is held.
func (p *RateProvider) ConvertPrice(amount float64, from, to model.Currency) (float64, bool) {
	p.mutex.RLock()
	rateMap := p.state.rateMap
	usable := p.usableLocked()
	p.mutex.RUnlock()

	if !usable {
		p.observeConversion(metrics.ResultUnavailable)
		return 0, false
	}

	converted, ok := ConvertPrice(amount, from, to, rateMap, p.log)
	switch {
	case !ok:
		p.observeConversion(metrics.ResultUnavailable)
	case from == to:
		p.observeConversion(metrics.ResultIdentity)
	default:
		p.observeConversion(metrics.ResultConverted)
	}
	return converted, ok
}

// Snapshot returns a copy of the observable state. Loading is reported only
// while nothing usable is held.
func (p *RateProvider) Snapshot() model.Snapshot {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	usable := p.usableLocked()
	snapshot := model.Snapshot{
		ValidUntil: p.state.validUntil,
		Loading:    p.state.inFlight > 0 && !usable,
		Error:      p.state.err,
	}
	if p.state.rates != nil {
		snapshot.Rates = make([]model.ExchangeRate, len(p.state.rates))
		copy(snapshot.Rates, p.state.rates)
	}

	switch {
	case usable:
		snapshot.Status = model.StatusReady
	case p.state.inFlight > 0:
		snapshot.Status = model.StatusLoading
	case p.state.err != nil:
		snapshot.Status = model.StatusError
	case p.state.rateMap != nil:
		snapshot.Status = model.StatusError
		snapshot.Error = fmt.Errorf("%w: rate set expired at %s", ErrRatesUnavailable, p.state.validUntil.Format(time.RFC3339))
	default:
		snapshot.Status = model.StatusUninitialized
	}
	return snapshot
}

func (p *RateProvider) hasUsableRates() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.usableLocked()
}

func (p *RateProvider) usableLocked() bool {
	return p.state.rateMap != nil && freshness.IsValid(p.state.validUntil, p.now())
}

func (p *RateProvider) installLocked(set model.CachedRateSet) {
	p.state.rates = set.Rates
	p.state.rateMap = model.BuildRateMap(set.Rates)
	p.state.validUntil = set.ValidUntil
	p.state.err = nil
}

// persist mirrors set to the store unless a newer set was already written.
func (p *RateProvider) persist(ctx context.Context, seq uint64, set model.CachedRateSet) {
	if p.ephemeral {
		return
	}

	p.persistMutex.Lock()
	defer p.persistMutex.Unlock()

	if seq < p.persistedSeq {
		return
	}
	if !freshness.IsValid(set.ValidUntil, p.now()) {
		p.log.Debug("Not persisting expired exchange rates", "valid_until", set.ValidUntil)
		return
	}
	if err := p.store.Save(ctx, set); err == nil {
		p.persistedSeq = seq
	}
}

func (p *RateProvider) refreshAheadDelay() (time.Duration, bool) {
	p.mutex.RLock()
	validUntil := p.state.validUntil
	held := p.state.rateMap != nil
	p.mutex.RUnlock()

	if !held {
		return 0, false
	}
	d := freshness.RefreshAheadInstant(validUntil).Sub(p.now())
	if d <= 0 {
		return 0, false
	}
	return d, true
}

func (p *RateProvider) observeRefresh(result string) {
	if p.metrics != nil {
		p.metrics.RefreshTotal.WithLabelValues(result).Inc()
	}
}

func (p *RateProvider) observeDuration(d time.Duration) {
	if p.metrics != nil {
		p.metrics.RefreshDuration.Observe(d.Seconds())
	}
}

func (p *RateProvider) observeConversion(result string) {
	if p.metrics != nil {
		p.metrics.ConversionsTotal.WithLabelValues(result).Inc()
	}
}

func (p *RateProvider) observeRateSet(set model.CachedRateSet) {
	if p.metrics != nil {
		p.metrics.RateSetValidUntil.Set(float64(set.ValidUntil.Unix()))
		p.metrics.RateSetSize.Set(float64(len(set.Rates)))
	}
}
