package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRefreshDebounce is the minimum gap between auto-refreshes triggered
// by connectivity regaining.
const DefaultRefreshDebounce = 10 * time.Second

// Provider defines the interface for the remote weather provider.
type Provider interface {
	// Fetch returns the snapshot for a city-or-coordinate query.
	Fetch(ctx context.Context, query string) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// Probe reports network connectivity. "Connected but internet unreachable"
// counts as offline.
type Probe interface {
	Online(ctx context.Context) bool
}

// Recorder receives every successfully fetched snapshot for history keeping.
type Recorder interface {
	Record(ctx context.Context, city string, snap *Snapshot) error
}

// Metrics receives pipeline instrumentation events. Implementations must be
// cheap and non-blocking.
type Metrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the fetch pipeline.
type ServiceConfig struct {
	// Provider is the remote weather provider (required).
	Provider Provider

	// Cache is the per-city snapshot cache (required).
	Cache *Cache

	// Probe reports connectivity (required).
	Probe Probe

	// Recorder receives fetched snapshots. Optional.
	Recorder Recorder

	// Metrics receives instrumentation events. Optional.
	Metrics Metrics

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// RefreshDebounce is the minimum gap between reconnect auto-refreshes
	// (default: 10 seconds).
	RefreshDebounce time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Result is the authoritative outcome of one pipeline invocation.
type Result struct {
	// Snapshot is the weather to display. Never nil when error is nil.
	Snapshot *Snapshot

	// Offline is set when the snapshot was served from cache because the
	// device has no connectivity.
	Offline bool

	// Stale is set when the snapshot was served from cache after a
	// provider failure.
	Stale bool

	// Warning is a user-facing notice attached to degraded results.
	Warning string
}

// Service orchestrates connectivity check, cache lookup, remote fetch and
// fallback-on-error. Steps execute strictly in that order within one call.
type Service struct {
	provider Provider
	cache    *Cache
	probe    Probe
	recorder Recorder
	metrics  Metrics
	logger   zerolog.Logger
	debounce time.Duration
	now      func() time.Time

	mu              sync.Mutex
	currentCity     string
	lastAutoRefresh time.Time
}

// NewService creates the fetch pipeline.
func NewService(cfg ServiceConfig) *Service {
	debounce := cfg.RefreshDebounce
	if debounce == 0 {
		debounce = DefaultRefreshDebounce
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		probe:    cfg.Probe,
		recorder: cfg.Recorder,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		debounce: debounce,
		now:      now,
	}
}

// Fetch resolves a city query into a weather result.
//
// Offline: serve cache or fail hard with ErrNoCachedData, never touching the
// network. Online: serve a fresh cache hit unless skipCache is set,
// otherwise call the provider; on provider failure fall back to a
// re-checked cache read with a warning, or surface the classified error.
func (s *Service) Fetch(ctx context.Context, query string, skipCache bool) (*Result, error) {
	city := strings.TrimSpace(query)
	if city == "" {
		return nil, ErrCityNotFound
	}

	s.mu.Lock()
	s.currentCity = city
	s.mu.Unlock()

	if !s.probe.Online(ctx) {
		if snap := s.cache.Get(ctx, city); snap != nil {
			s.logger.Info().Str("city", city).Msg("offline, serving cached snapshot")
			return &Result{
				Snapshot: snap,
				Offline:  true,
				Warning:  "No internet connection. Showing saved data.",
			}, nil
		}
		return nil, ErrNoCachedData
	}

	if !skipCache {
		if snap := s.cache.Get(ctx, city); snap != nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit(s.provider.Name(), "forecast")
			}
			return &Result{Snapshot: snap}, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss(s.provider.Name(), "forecast")
		}
	}

	start := time.Now()
	snap, err := s.provider.Fetch(ctx, city)
	if s.metrics != nil {
		s.metrics.RecordRequest(s.provider.Name(), "forecast", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("city", city).
			Str("provider", s.provider.Name()).
			Msg("provider fetch failed")

		// Only a freshly re-checked cache read counts as fallback here.
		if cached := s.cache.Get(ctx, city); cached != nil {
			return &Result{
				Snapshot: cached,
				Stale:    true,
				Warning:  "Could not refresh. Showing saved data.",
			}, nil
		}

		return nil, classify(err)
	}

	snap.LastUpdated = s.now()

	if err := s.cache.Put(ctx, city, snap); err != nil {
		// Persistence failures never block the primary flow.
		s.logger.Warn().Err(err).Str("city", city).Msg("failed to cache snapshot")
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, city, snap); err != nil {
			s.logger.Warn().Err(err).Str("city", city).Msg("failed to record history")
		}
	}

	return &Result{Snapshot: snap}, nil
}

// HandleConnectivityChange reacts to connectivity transitions. When the
// device comes back online while a city is set, the pipeline refreshes that
// city, debounced so flapping connections do not cause refresh storms.
// It returns the refresh result, or nil when no refresh was performed.
func (s *Service) HandleConnectivityChange(ctx context.Context, online bool) *Result {
	if !online {
		return nil
	}

	s.mu.Lock()
	city := s.currentCity
	sinceLastRefresh := s.now().Sub(s.lastAutoRefresh)
	if city == "" || sinceLastRefresh < s.debounce {
		s.mu.Unlock()
		return nil
	}
	s.lastAutoRefresh = s.now()
	s.mu.Unlock()

	s.logger.Info().Str("city", city).Msg("connectivity restored, refreshing")

	res, err := s.Fetch(ctx, city, true)
	if err != nil {
		s.logger.Warn().Err(err).Str("city", city).Msg("auto-refresh failed")
		return nil
	}
	return res
}

// CurrentCity returns the most recently requested city, if any.
func (s *Service) CurrentCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCity
}

// classify maps provider failures onto the user-facing error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAuthRejected),
		errors.Is(err, ErrCityNotFound),
		errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrNetworkUnreachable),
		errors.Is(err, ErrMalformedResponse):
		return err
	default:
		return fmt.Errorf("fetching weather: %w", err)
	}
}
