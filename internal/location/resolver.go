package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/connectivity"
	"github.com/nimbusapp/nimbus/internal/kvstore"
)

const (
	// DefaultFixTTL is how long a cached fix counts as fresh.
	DefaultFixTTL = 5 * time.Minute

	// DefaultLiveTimeout bounds one live acquisition attempt.
	DefaultLiveTimeout = 15 * time.Second

	fixCacheKey = "location:fix"
)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Device is the platform location capability (required).
	Device Device

	// Store caches the last resolved fix (required).
	Store kvstore.Store

	// Probe reports connectivity (required).
	Probe connectivity.Probe

	// Logger for resolver operations.
	Logger zerolog.Logger

	// FixTTL is the cached fix time-to-live (default: 5 minutes).
	FixTTL time.Duration

	// LiveTimeout bounds each live attempt (default: 15 seconds).
	LiveTimeout time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Resolver acquires a geographic fix. Each Resolve call produces exactly one
// status; there are no retries beyond the documented lower-accuracy one.
type Resolver struct {
	device      Device
	store       kvstore.Store
	probe       connectivity.Probe
	logger      zerolog.Logger
	fixTTL      time.Duration
	liveTimeout time.Duration
	now         func() time.Time
}

// NewResolver creates a location resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	fixTTL := cfg.FixTTL
	if fixTTL == 0 {
		fixTTL = DefaultFixTTL
	}

	liveTimeout := cfg.LiveTimeout
	if liveTimeout == 0 {
		liveTimeout = DefaultLiveTimeout
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		device:      cfg.Device,
		store:       cfg.Store,
		probe:       cfg.Probe,
		logger:      cfg.Logger,
		fixTTL:      fixTTL,
		liveTimeout: liveTimeout,
		now:         now,
	}
}

// Resolve acquires a fix, in priority order: connectivity gate, cached fix,
// capability checks, live acquisition with bounded wait and lower-accuracy
// retry, last-known fallback. Expected failures come back as a Result
// status; the returned error is non-nil only when the permission subsystem
// itself faults.
func (r *Resolver) Resolve(ctx context.Context, allowCached bool) (*Result, error) {
	// 1. Offline: a cached fix of any age beats nothing; no live attempt.
	if !r.probe.Online(ctx) {
		if fix := r.cachedFix(ctx, 0); fix != nil {
			return &Result{Fix: fix, Status: StatusCached, Message: "Using saved location."}, nil
		}
		return &Result{Status: StatusNoInternet, Message: "No internet connection."}, nil
	}

	// 2. Fresh cached fix, when the caller allows it.
	if allowCached {
		if fix := r.cachedFix(ctx, r.fixTTL); fix != nil {
			return &Result{Fix: fix, Status: StatusCached, Message: "Using recent location."}, nil
		}
	}

	// 3. Location services off.
	enabled, err := r.device.ServiceEnabled(ctx)
	if err != nil {
		return r.degrade(ctx, err), nil
	}
	if !enabled {
		return &Result{
			Status:         StatusLocationDisabled,
			Message:        "Location services are disabled. Enable them in settings.",
			PromptSettings: true,
		}, nil
	}

	// 4. Permission. Faults from the permission subsystem propagate.
	granted, err := r.device.HasPermission(ctx)
	if err != nil {
		return nil, err
	}
	if !granted {
		granted, err = r.device.RequestPermission(ctx)
		if err != nil {
			return nil, err
		}
		if !granted {
			return &Result{
				Status:         StatusPermissionDenied,
				Message:        "Location permission denied. Grant it in settings.",
				PromptSettings: true,
			}, nil
		}
	}

	// 5. Live acquisition, high accuracy first, lower accuracy on timeout.
	fix, err := r.liveFix(ctx, AccuracyHigh)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return r.degrade(ctx, err), nil
		}

		r.logger.Warn().Msg("high accuracy fix timed out, retrying at low accuracy")
		fix, err = r.liveFix(ctx, AccuracyLow)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				if last := r.lastKnown(ctx); last != nil {
					return &Result{Fix: last, Status: StatusCached, Message: "Timed out. Using last known location."}, nil
				}
				return &Result{Status: StatusTimeout, Message: "Timed out acquiring location."}, nil
			}
			return r.degrade(ctx, err), nil
		}
	}

	// 6. Success: persist for the next 5 minutes.
	r.storeFix(ctx, fix)
	return &Result{Fix: fix, Status: StatusSuccess}, nil
}

// liveFix acquires one live fix under the bounded wait. The deadline-bearing
// context cancels the platform call if it supports it; if not, the loser
// runs to completion and its result is discarded.
func (r *Resolver) liveFix(ctx context.Context, accuracy Accuracy) (*Fix, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.liveTimeout)
	defer cancel()

	fix, err := r.device.CurrentFix(attemptCtx, accuracy)
	if err != nil {
		if attemptCtx.Err() != nil {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = r.now()
	}
	return fix, nil
}

// degrade handles unexpected failures in steps 3-6: try the last-known fix
// before reporting an error status.
func (r *Resolver) degrade(ctx context.Context, cause error) *Result {
	r.logger.Warn().Err(cause).Msg("location acquisition failed, trying last known fix")

	if last := r.lastKnown(ctx); last != nil {
		return &Result{Fix: last, Status: StatusCached, Message: "Using last known location."}
	}
	return &Result{Status: StatusError, Message: "Could not determine location."}
}

// lastKnown returns the platform's last known fix, falling back to the
// stored one.
func (r *Resolver) lastKnown(ctx context.Context) *Fix {
	if fix, err := r.device.LastKnownFix(ctx); err == nil && fix != nil {
		return fix
	}
	return r.cachedFix(ctx, 0)
}

// cachedFix reads the stored fix. A zero maxAge accepts any age.
// Storage failures are logged and treated as a miss.
func (r *Resolver) cachedFix(ctx context.Context, maxAge time.Duration) *Fix {
	raw, err := r.store.Get(ctx, fixCacheKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			r.logger.Warn().Err(err).Msg("fix cache read failed")
		}
		return nil
	}

	var fix Fix
	if err := json.Unmarshal([]byte(raw), &fix); err != nil {
		r.logger.Warn().Err(err).Msg("corrupt cached fix, removing")
		_ = r.store.Remove(ctx, fixCacheKey)
		return nil
	}

	if maxAge > 0 && r.now().Sub(fix.Timestamp) >= maxAge {
		return nil
	}
	return &fix
}

func (r *Resolver) storeFix(ctx context.Context, fix *Fix) {
	raw, err := json.Marshal(fix)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, fixCacheKey, string(raw)); err != nil {
		r.logger.Warn().Err(err).Msg("failed to cache fix")
	}
}
