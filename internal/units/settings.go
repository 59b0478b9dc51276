package units

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/kvstore"
)

const settingsKey = "settings:units"

// Settings holds the selected unit system for the process and persists it to
// the key-value store. It is constructed once at startup and passed to every
// consumer; there is no package-level mutable state.
type Settings struct {
	store  kvstore.Store
	logger zerolog.Logger

	mu     sync.RWMutex
	system System
}

// NewSettings creates a Settings instance, loading the persisted unit system
// if one exists. A storage read error is treated as a miss and logged.
func NewSettings(ctx context.Context, store kvstore.Store, logger zerolog.Logger) *Settings {
	s := &Settings{
		store:  store,
		logger: logger,
		system: Metric,
	}

	raw, err := store.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			logger.Warn().Err(err).Msg("failed to load unit system, using metric")
		}
		return s
	}

	if sys, err := Parse(raw); err == nil {
		s.system = sys
	}
	return s
}

// System returns the currently selected unit system.
func (s *Settings) System() System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// SetSystem changes the selected unit system and persists the choice.
// Storage write errors are logged, not surfaced; the in-memory value is
// authoritative for the rest of the process lifetime.
func (s *Settings) SetSystem(ctx context.Context, sys System) error {
	if !sys.Valid() {
		return errors.New("invalid unit system")
	}

	s.mu.Lock()
	s.system = sys
	s.mu.Unlock()

	if err := s.store.Set(ctx, settingsKey, string(sys)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist unit system")
	}
	return nil
}
