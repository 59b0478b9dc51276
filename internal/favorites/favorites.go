// Package favorites manages the user's saved city list.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/kvstore"
)

// MaxFavorites bounds the saved city list.
const MaxFavorites = 20

const storageKey = "favorites:cities"

// ErrFavoritesFull is returned when adding to a full list.
var ErrFavoritesFull = errors.New("favorites: list is full")

// ServiceConfig configures a NewService call.
type ServiceConfig struct {
	Store  kvstore.Store
	Logger zerolog.Logger
}

// Service owns the persisted favorite city list. Cities are compared
// case-insensitively but stored with the casing first given.
type Service struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// NewService creates a favorites service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{store: cfg.Store, logger: cfg.Logger}
}

// List returns the favorites in the order they were added.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.load(ctx)
}

// Add appends a city. Adding a city already present (any casing) is a
// no-op; adding past the bound fails with ErrFavoritesFull.
func (s *Service) Add(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("favorites: empty city")
	}

	cities, err := s.load(ctx)
	if err != nil {
		return err
	}

	for _, c := range cities {
		if strings.EqualFold(c, city) {
			return nil
		}
	}
	if len(cities) >= MaxFavorites {
		return ErrFavoritesFull
	}

	return s.save(ctx, append(cities, city))
}

// Remove deletes a city by case-insensitive match. Removing an absent
// city is a no-op.
func (s *Service) Remove(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)

	cities, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, c := range cities {
		if strings.EqualFold(c, city) {
			return s.save(ctx, append(cities[:i], cities[i+1:]...))
		}
	}
	return nil
}

// Contains reports whether the city is saved, ignoring case.
func (s *Service) Contains(ctx context.Context, city string) (bool, error) {
	cities, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cities {
		if strings.EqualFold(c, strings.TrimSpace(city)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) load(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("favorites: read: %w", err)
	}

	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt favorites list, resetting")
		return []string{}, nil
	}
	return cities, nil
}

func (s *Service) save(ctx context.Context, cities []string) error {
	payload, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("favorites: encode: %w", err)
	}
	if err := s.store.Set(ctx, storageKey, string(payload)); err != nil {
		return fmt.Errorf("favorites: write: %w", err)
	}
	return nil
}
