// Package search wraps city lookup with a small in-memory record of
// recent queries.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/weather/weatherapi"
)

// MaxRecentQueries bounds the recent-query list.
const MaxRecentQueries = 10

// CityFinder is the city lookup capability, satisfied by the provider
// client.
type CityFinder interface {
	Search(ctx context.Context, query string) ([]weatherapi.City, error)
}

// ServiceConfig configures a NewService call.
type ServiceConfig struct {
	Finder CityFinder
	Logger zerolog.Logger
}

// Service performs city searches and remembers the latest queries for
// the search screen's suggestions. The recent list is in-memory only and
// resets on restart.
type Service struct {
	finder CityFinder
	logger zerolog.Logger

	mu     sync.Mutex
	recent []string
}

// NewService creates a search service with an empty recent list.
func NewService(cfg ServiceConfig) *Service {
	return &Service{finder: cfg.Finder, logger: cfg.Logger}
}

// Search looks up cities matching the query and records the query on
// success. Blank queries return no results and are not recorded.
func (s *Service) Search(ctx context.Context, query string) ([]weatherapi.City, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	cities, err := s.finder.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	s.remember(query)
	return cities, nil
}

// Recent returns the latest queries, most recent first.
func (s *Service) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// ClearRecent empties the recent-query list.
func (s *Service) ClearRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = nil
}

// remember moves the query to the front of the recent list, deduplicated
// case-insensitively, and trims past the bound.
func (s *Service) remember(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.recent)+1)
	kept = append(kept, query)
	for _, q := range s.recent {
		if !strings.EqualFold(q, query) {
			kept = append(kept, q)
		}
	}
	if len(kept) > MaxRecentQueries {
		kept = kept[:MaxRecentQueries]
	}
	s.recent = kept
}
