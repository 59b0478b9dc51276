// Package connectivity reports whether the device can actually reach the
// internet. Being attached to a network does not count: a probe must get a
// response from a known endpoint.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Probe reports current connectivity.
type Probe interface {
	// Online reports whether the internet is reachable right now.
	Online(ctx context.Context) bool
}

// Watcher delivers connectivity transitions.
type Watcher interface {
	// Watch invokes fn with the new state on every transition until the
	// context is cancelled. The first observation is also delivered.
	Watch(ctx context.Context, fn func(online bool))
}

// HTTPProbeConfig holds configuration for the HTTP connectivity probe.
type HTTPProbeConfig struct {
	// Endpoint is the URL probed with a HEAD request
	// (default: https://www.gstatic.com/generate_204).
	Endpoint string

	// Timeout bounds one probe attempt (default: 3 seconds).
	Timeout time.Duration

	// Interval is the polling period for Watch (default: 15 seconds).
	Interval time.Duration

	// Logger for probe operations.
	Logger zerolog.Logger
}

// HTTPProbe checks reachability by issuing a HEAD request to a lightweight
// well-known endpoint.
type HTTPProbe struct {
	endpoint string
	client   *http.Client
	interval time.Duration
	logger   zerolog.Logger

	mu   sync.Mutex
	last *bool
}

// NewHTTPProbe creates an HTTP connectivity probe.
func NewHTTPProbe(cfg HTTPProbeConfig) *HTTPProbe {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://www.gstatic.com/generate_204"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = 15 * time.Second
	}

	return &HTTPProbe{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		interval: interval,
		logger:   cfg.Logger,
	}
}

// Online reports whether the probe endpoint answered.
func (p *HTTPProbe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode < 500
}

// Watch polls the endpoint and invokes fn on every state transition.
// It blocks until the context is cancelled; run it in its own goroutine.
func (p *HTTPProbe) Watch(ctx context.Context, fn func(online bool)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.check(ctx, fn)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx, fn)
		}
	}
}

func (p *HTTPProbe) check(ctx context.Context, fn func(online bool)) {
	online := p.Online(ctx)

	p.mu.Lock()
	changed := p.last == nil || *p.last != online
	p.last = &online
	p.mu.Unlock()

	if changed {
		p.logger.Info().Bool("online", online).Msg("connectivity changed")
		fn(online)
	}
}

// Static is a fixed-state probe for tests and offline tooling.
type Static struct {
	mu     sync.Mutex
	online bool
}

// NewStatic creates a probe pinned to the given state.
func NewStatic(online bool) *Static {
	return &Static{online: online}
}

// Online reports the pinned state.
func (s *Static) Online(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set changes the pinned state.
func (s *Static) Set(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

var (
	_ Probe   = (*HTTPProbe)(nil)
	_ Watcher = (*HTTPProbe)(nil)
	_ Probe   = (*Static)(nil)
)
