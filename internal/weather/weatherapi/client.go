// Package weatherapi implements the remote weather provider client against
// the WeatherAPI.com HTTP contract.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/provider/resilience"
	"github.com/nimbusapp/nimbus/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "weatherapi"

	// DefaultBaseURL is the WeatherAPI.com v1 base URL.
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	// forecastDays is fixed: current conditions plus a 7-day outlook.
	forecastDays = 7
)

// ClientConfig holds configuration for the WeatherAPI client.
type ClientConfig struct {
	// APIKey is the WeatherAPI.com API key (required).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a WeatherAPI.com client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new WeatherAPI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch retrieves the current conditions and 7-day forecast for a city or
// coordinate query, with air quality enabled.
func (c *Client) Fetch(ctx context.Context, query string) (*weather.Snapshot, error) {
	endpoint := fmt.Sprintf("%s/forecast.json?key=%s&q=%s&days=%d&aqi=yes",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query), forecastDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("provider request failed")
		return nil, fmt.Errorf("%w: %v", weather.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyStatus(resp)
	}

	var snap weather.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return &snap, nil
}

// City is one city search result.
type City struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Search returns cities matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]City, error) {
	endpoint := fmt.Sprintf("%s/search.json?key=%s&q=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyStatus(resp)
	}

	var cities []City
	if err := json.NewDecoder(resp.Body).Decode(&cities); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	return cities, nil
}

// errorBody is the provider's error envelope.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// classifyStatus maps a non-200 response onto the pipeline error taxonomy.
func (c *Client) classifyStatus(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return weather.ErrAuthRejected
	case resp.StatusCode == http.StatusNotFound:
		return weather.ErrCityNotFound
	case resp.StatusCode == http.StatusBadRequest:
		// The provider reports "no matching location" as 400 code 1006.
		if body.Error.Code == 1006 {
			return weather.ErrCityNotFound
		}
		return fmt.Errorf("%w: %s", weather.ErrProviderUnavailable, body.Error.Message)
	case resp.StatusCode >= 500:
		return weather.ErrProviderUnavailable
	default:
		return fmt.Errorf("%w: unexpected status %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}
}
