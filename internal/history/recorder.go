// Package history keeps a bounded per-city time series of observed
// weather, used for trend charts. Records are keyed per calendar day:
// a second observation for the same city on the same day replaces the
// first rather than appending.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// MaxRecordsPerCity bounds each city's series. Oldest records by
// timestamp are evicted first.
const MaxRecordsPerCity = 30

const keyPrefix = "history:"

// Record is one observed day of weather for a city. Measurements are
// stored metric; readers convert for display.
type Record struct {
	ID            string    `json:"id"`
	City          string    `json:"city"`
	Timestamp     time.Time `json:"timestamp"`
	TempC         float64   `json:"temp_c"`
	Humidity      int       `json:"humidity"`
	WindKph       float64   `json:"wind_kph"`
	ConditionText string    `json:"condition_text"`
	ConditionCode int       `json:"condition_code"`
}

// RecorderConfig configures a NewRecorder call.
type RecorderConfig struct {
	Store  kvstore.Store
	Logger zerolog.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// Recorder reads and writes per-city history series backed by the
// key-value store.
type Recorder struct {
	store  kvstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewRecorder creates a history recorder.
func NewRecorder(cfg RecorderConfig) *Recorder {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Recorder{
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    now,
	}
}

var _ weather.Recorder = (*Recorder)(nil)

// Record upserts today's entry for the city from the snapshot's current
// reading and evicts beyond the per-city bound.
func (r *Recorder) Record(ctx context.Context, city string, snapshot *weather.Snapshot) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("history: empty city")
	}

	now := r.now()
	records, err := r.load(ctx, city)
	if err != nil {
		return err
	}

	entry := Record{
		ID:            uuid.NewString(),
		City:          city,
		Timestamp:     now,
		TempC:         snapshot.Current.TempC,
		Humidity:      snapshot.Current.Humidity,
		WindKph:       snapshot.Current.WindKph,
		ConditionText: snapshot.Current.Condition.Text,
		ConditionCode: snapshot.Current.Condition.Code,
	}

	replaced := false
	for i, rec := range records {
		if sameDay(rec.Timestamp, now) {
			entry.ID = rec.ID
			records[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, entry)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	if len(records) > MaxRecordsPerCity {
		records = records[len(records)-MaxRecordsPerCity:]
	}

	return r.save(ctx, city, records)
}

// ForCity returns the city's series in ascending timestamp order. A city
// with no history yields an empty slice.
func (r *Recorder) ForCity(ctx context.Context, city string) ([]Record, error) {
	return r.load(ctx, strings.TrimSpace(city))
}

// Clear removes the city's series.
func (r *Recorder) Clear(ctx context.Context, city string) error {
	err := r.store.Remove(ctx, storageKey(strings.TrimSpace(city)))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Cities lists every city with recorded history.
func (r *Recorder) Cities(ctx context.Context) ([]string, error) {
	keys, err := r.store.ListKeys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("history: list keys: %w", err)
	}

	cities := make([]string, 0, len(keys))
	for _, k := range keys {
		cities = append(cities, strings.TrimPrefix(k, keyPrefix))
	}
	sort.Strings(cities)
	return cities, nil
}

func (r *Recorder) load(ctx context.Context, city string) ([]Record, error) {
	raw, err := r.store.Get(ctx, storageKey(city))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("history: read %q: %w", city, err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		// A corrupt series is unrecoverable; start the city over.
		r.logger.Warn().Str("city", city).Err(err).Msg("corrupt history series, resetting")
		return []Record{}, nil
	}
	return records, nil
}

func (r *Recorder) save(ctx context.Context, city string, records []Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("history: encode %q: %w", city, err)
	}
	if err := r.store.Set(ctx, storageKey(city), string(payload)); err != nil {
		return fmt.Errorf("history: write %q: %w", city, err)
	}
	return nil
}

func storageKey(city string) string {
	return keyPrefix + strings.ToLower(city)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
