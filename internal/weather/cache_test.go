package weather_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/weather"
)

func testSnapshot(city string, tempC float64) *weather.Snapshot {
	return &weather.Snapshot{
		Location: weather.Location{Name: city, Country: "France", Lat: 48.86, Lon: 2.35},
		Current: weather.Current{
			TempC:     tempC,
			TempF:     tempC*9/5 + 32,
			Condition: weather.Condition{Text: "Sunny", Code: weather.CodeClear},
			Humidity:  55,
			WindKph:   12,
			WindMph:   7.5,
			IsDay:     1,
		},
		Forecast: weather.Forecast{
			Days: []weather.ForecastDay{
				{
					Date: "2025-06-01",
					Day: weather.Day{
						MaxTempC: tempC + 3, MinTempC: tempC - 5, AvgTempC: tempC,
						MaxTempF: (tempC+3)*9/5 + 32, MinTempF: (tempC-5)*9/5 + 32,
						Condition: weather.Condition{Text: "Sunny", Code: weather.CodeClear},
					},
					Astro: weather.Astro{Sunrise: "05:51 AM", Sunset: "09:49 PM", MoonPhase: "Waxing Crescent"},
					Hours: []weather.Hour{
						{Time: "2025-06-01 12:00", TempC: tempC, IsDay: 1,
							Condition: weather.Condition{Text: "Sunny", Code: weather.CodeClear}},
					},
				},
			},
		},
	}
}

func TestCache_PutGet(t *testing.T) {
	cache := weather.NewCache(weather.CacheConfig{
		Store:  kvstore.NewMemoryStore(),
		Logger: zerolog.Nop(),
	})
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "Paris", testSnapshot("Paris", 18)))

	snap := cache.Get(ctx, "Paris")
	require.NotNil(t, snap)
	assert.Equal(t, "Paris", snap.Location.Name)
	assert.Equal(t, 18.0, snap.Current.TempC)

	// Keys are normalized: same city, different casing.
	assert.NotNil(t, cache.Get(ctx, "  PARIS "))
	assert.Nil(t, cache.Get(ctx, "Oslo"))
}

func TestCache_TTLBoundary(t *testing.T) {
	store := kvstore.NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	cache := weather.NewCache(weather.CacheConfig{
		Store:  store,
		Logger: zerolog.Nop(),
		TTL:    30 * time.Minute,
		Now:    func() time.Time { return now },
	})
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "Paris", testSnapshot("Paris", 18)))

	// Just inside the TTL the entry is served.
	now = base.Add(30*time.Minute - time.Second)
	assert.NotNil(t, cache.Get(ctx, "Paris"))

	// At the TTL it is a miss and the entry is physically removed.
	now = base.Add(30 * time.Minute)
	assert.Nil(t, cache.Get(ctx, "Paris"))
	assert.Equal(t, 0, store.Len())
}

func TestCache_OverwriteResetsTimestamp(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	cache := weather.NewCache(weather.CacheConfig{
		Store:  kvstore.NewMemoryStore(),
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return now },
	})
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "Paris", testSnapshot("Paris", 18)))

	now = base.Add(25 * time.Minute)
	require.NoError(t, cache.Put(ctx, "Paris", testSnapshot("Paris", 21)))

	// 35 minutes after the first write, 10 after the second: still fresh.
	now = base.Add(35 * time.Minute)
	snap := cache.Get(ctx, "Paris")
	require.NotNil(t, snap)
	assert.Equal(t, 21.0, snap.Current.TempC)
}

func TestCache_CorruptEntryRemoved(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := weather.NewCache(weather.CacheConfig{
		Store:  store,
		Logger: zerolog.Nop(),
	})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "weather:paris", "{not json"))
	assert.Nil(t, cache.Get(ctx, "Paris"))
	assert.Equal(t, 0, store.Len())
}

func TestCache_ClearAll(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := weather.NewCache(weather.CacheConfig{
		Store:  store,
		Logger: zerolog.Nop(),
	})
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "Paris", testSnapshot("Paris", 18)))
	require.NoError(t, cache.Put(ctx, "Oslo", testSnapshot("Oslo", 9)))
	// Unrelated keys survive a cache wipe.
	require.NoError(t, store.Set(ctx, "history:paris", "[]"))

	require.NoError(t, cache.ClearAll(ctx))

	assert.Nil(t, cache.Get(ctx, "Paris"))
	assert.Nil(t, cache.Get(ctx, "Oslo"))
	assert.Equal(t, 1, store.Len())
}
