package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/history"
	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/weather"
)

type recorderFixture struct {
	recorder *history.Recorder
	store    *kvstore.MemoryStore
	now      time.Time
}

func newRecorderFixture() *recorderFixture {
	f := &recorderFixture{
		store: kvstore.NewMemoryStore(),
		now:   time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC),
	}
	f.recorder = history.NewRecorder(history.RecorderConfig{
		Store:  f.store,
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return f.now },
	})
	return f
}

func observation(tempC float64) *weather.Snapshot {
	return &weather.Snapshot{
		Current: weather.Current{
			TempC:     tempC,
			Humidity:  60,
			WindKph:   14,
			Condition: weather.Condition{Text: "Partly cloudy", Code: weather.CodePartlyCloudy},
		},
	}
}

func TestRecorder_RecordAndRead(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(21)))

	records, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Paris", records[0].City)
	assert.Equal(t, 21.0, records[0].TempC)
	assert.Equal(t, 60, records[0].Humidity)
	assert.NotEmpty(t, records[0].ID)
}

func TestRecorder_SameDayUpserts(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(18)))

	first, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, first, 1)

	f.now = f.now.Add(6 * time.Hour)
	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(24)))

	second, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, second, 1, "same calendar day must overwrite")
	assert.Equal(t, 24.0, second[0].TempC)
	assert.Equal(t, first[0].ID, second[0].ID, "upsert keeps the day's id")
}

func TestRecorder_NewDayAppends(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(18)))
	f.now = f.now.Add(24 * time.Hour)
	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(22)))

	records, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Timestamp.Before(records[1].Timestamp))
}

func TestRecorder_BoundEvictsOldest(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	for i := 0; i < history.MaxRecordsPerCity+5; i++ {
		require.NoError(t, f.recorder.Record(ctx, "Paris", observation(float64(i))))
		f.now = f.now.Add(24 * time.Hour)
	}

	records, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, records, history.MaxRecordsPerCity)
	// The five oldest observations (temps 0 through 4) were evicted.
	assert.Equal(t, 5.0, records[0].TempC)
	assert.Equal(t, float64(history.MaxRecordsPerCity+4), records[len(records)-1].TempC)
}

func TestRecorder_CitiesAreIndependent(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(21)))
	require.NoError(t, f.recorder.Record(ctx, "Tokyo", observation(28)))

	paris, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, paris, 1)
	assert.Equal(t, 21.0, paris[0].TempC)

	cities, err := f.recorder.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"paris", "tokyo"}, cities)
}

func TestRecorder_ClearCity(t *testing.T) {
	f := newRecorderFixture()
	ctx := context.Background()

	require.NoError(t, f.recorder.Record(ctx, "Paris", observation(21)))
	require.NoError(t, f.recorder.Clear(ctx, "Paris"))

	records, err := f.recorder.ForCity(ctx, "Paris")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Clearing a city with no history is a no-op.
	assert.NoError(t, f.recorder.Clear(ctx, "Atlantis"))
}

func TestRecorder_EmptyCityRejected(t *testing.T) {
	f := newRecorderFixture()
	assert.Error(t, f.recorder.Record(context.Background(), "  ", observation(21)))
}
