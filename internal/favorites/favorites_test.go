package favorites_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/favorites"
	"github.com/nimbusapp/nimbus/internal/kvstore"
)

func newService() *favorites.Service {
	return favorites.NewService(favorites.ServiceConfig{
		Store:  kvstore.NewMemoryStore(),
		Logger: zerolog.Nop(),
	})
}

func TestService_AddAndList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "Paris"))
	require.NoError(t, svc.Add(ctx, "Tokyo"))

	cities, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Tokyo"}, cities)
}

func TestService_DedupIgnoresCase(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "Paris"))
	require.NoError(t, svc.Add(ctx, "PARIS"))
	require.NoError(t, svc.Add(ctx, "  paris "))

	cities, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, cities, "original casing survives")
}

func TestService_Bound(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for i := 0; i < favorites.MaxFavorites; i++ {
		require.NoError(t, svc.Add(ctx, fmt.Sprintf("City %d", i)))
	}
	assert.ErrorIs(t, svc.Add(ctx, "One Too Many"), favorites.ErrFavoritesFull)

	// Re-adding an existing city is still fine at the bound.
	assert.NoError(t, svc.Add(ctx, "City 0"))
}

func TestService_Remove(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "Paris"))
	require.NoError(t, svc.Add(ctx, "Tokyo"))
	require.NoError(t, svc.Remove(ctx, "paris"))

	cities, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo"}, cities)

	assert.NoError(t, svc.Remove(ctx, "Atlantis"))
}

func TestService_Contains(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "Paris"))

	got, err := svc.Contains(ctx, "PARIS")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.Contains(ctx, "Tokyo")
	require.NoError(t, err)
	assert.False(t, got)
}
