package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/telcoassist/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	state := domain.NewDialogState("s1")
	state.CurrentIntent = domain.IntentQueryPlans
	state.Slots["price_max"] = 100.0
	require.NoError(t, store.Save(ctx, "s1", state))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.IntentQueryPlans, got.CurrentIntent)
	assert.Equal(t, 100.0, got.Slots["price_max"])
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	got, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewDialogState("s1")))
	time.Sleep(30 * time.Millisecond)

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreStoresSnapshot(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	state := domain.NewDialogState("s1")
	require.NoError(t, store.Save(ctx, "s1", state))

	// Mutations after Save must not leak into the stored copy.
	state.Slots["price_max"] = 100.0

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, got.Slots, "price_max")
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewDialogState("s1")))
	require.NoError(t, store.Delete(ctx, "s1"))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
