package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreReadWrite(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	s := NewSession(realm.Public)
	s.Put("cart", map[string]int{"1": 2})

	require.NoError(t, store.write(ctx, s))

	loaded, err := store.read(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), loaded.ID())
	assert.Equal(t, realm.Public, loaded.Realm())
	assert.Equal(t, map[string]int{"1": 2}, loaded.Get("cart"))
}

func TestInMemoryStoreReadMissing(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreDestroyIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	s := NewSession(realm.Admin)
	require.NoError(t, store.write(ctx, s))

	require.NoError(t, store.destroy(ctx, s.ID()))

	// Second destroy of the same id is a no-op, not an error.
	require.NoError(t, store.destroy(ctx, s.ID()))

	_, err := store.read(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreGC(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	fresh := NewSession(realm.Public)
	require.NoError(t, store.write(ctx, fresh))

	idle := NewSession(realm.Public)
	idle.lastActivityAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.write(ctx, idle))

	old := NewSession(realm.Public)
	old.createdAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.write(ctx, old))

	require.NoError(t, store.gc(ctx, 1*time.Hour, 24*time.Hour))

	_, err := store.read(ctx, fresh.ID())
	assert.NoError(t, err)

	_, err = store.read(ctx, idle.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.read(ctx, old.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

// Racing saves of the same identifier must serialize to one complete
// snapshot, never a torn record.
func TestInMemoryStoreConcurrentWrites(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	base := NewSession(realm.Public)
	require.NoError(t, store.write(ctx, base))

	const writers = 16

	snapshots := make([]*Session, writers)
	for i := range snapshots {
		clone := NewSession(realm.Public)
		clone.id = base.id
		clone.Put("writer", i)
		snapshots[i] = clone
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.write(ctx, snapshots[i]))
		}()
	}
	wg.Wait()

	final, err := store.read(ctx, base.id)
	require.NoError(t, err)

	winner, ok := final.Get("writer").(int)
	require.True(t, ok, "final state must be one of the written snapshots")
	assert.GreaterOrEqual(t, winner, 0)
	assert.Less(t, winner, writers)
}

// Every read hands out an independent copy. Mutating a loaded session
// (its attributes, nested maps, or principal) must never reach the
// stored record until it is written back.
func TestInMemoryStoreReadReturnsCopy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	s := NewSession(realm.Public)
	s.Put("cart", map[string]any{"7": 1})
	s.SetPrincipal(Principal{UserID: 1, Username: "amara"})
	require.NoError(t, store.write(ctx, s))

	first, err := store.read(ctx, s.ID())
	require.NoError(t, err)

	second, err := store.read(ctx, s.ID())
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	first.Put("theme", "dark")
	first.Get("cart").(map[string]any)["7"] = 99
	first.Principal().Username = "mallory"

	reloaded, err := store.read(ctx, s.ID())
	require.NoError(t, err)
	assert.Nil(t, reloaded.Get("theme"))
	assert.Equal(t, map[string]any{"7": 1}, reloaded.Get("cart"))
	assert.Equal(t, "amara", reloaded.Principal().Username)
}

func TestInMemoryStoreWriteSnapshots(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	s := NewSession(realm.Public)
	require.NoError(t, store.write(ctx, s))

	// Mutation after the save belongs to the caller, not the store.
	s.Put("theme", "dark")

	loaded, err := store.read(ctx, s.ID())
	require.NoError(t, err)
	assert.Nil(t, loaded.Get("theme"))
}

func TestManagerLazyExpiry(t *testing.T) {
	store := NewInMemoryStore()
	m := NewManager(realm.Public, store, testSessionConfig())

	ctx := context.Background()

	s := NewSession(realm.Public)
	s.lastActivityAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.write(ctx, s))

	assert.False(t, m.validate(ctx, s))

	// Expired records are deleted on discovery.
	_, err := store.read(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerMigrateReplacesID(t *testing.T) {
	store := NewInMemoryStore()
	m := NewManager(realm.Admin, store, testSessionConfig())

	ctx := context.Background()

	s := NewSession(realm.Admin)
	oldID := s.ID()
	oldToken := s.Get("csrf_token")
	require.NoError(t, store.write(ctx, s))

	require.NoError(t, m.Migrate(ctx, s))

	assert.NotEqual(t, oldID, s.ID())
	assert.NotEqual(t, oldToken, s.Get("csrf_token"))

	_, err := store.read(ctx, oldID)
	assert.ErrorIs(t, err, ErrNotFound)
}
