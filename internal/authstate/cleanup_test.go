package authstate

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	*MemoryStore
	failKeys map[string]bool
}

func (f *flakyStore) Remove(key string) error {
	if f.failKeys[key] {
		return errors.New("remove refused")
	}
	return f.MemoryStore.Remove(key)
}

func TestCleanupAuthStatePurgesOnlySessionArtifacts(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(SessionKeyPrefix+"access_token", "tok"))
	require.NoError(t, store.Set(SessionKeyPrefix+"refresh_token", "ref"))
	require.NoError(t, store.Set("cache.fr-sess.primary", "backend-owned"))
	require.NoError(t, store.Set("theme", "dark"))
	require.NoError(t, store.Set("draft.report", "sparks near pole 12"))

	CleanupAuthState(store)

	assert.Equal(t, []string{"draft.report", "theme"}, store.Keys())
}

func TestCleanupAuthStateIdempotent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(SessionKeyPrefix+"access_token", "tok"))
	require.NoError(t, store.Set("theme", "dark"))

	CleanupAuthState(store)
	after := store.Keys()
	CleanupAuthState(store)

	assert.Equal(t, after, store.Keys())
}

func TestCleanupAuthStateSkipsFailingKeys(t *testing.T) {
	store := &flakyStore{
		MemoryStore: NewMemoryStore(),
		failKeys:    map[string]bool{SessionKeyPrefix + "access_token": true},
	}
	require.NoError(t, store.Set(SessionKeyPrefix+"access_token", "tok"))
	require.NoError(t, store.Set(SessionKeyPrefix+"refresh_token", "ref"))

	CleanupAuthState(store)

	// The stuck key lingers but the other one is still purged.
	assert.Equal(t, []string{SessionKeyPrefix + "access_token"}, store.Keys())
}

func TestCleanupAuthStateToleratesNilStores(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(SessionKeyPrefix+"access_token", "tok"))

	CleanupAuthState(nil, store, nil)

	assert.Empty(t, store.Keys())
}

func TestCleanupAuthStateSpansEveryStore(t *testing.T) {
	memory := NewMemoryStore()
	require.NoError(t, memory.Set(SessionKeyPrefix+"access_token", "tok"))

	durable, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	require.NoError(t, durable.Set(SessionKeyPrefix+"access_token", "tok"))
	require.NoError(t, durable.Set("locale", "en-NG"))

	CleanupAuthState(memory, durable)

	assert.Empty(t, memory.Keys())
	assert.Equal(t, []string{"locale"}, durable.Keys())
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(SessionKeyPrefix+"access_token", "tok"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	val, ok := second.Get(SessionKeyPrefix + "access_token")
	require.True(t, ok)
	assert.Equal(t, "tok", val)
}
