package authstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	creds         *Credentials
	signInErr     error
	signUpSession bool
	signUpErr     error
	resolveErr    error
	signOutErr    error
	signOutTokens []string
	resolveCalls  int
}

func (f *fakeBackend) SignIn(_ context.Context, _, _ string) (*Credentials, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.creds, nil
}

func (f *fakeBackend) SignUp(_ context.Context, _, _, _ string) (*Credentials, bool, error) {
	if f.signUpErr != nil {
		return nil, false, f.signUpErr
	}
	if !f.signUpSession {
		return nil, false, nil
	}
	return f.creds, true, nil
}

func (f *fakeBackend) SignOutGlobal(_ context.Context, token string) error {
	f.signOutTokens = append(f.signOutTokens, token)
	return f.signOutErr
}

func (f *fakeBackend) ResolveToken(_ context.Context, _ string) (*Identity, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	identity := f.creds.Identity
	return &identity, nil
}

func adaCreds() *Credentials {
	return &Credentials{
		Identity: Identity{ID: "staff-1", Email: "ada@gridco.example", DisplayName: "Ada Obi"},
		Token:    "token-1",
	}
}

func TestSignInEstablishesSessionAndNotifies(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	local := NewMemoryStore()
	store := NewStore(backend, local)

	var seen []*Identity
	unsubscribe := store.Subscribe(func(id *Identity) { seen = append(seen, id) })
	defer unsubscribe()

	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))

	current := store.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "staff-1", current.ID)
	assert.False(t, store.Loading())

	token, ok := local.Get(accessTokenKey)
	require.True(t, ok)
	assert.Equal(t, "token-1", token)

	// resetBeforeAuth notifies nil first, then the signed-in identity.
	require.Len(t, seen, 2)
	assert.Nil(t, seen[0])
	require.NotNil(t, seen[1])
	assert.Equal(t, "staff-1", seen[1].ID)
}

func TestSignInPurgesStaleStateFirst(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	local := NewMemoryStore()
	require.NoError(t, local.Set(accessTokenKey, "stale-token"))
	store := NewStore(backend, local)

	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))

	// The stale token is signed out globally before the fresh sign-in.
	assert.Equal(t, []string{"stale-token"}, backend.signOutTokens)
	token, _ := local.Get(accessTokenKey)
	assert.Equal(t, "token-1", token)
}

func TestSignInProceedsWhenGlobalSignOutFails(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds(), signOutErr: errors.New("backend unreachable")}
	local := NewMemoryStore()
	require.NoError(t, local.Set(accessTokenKey, "stale-token"))
	store := NewStore(backend, local)

	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))
	require.NotNil(t, store.CurrentUser())
}

func TestSignInFailureLeavesSignedOut(t *testing.T) {
	backend := &fakeBackend{signInErr: errors.New("invalid email or password")}
	local := NewMemoryStore()
	store := NewStore(backend, local)

	err := store.SignIn(context.Background(), "ada@gridco.example", "wrong")

	require.Error(t, err)
	assert.Nil(t, store.CurrentUser())
	_, ok := local.Get(accessTokenKey)
	assert.False(t, ok)
}

func TestSignUpWithoutImmediateSession(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds(), signUpSession: false}
	store := NewStore(backend, NewMemoryStore())

	established, err := store.SignUp(context.Background(), "ada@gridco.example", "hunter22", "Ada Obi")

	require.NoError(t, err)
	assert.False(t, established)
	assert.Nil(t, store.CurrentUser())
}

func TestSignUpWithImmediateSession(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds(), signUpSession: true}
	local := NewMemoryStore()
	store := NewStore(backend, local)

	established, err := store.SignUp(context.Background(), "ada@gridco.example", "hunter22", "Ada Obi")

	require.NoError(t, err)
	assert.True(t, established)
	require.NotNil(t, store.CurrentUser())
	token, _ := local.Get(accessTokenKey)
	assert.Equal(t, "token-1", token)
}

func TestSignOutIdempotent(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	store := NewStore(backend, NewMemoryStore())

	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))
	require.NoError(t, store.SignOut(context.Background()))
	assert.Nil(t, store.CurrentUser())

	// A second sign-out with no session is a no-op, not an error.
	require.NoError(t, store.SignOut(context.Background()))
}

func TestSignOutClearsLocalStateEvenOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	local := NewMemoryStore()
	store := NewStore(backend, local)
	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))

	backend.signOutErr = errors.New("backend unreachable")
	err := store.SignOut(context.Background())

	require.Error(t, err)
	assert.Nil(t, store.CurrentUser())
	_, ok := local.Get(accessTokenKey)
	assert.False(t, ok)
}

func TestResolveRestoresCachedSession(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	local := NewMemoryStore()
	require.NoError(t, local.Set(accessTokenKey, "token-1"))
	store := NewStore(backend, local)

	assert.True(t, store.Loading())
	store.Resolve(context.Background())

	assert.False(t, store.Loading())
	require.NotNil(t, store.CurrentUser())
	assert.Equal(t, "staff-1", store.CurrentUser().ID)
}

func TestResolveRejectedTokenCleansUp(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds(), resolveErr: errors.New("session revoked or expired")}
	local := NewMemoryStore()
	require.NoError(t, local.Set(accessTokenKey, "revoked-token"))
	store := NewStore(backend, local)

	store.Resolve(context.Background())

	assert.False(t, store.Loading())
	assert.Nil(t, store.CurrentUser())
	_, ok := local.Get(accessTokenKey)
	assert.False(t, ok, "a token the backend rejects must not linger locally")
}

func TestResolveWithoutCachedToken(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	store := NewStore(backend, NewMemoryStore())

	store.Resolve(context.Background())

	assert.False(t, store.Loading())
	assert.Nil(t, store.CurrentUser())
	assert.Zero(t, backend.resolveCalls)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	backend := &fakeBackend{creds: adaCreds()}
	store := NewStore(backend, NewMemoryStore())

	calls := 0
	unsubscribe := store.Subscribe(func(*Identity) { calls++ })
	unsubscribe()

	require.NoError(t, store.SignIn(context.Background(), "ada@gridco.example", "hunter22"))
	assert.Zero(t, calls)
}
