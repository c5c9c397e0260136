package authstate

import (
	"context"
	"sync"
)

// Identity is the authenticated principal as seen by client components.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// Credentials bundle an identity with its access token.
type Credentials struct {
	Identity Identity
	Token    string
}

// Backend is the auth surface of the remote store. Implementations must
// treat SignOutGlobal as best-effort: it may be called with a token that is
// already invalid.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	// SignUp reports whether a session was established immediately. When
	// the backend requires out-of-band email confirmation it returns
	// (nil, false, nil) on success.
	SignUp(ctx context.Context, email, password, displayName string) (*Credentials, bool, error)
	SignOutGlobal(ctx context.Context, token string) error
	// ResolveToken answers the current-session query for a cached token.
	ResolveToken(ctx context.Context, token string) (*Identity, error)
}

const accessTokenKey = SessionKeyPrefix + "access_token"

// Store is the single canonical holder of session state in the process.
// It is the only writer; all other components read through it and react to
// changes via Subscribe.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	local   []KeyValueStore
	current *Identity
	loading bool

	subMu   sync.Mutex
	subs    map[int]func(*Identity)
	nextSub int
}

// NewStore builds a store over the backend and the local artifact stores.
// Loading stays true until Resolve completes the initial session lookup.
func NewStore(backend Backend, stores ...KeyValueStore) *Store {
	return &Store{
		backend: backend,
		local:   stores,
		loading: true,
		subs:    make(map[int]func(*Identity)),
	}
}

// CurrentUser returns the authenticated identity, or nil when signed out.
func (s *Store) CurrentUser() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loading is true only during the initial session resolution.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers a listener invoked on every session change. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func(*Identity)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Resolve performs the initial session lookup from locally cached
// artifacts. A cached token the backend no longer accepts leaves the store
// signed out rather than in a limbo state.
func (s *Store) Resolve(ctx context.Context) {
	var identity *Identity
	if token, ok := s.cachedToken(); ok {
		if resolved, err := s.backend.ResolveToken(ctx, token); err == nil {
			identity = resolved
		} else {
			CleanupAuthState(s.local...)
		}
	}

	s.mu.Lock()
	s.current = identity
	s.loading = false
	s.mu.Unlock()
	s.notify(identity)
}

// SignIn establishes a fresh session. Any stale local state is purged and a
// best-effort global sign-out issued first, so the new session never
// coexists with an old one. On failure the session remains absent.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.resetBeforeAuth(ctx)

	creds, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	s.persistArtifacts(creds)
	identity := creds.Identity
	s.setCurrent(&identity)
	return nil
}

// SignUp creates a new identity. It returns true when a session was
// established immediately; false means the backend requires email
// confirmation before sign-in and the store stays signed out.
func (s *Store) SignUp(ctx context.Context, email, password, displayName string) (bool, error) {
	s.resetBeforeAuth(ctx)

	creds, established, err := s.backend.SignUp(ctx, email, password, displayName)
	if err != nil {
		return false, err
	}
	if !established {
		return false, nil
	}

	s.persistArtifacts(creds)
	identity := creds.Identity
	s.setCurrent(&identity)
	return true, nil
}

// SignOut terminates the session. Signing out with no active session is not
// an error; only a backend communication failure is reported, and local
// state is cleared either way.
func (s *Store) SignOut(ctx context.Context) error {
	token, hadToken := s.cachedToken()

	var err error
	if hadToken {
		err = s.backend.SignOutGlobal(ctx, token)
	}

	CleanupAuthState(s.local...)
	s.setCurrent(nil)
	return err
}

// resetBeforeAuth is the pre-auth policy: purge local artifacts, then issue
// an unconditional best-effort global sign-out. Each step tolerates the
// failure of the prior one.
func (s *Store) resetBeforeAuth(ctx context.Context) {
	token, hadToken := s.cachedToken()
	CleanupAuthState(s.local...)
	if hadToken {
		_ = s.backend.SignOutGlobal(ctx, token)
	}
	s.setCurrent(nil)
}

func (s *Store) cachedToken() (string, bool) {
	for _, store := range s.local {
		if store == nil {
			continue
		}
		if token, ok := store.Get(accessTokenKey); ok && token != "" {
			return token, true
		}
	}
	return "", false
}

func (s *Store) persistArtifacts(creds *Credentials) {
	for _, store := range s.local {
		if store == nil {
			continue
		}
		_ = store.Set(accessTokenKey, creds.Token)
	}
}

func (s *Store) setCurrent(identity *Identity) {
	s.mu.Lock()
	s.current = identity
	s.loading = false
	s.mu.Unlock()
	s.notify(identity)
}

func (s *Store) notify(identity *Identity) {
	s.subMu.Lock()
	listeners := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(identity)
	}
}
