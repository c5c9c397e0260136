package authstate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fault-report-service/internal/auth"
	"github.com/spec-kit/fault-report-service/internal/authstate"
	"github.com/spec-kit/fault-report-service/internal/config"
	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/service"
)

type memProfileRepo struct {
	profiles map[string]*domain.StaffProfile
	nextID   int
}

func (m *memProfileRepo) Create(_ context.Context, profile *domain.StaffProfile) error {
	m.nextID++
	profile.ID = fmt.Sprintf("staff-%d", m.nextID)
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *memProfileRepo) Update(_ context.Context, profile *domain.StaffProfile) error {
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *memProfileRepo) GetByID(_ context.Context, id string) (*domain.StaffProfile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (m *memProfileRepo) GetByEmail(_ context.Context, email string) (*domain.StaffProfile, error) {
	for _, profile := range m.profiles {
		if profile.Email == email {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memSessionStore struct {
	sessions map[string]*domain.Session
	nextID   int
}

func (m *memSessionStore) Create(_ context.Context, staffID string) (*domain.Session, error) {
	m.nextID++
	session := &domain.Session{
		ID:        fmt.Sprintf("session-%d", m.nextID),
		StaffID:   staffID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	m.sessions[staffID+":"+session.ID] = session
	return session, nil
}

func (m *memSessionStore) Get(_ context.Context, staffID, sessionID string) (*domain.Session, error) {
	session, ok := m.sessions[staffID+":"+sessionID]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessionStore) Revoke(_ context.Context, staffID, sessionID string) error {
	delete(m.sessions, staffID+":"+sessionID)
	return nil
}

func (m *memSessionStore) RevokeAll(_ context.Context, staffID string) error {
	for key, session := range m.sessions {
		if session.StaffID == staffID {
			delete(m.sessions, key)
		}
	}
	return nil
}

type memConfirmationStore struct{}

func (memConfirmationStore) Issue(context.Context, string) (string, error) {
	return "confirm-1", nil
}

func (memConfirmationStore) Redeem(context.Context, string) (string, error) {
	return "", auth.ErrConfirmationNotFound
}

func newIntegrationBackend(t *testing.T) *authstate.ServiceBackend {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 5
	cfg.Auth.BcryptCost = 4

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		ProfileRepo:       &memProfileRepo{profiles: make(map[string]*domain.StaffProfile)},
		SessionStore:      &memSessionStore{sessions: make(map[string]*domain.Session)},
		ConfirmationStore: memConfirmationStore{},
	})
	return authstate.NewServiceBackend(authService)
}

// Drives the store through the real auth service: sign-up, restart-style
// resolve from the cached token, then sign-out.
func TestStoreOverAuthService(t *testing.T) {
	backend := newIntegrationBackend(t)
	local := authstate.NewMemoryStore()
	store := authstate.NewStore(backend, local)
	ctx := context.Background()

	established, err := store.SignUp(ctx, "ada@gridco.example", "hunter22", "Ada Obi")
	require.NoError(t, err)
	require.True(t, established)
	require.NotNil(t, store.CurrentUser())
	assert.Equal(t, "Ada Obi", store.CurrentUser().DisplayName)

	// A fresh store over the same local cache resolves the cached session,
	// the way a restarted client would.
	resumed := authstate.NewStore(backend, local)
	resumed.Resolve(ctx)
	require.NotNil(t, resumed.CurrentUser())
	assert.Equal(t, "ada@gridco.example", resumed.CurrentUser().Email)

	require.NoError(t, store.SignOut(ctx))
	assert.Nil(t, store.CurrentUser())

	// Sign-out revoked every session, so the resumed store's next resolve
	// finds nothing.
	resumed.Resolve(ctx)
	assert.Nil(t, resumed.CurrentUser())

	err = store.SignIn(ctx, "ada@gridco.example", "wrong")
	require.Error(t, err)
	assert.Nil(t, store.CurrentUser())

	require.NoError(t, store.SignIn(ctx, "ada@gridco.example", "hunter22"))
	require.NotNil(t, store.CurrentUser())
}
