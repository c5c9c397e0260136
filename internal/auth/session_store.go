package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/persistence"
)

// ErrSessionNotFound indicates a session that is absent, expired, or revoked.
var ErrSessionNotFound = errors.New("session not found")

// sessionKeyPrefix namespaces all server-side session records in Redis.
const sessionKeyPrefix = "fault-auth:session:"

// SessionStore tracks active login sessions. Revoking a session invalidates
// any access token that references it, regardless of the token's own expiry.
type SessionStore interface {
	Create(ctx context.Context, staffID string) (*domain.Session, error)
	Get(ctx context.Context, staffID, sessionID string) (*domain.Session, error)
	Revoke(ctx context.Context, staffID, sessionID string) error
	RevokeAll(ctx context.Context, staffID string) error
}

type redisSessionStore struct {
	redis *persistence.Redis
	ttl   time.Duration
}

// NewRedisSessionStore builds a Redis-backed session registry.
func NewRedisSessionStore(r *persistence.Redis, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &redisSessionStore{redis: r, ttl: ttl}
}

func sessionKey(staffID, sessionID string) string {
	return fmt.Sprintf("%s%s:%s", sessionKeyPrefix, staffID, sessionID)
}

func (s *redisSessionStore) Create(ctx context.Context, staffID string) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Client.Set(ctx, sessionKey(staffID, session.ID), payload, s.ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *redisSessionStore) Get(ctx context.Context, staffID, sessionID string) (*domain.Session, error) {
	payload, err := s.redis.Client.Get(ctx, sessionKey(staffID, sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, staffID, sessionID string) error {
	return s.redis.Client.Del(ctx, sessionKey(staffID, sessionID)).Err()
}

// RevokeAll tears down every session for the staff member. Used for
// global sign-out so no stale session survives a fresh sign-in.
func (s *redisSessionStore) RevokeAll(ctx context.Context, staffID string) error {
	keys, err := s.redis.ScanKeys(ctx, sessionKeyPrefix+staffID+":*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redis.Client.Del(ctx, keys...).Err()
}
