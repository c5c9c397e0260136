package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/fault-report-service/internal/persistence"
)

// ErrConfirmationNotFound indicates an unknown or expired confirmation token.
var ErrConfirmationNotFound = errors.New("confirmation token not found")

const confirmationKeyPrefix = "fault-auth:confirm:"

// ConfirmationStore issues and redeems one-shot email confirmation tokens.
type ConfirmationStore interface {
	Issue(ctx context.Context, staffID string) (string, error)
	Redeem(ctx context.Context, token string) (string, error)
}

type redisConfirmationStore struct {
	redis *persistence.Redis
	ttl   time.Duration
}

// NewRedisConfirmationStore builds a Redis-backed confirmation token store.
func NewRedisConfirmationStore(r *persistence.Redis, ttl time.Duration) ConfirmationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisConfirmationStore{redis: r, ttl: ttl}
}

func (s *redisConfirmationStore) Issue(ctx context.Context, staffID string) (string, error) {
	token := uuid.NewString()
	if err := s.redis.Client.Set(ctx, confirmationKeyPrefix+token, staffID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem returns the staff id the token was issued for and invalidates it.
func (s *redisConfirmationStore) Redeem(ctx context.Context, token string) (string, error) {
	key := confirmationKeyPrefix + token
	staffID, err := s.redis.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrConfirmationNotFound
	}
	if err != nil {
		return "", err
	}
	_ = s.redis.Client.Del(ctx, key).Err()
	return staffID, nil
}
