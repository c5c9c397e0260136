package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/repository"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated staff caller.
type Principal struct {
	Staff   *domain.StaffProfile
	Session *domain.Session
}

// AuthMiddleware validates bearer tokens against the session registry and
// loads principals. A token whose session has been revoked is rejected even
// if the token has not yet expired.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionStore
	profiles repository.StaffProfileRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionStore, profiles repository.StaffProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, profiles: profiles}
}

// Handle enforces authentication for staff routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session, err := m.sessions.Get(c.Context(), claims.StaffID, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperrors.NewUnauthorized("session revoked or expired")
		}
		return apperrors.MapError(err)
	}

	staff, err := m.profiles.GetByID(c.Context(), claims.StaffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("staff not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Staff: staff, Session: session})
	return c.Next()
}

// HandleOptional loads a principal when a valid token is presented but
// lets the request through either way. Sign-out uses this so that signing
// out with no active session stays a no-op rather than an error.
func (m *AuthMiddleware) HandleOptional(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return c.Next()
	}

	session, err := m.sessions.Get(c.Context(), claims.StaffID, claims.SessionID)
	if err != nil {
		return c.Next()
	}
	staff, err := m.profiles.GetByID(c.Context(), claims.StaffID)
	if err != nil {
		return c.Next()
	}

	c.Locals(principalKey, &Principal{Staff: staff, Session: session})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireSession ensures the caller holds a valid session. There is no role
// check beyond this: any authenticated staff identity may update any report.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("session required")
		}
		return c.Next()
	}
}
