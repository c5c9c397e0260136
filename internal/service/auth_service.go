package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fault-report-service/internal/auth"
	"github.com/spec-kit/fault-report-service/internal/config"
	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/repository"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

// AuthService coordinates staff sign-up, sign-in and sign-out flows.
type AuthService struct {
	profiles                 repository.StaffProfileRepository
	sessions                 auth.SessionStore
	confirmations            auth.ConfirmationStore
	tokenMgr                 *auth.TokenManager
	bcryptCost               int
	requireEmailConfirmation bool
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	ProfileRepo       repository.StaffProfileRepository
	SessionStore      auth.SessionStore
	ConfirmationStore auth.ConfirmationStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		profiles:                 deps.ProfileRepo,
		sessions:                 deps.SessionStore,
		confirmations:            deps.ConfirmationStore,
		tokenMgr:                 auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:               cfg.Auth.BcryptCost,
		requireEmailConfirmation: cfg.Auth.RequireEmailConfirmation,
	}
}

// SignInResult carries the established session and its access token.
type SignInResult struct {
	Profile   *domain.StaffProfile
	Session   *domain.Session
	Token     string
	ExpiresAt time.Time
}

// SignUpResult reports either an immediately established session or a
// pending email confirmation, depending on configuration. Callers must
// handle both outcomes.
type SignUpResult struct {
	Profile            *domain.StaffProfile
	SessionEstablished bool
	Session            *domain.Session
	Token              string
	ExpiresAt          time.Time
	ConfirmationToken  string
}

// SignIn authenticates a staff member and establishes a fresh session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewAuthError("invalid email or password", nil)
		}
		return nil, apperrors.NewQueryError("failed to look up account", err)
	}

	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthError("invalid email or password", nil)
	}
	if !profile.EmailConfirmed {
		return nil, apperrors.NewAuthError("email not confirmed", nil)
	}

	session, err := s.sessions.Create(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.NewWriteError("failed to establish session", err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, session.ID)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Profile: profile, Session: session, Token: token, ExpiresAt: exp}, nil
}

// SignUp creates a new staff identity. When email confirmation is required
// no session is established and the result carries a confirmation token
// instead; otherwise the account is immediately signed in.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*SignUpResult, error) {
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAuthError("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewQueryError("failed to look up account", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	profile := &domain.StaffProfile{
		FullName:       fullName,
		Email:          email,
		PasswordHash:   hash,
		EmailConfirmed: !s.requireEmailConfirmation,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.NewWriteError("failed to create account", err)
	}

	if s.requireEmailConfirmation {
		confirmToken, err := s.confirmations.Issue(ctx, profile.ID)
		if err != nil {
			return nil, apperrors.NewWriteError("failed to issue confirmation token", err)
		}
		return &SignUpResult{Profile: profile, ConfirmationToken: confirmToken}, nil
	}

	session, err := s.sessions.Create(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.NewWriteError("failed to establish session", err)
	}
	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, session.ID)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{
		Profile:            profile,
		SessionEstablished: true,
		Session:            session,
		Token:              token,
		ExpiresAt:          exp,
	}, nil
}

// ConfirmEmail redeems an out-of-band confirmation token and activates the
// account for sign-in.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	staffID, err := s.confirmations.Redeem(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrConfirmationNotFound) {
			return apperrors.NewAuthError("invalid or expired confirmation token", nil)
		}
		return apperrors.MapError(err)
	}

	profile, err := s.profiles.GetByID(ctx, staffID)
	if err != nil {
		return apperrors.MapError(err)
	}
	profile.EmailConfirmed = true
	if err := s.profiles.Update(ctx, profile); err != nil {
		return apperrors.NewWriteError("failed to confirm account", err)
	}
	return nil
}

// SignOut revokes the given session. Revoking an already-absent session is
// not an error.
func (s *AuthService) SignOut(ctx context.Context, staffID, sessionID string) error {
	if err := s.sessions.Revoke(ctx, staffID, sessionID); err != nil {
		return apperrors.NewWriteError("failed to sign out", err)
	}
	return nil
}

// SignOutGlobal revokes every session for the staff member, leaving no
// stale session behind before a fresh sign-in.
func (s *AuthService) SignOutGlobal(ctx context.Context, staffID string) error {
	if err := s.sessions.RevokeAll(ctx, staffID); err != nil {
		return apperrors.NewWriteError("failed to sign out", err)
	}
	return nil
}

// ResolveToken answers the current-session query for a cached access
// token: the token must parse and its session must still be registered.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.StaffProfile, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewAuthError("invalid token", err)
	}
	if _, err := s.sessions.Get(ctx, claims.StaffID, claims.SessionID); err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, apperrors.NewAuthError("session revoked or expired", nil)
		}
		return nil, apperrors.MapError(err)
	}

	profile, err := s.profiles.GetByID(ctx, claims.StaffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// SignOutTokenGlobal revokes every session belonging to the token's
// subject. An unparseable token is treated as already signed out.
func (s *AuthService) SignOutTokenGlobal(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.SignOutGlobal(ctx, claims.StaffID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
