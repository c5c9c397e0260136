package authstate

import (
	"context"

	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/service"
)

// ServiceBackend adapts the in-process AuthService to the Backend contract.
type ServiceBackend struct {
	auth *service.AuthService
}

// NewServiceBackend wraps an AuthService.
func NewServiceBackend(authService *service.AuthService) *ServiceBackend {
	return &ServiceBackend{auth: authService}
}

func (b *ServiceBackend) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	result, err := b.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Credentials{Identity: identityFromProfile(result.Profile), Token: result.Token}, nil
}

func (b *ServiceBackend) SignUp(ctx context.Context, email, password, displayName string) (*Credentials, bool, error) {
	result, err := b.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		return nil, false, err
	}
	if !result.SessionEstablished {
		return nil, false, nil
	}
	return &Credentials{Identity: identityFromProfile(result.Profile), Token: result.Token}, true, nil
}

func (b *ServiceBackend) SignOutGlobal(ctx context.Context, token string) error {
	return b.auth.SignOutTokenGlobal(ctx, token)
}

func (b *ServiceBackend) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	profile, err := b.auth.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	identity := identityFromProfile(profile)
	return &identity, nil
}

func identityFromProfile(profile *domain.StaffProfile) Identity {
	return Identity{
		ID:          profile.ID,
		Email:       profile.Email,
		DisplayName: profile.FullName,
	}
}
