package mocks

import (
	"context"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MockAdminKeyService is a test double for domain.AdminKeyService
type MockAdminKeyService struct {
	ValidateFunc func(presented string) error
}

func (m *MockAdminKeyService) Validate(presented string) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(presented)
	}
	return nil
}

var _ domain.AdminKeyService = (*MockAdminKeyService)(nil)

// MockLinkTokenService is a test double for domain.LinkTokenService
type MockLinkTokenService struct {
	GenerateFunc func(email, code string) (string, error)
	ParseFunc    func(token string) (string, string, error)
}

func (m *MockLinkTokenService) Generate(email, code string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(email, code)
	}
	return "token-" + email, nil
}

func (m *MockLinkTokenService) Parse(token string) (string, string, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(token)
	}
	return "", "", domain.ErrArtifactNotFound
}

var _ domain.LinkTokenService = (*MockLinkTokenService)(nil)

// MockIdentityProvider is a test double for domain.IdentityProvider
type MockIdentityProvider struct {
	SignOutFunc func(ctx context.Context, email string) error

	SignedOut []string
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, email string) error {
	m.SignedOut = append(m.SignedOut, email)
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, email)
	}
	return nil
}

var _ domain.IdentityProvider = (*MockIdentityProvider)(nil)
