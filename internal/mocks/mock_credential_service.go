package mocks

import (
	"context"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MockCredentialService is a test double for domain.CredentialService
type MockCredentialService struct {
	IssueFunc      func(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error)
	VerifyFunc     func(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error)
	VerifyLinkFunc func(ctx context.Context, token string) (*domain.VerifiedIdentity, error)
}

func (m *MockCredentialService) Issue(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email, displayName, juryCode)
	}
	return &domain.PendingRegistration{Email: email, DisplayName: displayName}, nil
}

func (m *MockCredentialService) Verify(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, code, email)
	}
	return &domain.VerifiedIdentity{Email: email}, nil
}

func (m *MockCredentialService) VerifyLink(ctx context.Context, token string) (*domain.VerifiedIdentity, error) {
	if m.VerifyLinkFunc != nil {
		return m.VerifyLinkFunc(ctx, token)
	}
	return nil, domain.ErrArtifactNotFound
}

var _ domain.CredentialService = (*MockCredentialService)(nil)
