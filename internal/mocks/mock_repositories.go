package mocks

import (
	"context"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MockProjectRepository is a test double for domain.ProjectRepository
type MockProjectRepository struct {
	CreateFunc   func(ctx context.Context, project *domain.Project) error
	UpdateFunc   func(ctx context.Context, project *domain.Project) error
	DeleteFunc   func(ctx context.Context, id string) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Project, error)
	ListFunc     func(ctx context.Context) ([]domain.Project, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrProjectNotFound
}

func (m *MockProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

var _ domain.ProjectRepository = (*MockProjectRepository)(nil)

// MockWinnerRepository is a test double for domain.WinnerRepository
type MockWinnerRepository struct {
	GetFunc   func(ctx context.Context) (*domain.WinnerAnnouncement, error)
	SetFunc   func(ctx context.Context, winnerID string) (*domain.WinnerAnnouncement, error)
	ClearFunc func(ctx context.Context) error
}

func (m *MockWinnerRepository) Get(ctx context.Context) (*domain.WinnerAnnouncement, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return nil, domain.ErrWinnerNotSet
}

func (m *MockWinnerRepository) Set(ctx context.Context, winnerID string) (*domain.WinnerAnnouncement, error) {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, winnerID)
	}
	return &domain.WinnerAnnouncement{WinnerID: winnerID}, nil
}

func (m *MockWinnerRepository) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

var _ domain.WinnerRepository = (*MockWinnerRepository)(nil)

// MockUserRepository is a test double for domain.UserRepository
type MockUserRepository struct {
	RecordVerificationFunc func(ctx context.Context, identity *domain.VerifiedIdentity, sessionID string) error

	Recorded []RecordedVerification
}

// RecordedVerification captures one RecordVerification invocation
type RecordedVerification struct {
	Identity  *domain.VerifiedIdentity
	SessionID string
}

func (m *MockUserRepository) RecordVerification(ctx context.Context, identity *domain.VerifiedIdentity, sessionID string) error {
	m.Recorded = append(m.Recorded, RecordedVerification{Identity: identity, SessionID: sessionID})
	if m.RecordVerificationFunc != nil {
		return m.RecordVerificationFunc(ctx, identity, sessionID)
	}
	return nil
}

var _ domain.UserRepository = (*MockUserRepository)(nil)
