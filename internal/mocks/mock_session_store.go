package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MockSessionStore is an in-memory test double for domain.SessionStore.
// Without overrides it behaves like a real store with fixed TTLs.
type MockSessionStore struct {
	CreateVoterSessionFunc func(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error)
	CreateAdminSessionFunc func(ctx context.Context) (*domain.Session, error)
	GetVoterSessionFunc    func(ctx context.Context, sessionID string) (*domain.Session, error)
	GetAdminSessionFunc    func(ctx context.Context, sessionID string) (*domain.Session, error)
	ClearVoterSessionFunc  func(ctx context.Context, sessionID string) error
	ClearAdminSessionFunc  func(ctx context.Context, sessionID string) error

	Voters map[string]*domain.Session
	Admins map[string]*domain.Session
	seq    int
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Voters: make(map[string]*domain.Session),
		Admins: make(map[string]*domain.Session),
	}
}

func (m *MockSessionStore) CreateVoterSession(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error) {
	if m.CreateVoterSessionFunc != nil {
		return m.CreateVoterSessionFunc(ctx, identity)
	}
	m.seq++
	session := domain.NewVoterSession(fmt.Sprintf("session_%d", m.seq), identity, time.Now(), 24*time.Hour)
	m.Voters[session.ID] = session
	return session, nil
}

func (m *MockSessionStore) CreateAdminSession(ctx context.Context) (*domain.Session, error) {
	if m.CreateAdminSessionFunc != nil {
		return m.CreateAdminSessionFunc(ctx)
	}
	m.seq++
	session := domain.NewAdminSession(fmt.Sprintf("admin_%d", m.seq), time.Now(), 8*time.Hour)
	m.Admins[session.ID] = session
	return session, nil
}

func (m *MockSessionStore) GetVoterSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.GetVoterSessionFunc != nil {
		return m.GetVoterSessionFunc(ctx, sessionID)
	}
	return m.Voters[sessionID], nil
}

func (m *MockSessionStore) GetAdminSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.GetAdminSessionFunc != nil {
		return m.GetAdminSessionFunc(ctx, sessionID)
	}
	return m.Admins[sessionID], nil
}

func (m *MockSessionStore) ClearVoterSession(ctx context.Context, sessionID string) error {
	if m.ClearVoterSessionFunc != nil {
		return m.ClearVoterSessionFunc(ctx, sessionID)
	}
	delete(m.Voters, sessionID)
	return nil
}

func (m *MockSessionStore) ClearAdminSession(ctx context.Context, sessionID string) error {
	if m.ClearAdminSessionFunc != nil {
		return m.ClearAdminSessionFunc(ctx, sessionID)
	}
	delete(m.Admins, sessionID)
	return nil
}

var _ domain.SessionStore = (*MockSessionStore)(nil)
