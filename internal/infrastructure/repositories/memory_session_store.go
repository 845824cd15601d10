package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MemorySessionStore implements domain.SessionStore in process-local
// memory: one voter slot and one admin slot, independent of each other.
// Creating a session replaces whatever the slot held before.
type MemorySessionStore struct {
	mu       sync.RWMutex
	voters   map[string]*domain.Session
	admins   map[string]*domain.Session
	clock    domain.Clock
	voterTTL time.Duration
	adminTTL time.Duration
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore(clock domain.Clock, voterTTL, adminTTL time.Duration) domain.SessionStore {
	return &MemorySessionStore{
		voters:   make(map[string]*domain.Session),
		admins:   make(map[string]*domain.Session),
		clock:    clock,
		voterTTL: voterTTL,
		adminTTL: adminTTL,
	}
}

// CreateVoterSession implements domain.SessionStore
func (s *MemorySessionStore) CreateVoterSession(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error) {
	session := domain.NewVoterSession("session_"+uuid.NewString(), identity, s.clock.Now(), s.voterTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	// One voter slot per client context: creation replaces the prior session
	s.voters = map[string]*domain.Session{session.ID: session}
	return session, nil
}

// CreateAdminSession implements domain.SessionStore
func (s *MemorySessionStore) CreateAdminSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewAdminSession("admin_"+uuid.NewString(), s.clock.Now(), s.adminTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = map[string]*domain.Session{session.ID: session}
	return session, nil
}

// GetVoterSession implements domain.SessionStore
func (s *MemorySessionStore) GetVoterSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.get(s.voters, sessionID), nil
}

// GetAdminSession implements domain.SessionStore
func (s *MemorySessionStore) GetAdminSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.get(s.admins, sessionID), nil
}

// ClearVoterSession implements domain.SessionStore
func (s *MemorySessionStore) ClearVoterSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.voters, sessionID)
	return nil
}

// ClearAdminSession implements domain.SessionStore
func (s *MemorySessionStore) ClearAdminSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, sessionID)
	return nil
}

// get returns nil for absent or expired sessions, removing expired ones
func (s *MemorySessionStore) get(slot map[string]*domain.Session, sessionID string) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := slot[sessionID]
	if !ok {
		return nil
	}
	if session.Expired(s.clock.Now()) {
		delete(slot, sessionID)
		return nil
	}
	copied := *session
	return &copied
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
