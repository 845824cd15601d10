package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// SessionService composes the session store with verified-identity
// record-keeping and best-effort identity-provider sign-out
type SessionService struct {
	store    domain.SessionStore
	users    domain.UserRepository
	provider domain.IdentityProvider
}

// NewSessionService creates a new session service
func NewSessionService(store domain.SessionStore, users domain.UserRepository, provider domain.IdentityProvider) *SessionService {
	return &SessionService{
		store:    store,
		users:    users,
		provider: provider,
	}
}

// CreateVoterSession converts a verified identity into a voter session
// and records the verification in the users collection
func (s *SessionService) CreateVoterSession(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error) {
	session, err := s.store.CreateVoterSession(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create voter session: %w", err)
	}

	// Record-keeping write; a failure here must not cost the user their session
	if err := s.users.RecordVerification(ctx, identity, session.ID); err != nil {
		log.Printf("sessions: verification record write failed for %s: %v", identity.Email, err)
	}

	return session, nil
}

// CreateAdminSession creates an admin session. Callers validate the admin
// key first; this only builds and persists the record.
func (s *SessionService) CreateAdminSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.store.CreateAdminSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin session: %w", err)
	}
	return session, nil
}

// VoterSession returns the live voter session for the given ID, or nil
func (s *SessionService) VoterSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.store.GetVoterSession(ctx, sessionID)
}

// AdminSession returns the live admin session for the given ID, or nil
func (s *SessionService) AdminSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.store.GetAdminSession(ctx, sessionID)
}

// ClearVoterSession removes the voter session and signs out of the
// identity provider; provider failures are logged, never surfaced
func (s *SessionService) ClearVoterSession(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	if err := s.store.ClearVoterSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to clear voter session: %w", err)
	}
	if err := s.provider.SignOut(ctx, session.UserEmail); err != nil {
		log.Printf("sessions: identity provider sign-out failed for %s: %v", session.UserEmail, err)
	}
	return nil
}

// ClearAdminSession removes the admin session record only
func (s *SessionService) ClearAdminSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.ClearAdminSession(ctx, sessionID)
}
