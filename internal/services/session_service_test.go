package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/mocks"
)

func TestSessionService_CreateVoterSessionRecordsVerification(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockSessionStore()
	users := &mocks.MockUserRepository{}
	svc := NewSessionService(store, users, &mocks.MockIdentityProvider{})

	session, err := svc.CreateVoterSession(ctx, &domain.VerifiedIdentity{
		Email:       "ana@example.com",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(users.Recorded) != 1 {
		t.Fatalf("expected 1 recorded verification, got %d", len(users.Recorded))
	}
	if users.Recorded[0].SessionID != session.ID {
		t.Errorf("record keyed by %q, session is %q", users.Recorded[0].SessionID, session.ID)
	}
}

func TestSessionService_RecordFailureDoesNotCostTheSession(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockSessionStore()
	users := &mocks.MockUserRepository{
		RecordVerificationFunc: func(ctx context.Context, identity *domain.VerifiedIdentity, sessionID string) error {
			return errors.New("users collection unavailable")
		},
	}
	svc := NewSessionService(store, users, &mocks.MockIdentityProvider{})

	session, err := svc.CreateVoterSession(ctx, &domain.VerifiedIdentity{
		Email:       "ana@example.com",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("record-keeping failure must not surface: %v", err)
	}
	if session == nil {
		t.Fatal("expected a session despite the record failure")
	}
}

func TestSessionService_EmptyIDsReadAsNoSession(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(mocks.NewMockSessionStore(), &mocks.MockUserRepository{}, &mocks.MockIdentityProvider{})

	session, err := svc.VoterSession(ctx, "")
	if err != nil || session != nil {
		t.Errorf("empty voter id must read as (nil, nil), got %v, %v", session, err)
	}
	admin, err := svc.AdminSession(ctx, "")
	if err != nil || admin != nil {
		t.Errorf("empty admin id must read as (nil, nil), got %v, %v", admin, err)
	}
}

func TestSessionService_ClearVoterSessionSignsOut(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockSessionStore()
	provider := &mocks.MockIdentityProvider{}
	svc := NewSessionService(store, &mocks.MockUserRepository{}, provider)

	session, _ := svc.CreateVoterSession(ctx, &domain.VerifiedIdentity{Email: "ana@example.com", DisplayName: "Ana"})
	if err := svc.ClearVoterSession(ctx, session); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(provider.SignedOut) != 1 || provider.SignedOut[0] != "ana@example.com" {
		t.Errorf("expected identity provider sign-out, got %v", provider.SignedOut)
	}
	if len(store.Voters) != 0 {
		t.Error("session must be removed from the store")
	}

	// Sign-out failure is swallowed
	provider.SignOutFunc = func(ctx context.Context, email string) error {
		return errors.New("provider offline")
	}
	session, _ = svc.CreateVoterSession(ctx, &domain.VerifiedIdentity{Email: "ana@example.com", DisplayName: "Ana"})
	if err := svc.ClearVoterSession(ctx, session); err != nil {
		t.Errorf("provider failure must not surface: %v", err)
	}
}
