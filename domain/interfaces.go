package domain

import (
	"context"
	"time"
)

// Clock abstracts time acquisition so expiry logic is testable
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock
func SystemClock() Clock { return systemClock{} }

// CredentialService issues and verifies one-time email verification artifacts
type CredentialService interface {
	Issue(ctx context.Context, email, displayName, juryCode string) (*PendingRegistration, error)
	Verify(ctx context.Context, code, email string) (*VerifiedIdentity, error)
	VerifyLink(ctx context.Context, token string) (*VerifiedIdentity, error)
}

// SessionStore persists voter and admin sessions in independent slots.
// Get operations return (nil, nil) for absent or expired sessions and
// eagerly remove expired records as a side effect of the read.
type SessionStore interface {
	CreateVoterSession(ctx context.Context, identity *VerifiedIdentity) (*Session, error)
	CreateAdminSession(ctx context.Context) (*Session, error)
	GetVoterSession(ctx context.Context, sessionID string) (*Session, error)
	GetAdminSession(ctx context.Context, sessionID string) (*Session, error)
	ClearVoterSession(ctx context.Context, sessionID string) error
	ClearAdminSession(ctx context.Context, sessionID string) error
}

// IdentityProvider is the external authentication backend a voter session
// may be attached to. Sign-out failures are logged, never surfaced.
type IdentityProvider interface {
	SignOut(ctx context.Context, email string) error
}

// VoteGateway is the boundary to the votes collection, with an advisory
// cache in front of the daily lookup
type VoteGateway interface {
	Lookup(ctx context.Context, identity string) (*VoteLookup, error)
	Cast(ctx context.Context, identity, projectID string, weight int) error
	Tally(ctx context.Context) ([]ProjectTally, error)
}

// VoteRepository is the durable append-only vote collection
type VoteRepository interface {
	Append(ctx context.Context, vote *VoteRecord) error
	FindLatestSince(ctx context.Context, identity string, since time.Time) (*VoteRecord, error)
	Tally(ctx context.Context) ([]ProjectTally, error)
}

// ProjectRepository owns the projects collection
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}

// WinnerRepository owns the singleton winner announcement
type WinnerRepository interface {
	Get(ctx context.Context) (*WinnerAnnouncement, error)
	Set(ctx context.Context, winnerID string) (*WinnerAnnouncement, error)
	Clear(ctx context.Context) error
}

// UserRepository records verified identities, write-only from this core
type UserRepository interface {
	RecordVerification(ctx context.Context, identity *VerifiedIdentity, sessionID string) error
}

// NotificationService delivers verification artifacts out of band
type NotificationService interface {
	SendEmail(to, subject, body string) error
	SendSMS(to, message string) error
}

// LinkTokenService signs and parses the one-time link variant of the artifact
type LinkTokenService interface {
	Generate(email, code string) (string, error)
	Parse(token string) (email, code string, err error)
}

// AdminKeyService validates the configured admin access key
type AdminKeyService interface {
	Validate(presented string) error
}
