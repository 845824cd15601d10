package domain

import "time"

// UserRole classifies what a session is allowed to do
type UserRole string

const (
	RoleVoter UserRole = "voter"
	RoleJury  UserRole = "jury"
	RoleAdmin UserRole = "admin"
)

// VerifiedIdentity is the outcome of a successful email verification
type VerifiedIdentity struct {
	Email       string
	DisplayName string
	IsJury      bool
}

// PendingRegistration holds a registration attempt until its artifact is
// consumed, expires, or is superseded by a later attempt for the same email
type PendingRegistration struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	IsJury      bool      `json:"isJury"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// Session is a bounded-lifetime authorization record. Voter and admin
// sessions are independent; a client context may hold both.
type Session struct {
	ID        string    `json:"sessionId"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	Role      UserRole  `json:"role"`
	Weight    int       `json:"weight"`
	IsJury    bool      `json:"isJury"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its lifetime at the given instant
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// NewVoterSession builds a voter session. Weight 2 iff the identity is jury.
func NewVoterSession(id string, identity *VerifiedIdentity, now time.Time, ttl time.Duration) *Session {
	role := RoleVoter
	weight := 1
	if identity.IsJury {
		role = RoleJury
		weight = 2
	}
	return &Session{
		ID:        id,
		UserEmail: identity.Email,
		UserName:  identity.DisplayName,
		Role:      role,
		Weight:    weight,
		IsJury:    identity.IsJury,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// NewAdminSession builds an admin session. Admin votes, if any, carry weight 1.
func NewAdminSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		UserEmail: "admin@pluginpitch.local",
		UserName:  "Administrator",
		Role:      RoleAdmin,
		Weight:    1,
		IsJury:    false,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// VoteRecord is one appended entry in the vote ledger
type VoteRecord struct {
	ID        string
	ProjectID string
	UserEmail string
	Weight    int
	Timestamp time.Time
}

// Project is a listed candidate voters choose between
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WinnerAnnouncement is the singleton winner declaration
type WinnerAnnouncement struct {
	WinnerID    string    `json:"winnerId"`
	AnnouncedAt time.Time `json:"announcedAt"`
}

// VoteLookup is the answer to "has this identity already voted today".
// When served from cache it is advisory, never authoritative.
type VoteLookup struct {
	Found     bool      `json:"found"`
	ProjectID string    `json:"projectId,omitempty"`
	IsJury    bool      `json:"isJury,omitempty"`
	CachedAt  time.Time `json:"cachedAt,omitempty"`
}

// ProjectTally is the weighted standing of one project
type ProjectTally struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Votes     int64  `json:"votes"`
	Points    int64  `json:"points"`
}
