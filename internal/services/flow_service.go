package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// AppState is one screen of the voting application
type AppState string

const (
	StateLoading              AppState = "loading"
	StateWelcome              AppState = "welcome"
	StateRegistration         AppState = "registration"
	StateAwaitingVerification AppState = "awaiting_verification"
	StateVoting               AppState = "voting"
	StateVoted                AppState = "voted"
	StateAdminLogin           AppState = "admin_login"
	StateAdminPanel           AppState = "admin_panel"
	StateThankYou             AppState = "thank_you"
)

// IncomingRequest carries what a client context presents on startup:
// persisted session tokens and, when the user arrived through a
// verification email, the artifact parameters
type IncomingRequest struct {
	Code           string
	Email          string
	LinkToken      string
	VoterSessionID string
	AdminSessionID string
}

// FlowService is the application state machine. It composes the
// credential, session and vote services and owns the screen transitions;
// every failure keeps or reverts the pre-action state and stores a
// user-visible message instead of entering an error state.
type FlowService struct {
	creds     domain.CredentialService
	sessions  *SessionService
	votes     domain.VoteGateway
	adminKeys domain.AdminKeyService

	thankYouDelay time.Duration

	mu            sync.Mutex
	state         AppState
	message       string
	voterSession  *domain.Session
	adminSession  *domain.Session
	voteInfo      *domain.VoteLookup
	projects      []domain.Project
	winner        *domain.WinnerAnnouncement
	voteInFlight  bool
	thankYouTimer *time.Timer

	// last successful Issue parameters, kept for resend
	pendingEmail    string
	pendingName     string
	pendingJuryCode string
}

// NewFlowService creates the state machine in the Loading state
func NewFlowService(creds domain.CredentialService, sessions *SessionService, votes domain.VoteGateway, adminKeys domain.AdminKeyService, thankYouDelay time.Duration) *FlowService {
	return &FlowService{
		creds:         creds,
		sessions:      sessions,
		votes:         votes,
		adminKeys:     adminKeys,
		thankYouDelay: thankYouDelay,
		state:         StateLoading,
	}
}

// Resolve performs the one-time startup transition out of Loading.
// Artifact parameters in the incoming request short-circuit straight to
// verification; otherwise the admin session is checked before the voter
// session, and an unauthenticated context lands on Welcome.
func (f *FlowService) Resolve(ctx context.Context, in IncomingRequest) AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolveLocked(ctx, in)
}

// Snapshot is a consistent view of the machine taken in a single step,
// for callers serving concurrent clients
type Snapshot struct {
	State    AppState
	Message  string
	VoteInfo *domain.VoteLookup
	Projects []domain.Project
	Winner   *domain.WinnerAnnouncement
}

// ResolveSnapshot resolves like Resolve and captures the resulting view
// under the same lock acquisition, so a concurrent resolution cannot
// interleave between the transition and the reads
func (f *FlowService) ResolveSnapshot(ctx context.Context, in IncomingRequest) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.resolveLocked(ctx, in)
	return Snapshot{
		State:    state,
		Message:  f.message,
		VoteInfo: f.voteInfo,
		Projects: f.projects,
		Winner:   f.winner,
	}
}

// resolveLocked must be called with f.mu held
func (f *FlowService) resolveLocked(ctx context.Context, in IncomingRequest) AppState {
	if in.LinkToken != "" || (in.Code != "" && in.Email != "") {
		var identity *domain.VerifiedIdentity
		var err error
		if in.LinkToken != "" {
			identity, err = f.creds.VerifyLink(ctx, in.LinkToken)
		} else {
			identity, err = f.creds.Verify(ctx, in.Code, in.Email)
		}
		if err != nil {
			f.state = StateWelcome
			f.message = messageFor(err)
			return f.state
		}
		session, err := f.sessions.CreateVoterSession(ctx, identity)
		if err != nil {
			f.state = StateWelcome
			f.message = messageFor(err)
			return f.state
		}
		f.voterSession = session
		f.state = StateVoting
		f.message = "Email verified. You can vote now."
		return f.state
	}

	if admin, err := f.sessions.AdminSession(ctx, in.AdminSessionID); err == nil && admin != nil {
		f.adminSession = admin
		f.state = StateAdminPanel
		return f.state
	}

	voter, err := f.sessions.VoterSession(ctx, in.VoterSessionID)
	if err != nil || voter == nil {
		f.state = StateWelcome
		return f.state
	}
	f.voterSession = voter

	lookup, err := f.votes.Lookup(ctx, voter.UserEmail)
	if err != nil {
		// Fail open to logged-out rather than guessing vote status
		f.state = StateWelcome
		f.message = messageFor(err)
		return f.state
	}
	if lookup.Found {
		f.voteInfo = lookup
		f.state = StateVoted
	} else {
		f.state = StateVoting
	}
	return f.state
}

// BeginRegistration moves from Welcome to the registration form
func (f *FlowService) BeginRegistration() AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = ""
	f.state = StateRegistration
	return f.state
}

// Register submits the registration form. Success advances to
// AwaitingVerification and remembers the parameters for resend; failure
// stays on Registration with an inline message.
func (f *FlowService) Register(ctx context.Context, email, displayName, juryCode string) (AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := f.creds.Issue(ctx, email, displayName, juryCode)
	if err != nil {
		f.state = StateRegistration
		f.message = messageFor(err)
		return f.state, err
	}

	f.pendingEmail = email
	f.pendingName = displayName
	f.pendingJuryCode = juryCode
	f.state = StateAwaitingVerification
	f.message = "A verification code was sent to your email."
	return f.state, nil
}

// Resend re-invokes issuance with the remembered registration parameters
func (f *FlowService) Resend(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pendingEmail == "" {
		return domain.ErrInvalidInput
	}
	_, err := f.creds.Issue(ctx, f.pendingEmail, f.pendingName, f.pendingJuryCode)
	if err != nil {
		f.message = messageFor(err)
		return err
	}
	f.message = "Verification code resent."
	return nil
}

// CompleteVerification consumes an artifact presented after startup and,
// on success, opens a voter session and lands on Voting
func (f *FlowService) CompleteVerification(ctx context.Context, code, email string) (AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	identity, err := f.creds.Verify(ctx, code, email)
	if err != nil {
		f.message = messageFor(err)
		return f.state, err
	}

	session, err := f.sessions.CreateVoterSession(ctx, identity)
	if err != nil {
		f.message = messageFor(err)
		return f.state, err
	}

	f.voterSession = session
	f.voteInfo = nil
	f.state = StateVoting
	f.message = "Email verified. You can vote now."
	return f.state, nil
}

// SubmitVote casts the vote for the current voter session. It is only
// accepted from the Voting screen: a repeat submission after a recorded
// vote is rejected with ErrAlreadyVoted, and a second submission while
// one is in flight is rejected outright. Failure returns to Voting with
// an alert-level message; success shows ThankYou and auto-advances to
// Voted after the configured delay.
func (f *FlowService) SubmitVote(ctx context.Context, projectID string) (AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.voteInFlight {
		return f.state, fmt.Errorf("vote submission already in flight")
	}
	if f.voteInfo != nil && f.voteInfo.Found {
		f.message = messageFor(domain.ErrAlreadyVoted)
		return f.state, domain.ErrAlreadyVoted
	}
	if f.voterSession == nil {
		f.state = StateWelcome
		f.message = messageFor(domain.ErrSessionExpired)
		return f.state, domain.ErrSessionExpired
	}
	if f.state != StateVoting {
		return f.state, domain.ErrInvalidInput
	}

	// Re-read through the store so lazy expiry applies
	session, err := f.sessions.VoterSession(ctx, f.voterSession.ID)
	if err != nil || session == nil {
		f.voterSession = nil
		f.state = StateWelcome
		f.message = messageFor(domain.ErrSessionExpired)
		return f.state, domain.ErrSessionExpired
	}

	// Drop the lock while the cast is in flight; the flag is what keeps
	// the machine to a single outstanding submission
	f.voteInFlight = true
	f.mu.Unlock()
	err = f.votes.Cast(ctx, session.UserEmail, projectID, session.Weight)
	f.mu.Lock()
	f.voteInFlight = false

	if err != nil {
		if f.state == StateVoting {
			f.message = "There was a problem recording your vote. Please try again."
		}
		return f.state, err
	}
	if f.state != StateVoting {
		// Forced away mid-flight (logout, admin takeover); the vote
		// landed but the screen transition no longer applies
		return f.state, nil
	}

	f.voteInfo = &domain.VoteLookup{
		Found:     true,
		ProjectID: projectID,
		IsJury:    session.IsJury,
	}
	f.state = StateThankYou
	f.message = ""
	f.scheduleThankYouAdvance()
	return f.state, nil
}

// AdminLogin validates the admin key; the wrong key stays on AdminLogin
// with no session created
func (f *FlowService) AdminLogin(ctx context.Context, key string) (AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.adminKeys.Validate(key); err != nil {
		f.state = StateAdminLogin
		f.message = messageFor(domain.ErrUnauthorized)
		return f.state, domain.ErrUnauthorized
	}

	session, err := f.sessions.CreateAdminSession(ctx)
	if err != nil {
		f.state = StateAdminLogin
		f.message = messageFor(err)
		return f.state, err
	}

	f.stopThankYouTimer()
	f.adminSession = session
	f.state = StateAdminPanel
	f.message = ""
	return f.state, nil
}

// AdminLogout clears the admin session, and the voter session too if one
// is live, then returns to Welcome
func (f *FlowService) AdminLogout(ctx context.Context) AppState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.adminSession != nil {
		_ = f.sessions.ClearAdminSession(ctx, f.adminSession.ID)
		f.adminSession = nil
	}
	if f.voterSession != nil {
		_ = f.sessions.ClearVoterSession(ctx, f.voterSession)
		f.voterSession = nil
	}

	f.stopThankYouTimer()
	f.voteInfo = nil
	f.state = StateWelcome
	f.message = ""
	return f.state
}

// Logout clears the voter session and returns to Welcome
func (f *FlowService) Logout(ctx context.Context) AppState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.voterSession != nil {
		_ = f.sessions.ClearVoterSession(ctx, f.voterSession)
		f.voterSession = nil
	}

	f.stopThankYouTimer()
	f.voteInfo = nil
	f.state = StateWelcome
	f.message = ""
	return f.state
}

// State returns the current state and the pending user-visible message
func (f *FlowService) State() (AppState, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.message
}

// VoteInfo returns what the current identity voted for, if known
func (f *FlowService) VoteInfo() *domain.VoteLookup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voteInfo
}

// Projects returns the last applied project list
func (f *FlowService) Projects() []domain.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects
}

// Winner returns the last applied winner announcement, or nil
func (f *FlowService) Winner() *domain.WinnerAnnouncement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.winner
}

// ApplyProjects replaces the local project list with a pushed update
func (f *FlowService) ApplyProjects(projects []domain.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = projects
}

// ApplyWinner applies a pushed winner update; last write wins
func (f *FlowService) ApplyWinner(winner *domain.WinnerAnnouncement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.winner = winner
}

// Close cancels any pending ThankYou advance so no stale transition
// fires after shutdown
func (f *FlowService) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopThankYouTimer()
}

func (f *FlowService) scheduleThankYouAdvance() {
	f.stopThankYouTimer()
	if f.thankYouDelay <= 0 {
		f.state = StateVoted
		return
	}
	f.thankYouTimer = time.AfterFunc(f.thankYouDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.state == StateThankYou {
			f.state = StateVoted
		}
		f.thankYouTimer = nil
	})
}

// stopThankYouTimer must be called with f.mu held
func (f *FlowService) stopThankYouTimer() {
	if f.thankYouTimer != nil {
		f.thankYouTimer.Stop()
		f.thankYouTimer = nil
	}
}

// messageFor converts a failure into the display-only message the screen
// shows; the sentinel stays the programmatic truth
func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "Please enter a valid email address and your name."
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "You already voted today. Come back tomorrow."
	case errors.Is(err, domain.ErrArtifactNotFound):
		return "Invalid or already used code. Please request a new one."
	case errors.Is(err, domain.ErrArtifactExpired):
		return "The code has expired. Please request a new one."
	case errors.Is(err, domain.ErrEmailMismatch):
		return "The email does not match. Please check your details."
	case errors.Is(err, domain.ErrResendThrottled):
		return "Please wait a moment before requesting another code."
	case errors.Is(err, domain.ErrNotifierFailure):
		return "We could not send the email. Please try again later."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Incorrect administrator key."
	case errors.Is(err, domain.ErrSessionExpired):
		return "Your session has expired. Please register again."
	default:
		return "Something went wrong. Please try again."
	}
}
