package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// emailPattern accepts the local@domain.tld shape; anything stricter is
// the mail provider's problem
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CredentialServiceImpl implements domain.CredentialService using Redis
// for pending registrations and artifact indexing
type CredentialServiceImpl struct {
	notifier    domain.NotificationService
	votes       domain.VoteGateway
	linkSvc     domain.LinkTokenService
	redisClient *redis.Client
	clock       domain.Clock
	config      CredentialConfig
}

type CredentialConfig struct {
	CodeLength   int
	TTL          time.Duration
	ResendWindow time.Duration
	JuryCode     string
	Channel      string // "email" or "sms"
	LinkBaseURL  string
}

// NewCredentialService creates a new Redis-based credential service
func NewCredentialService(notifier domain.NotificationService, votes domain.VoteGateway, linkSvc domain.LinkTokenService, redisClient *redis.Client, clock domain.Clock, config CredentialConfig) domain.CredentialService {
	return &CredentialServiceImpl{
		notifier:    notifier,
		votes:       votes,
		linkSvc:     linkSvc,
		redisClient: redisClient,
		clock:       clock,
		config:      config,
	}
}

// Issue implements domain.CredentialService. One successful call sends
// exactly one notification; reissuing for the same email supersedes the
// prior pending record (last-issued-wins).
func (s *CredentialServiceImpl) Issue(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if !emailPattern.MatchString(email) || displayName == "" {
		return nil, domain.ErrInvalidInput
	}

	// One successful vote per identity per UTC day: refuse a new artifact
	// once a vote exists today
	lookup, err := s.votes.Lookup(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if lookup != nil && lookup.Found {
		return nil, domain.ErrAlreadyVoted
	}

	// Check resend throttle
	if s.config.ResendWindow > 0 {
		ttl, err := s.redisClient.TTL(ctx, s.resendKey(email)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check resend throttle: %w", err)
		}
		if ttl > 0 {
			return nil, fmt.Errorf("%w: wait %d seconds", domain.ErrResendThrottled, int64(ttl.Seconds()))
		}
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	pending := &domain.PendingRegistration{
		Email:       email,
		DisplayName: displayName,
		IsJury:      s.config.JuryCode != "" && juryCode == s.config.JuryCode,
		Code:        code,
		IssuedAt:    s.clock.Now(),
	}

	data, err := json.Marshal(pending)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pending registration: %w", err)
	}

	// SET overwrites any earlier pending record for this email; the
	// superseded code index ages out on its own TTL and fails verification
	// because it no longer matches the pending record
	if err := s.redisClient.Set(ctx, s.pendingKey(email), data, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store pending registration: %w", err)
	}
	if err := s.redisClient.Set(ctx, s.artifactKey(code), email, s.config.TTL).Err(); err != nil {
		s.redisClient.Del(ctx, s.pendingKey(email))
		return nil, fmt.Errorf("failed to index verification code: %w", err)
	}
	if s.config.ResendWindow > 0 {
		if err := s.redisClient.Set(ctx, s.resendKey(email), 1, s.config.ResendWindow).Err(); err != nil {
			return nil, fmt.Errorf("failed to set resend throttle: %w", err)
		}
	}

	if err := s.deliver(pending); err != nil {
		// Clean up Redis entries if delivery fails
		s.redisClient.Del(ctx, s.pendingKey(email), s.artifactKey(code), s.resendKey(email))
		return nil, fmt.Errorf("%w: %v", domain.ErrNotifierFailure, err)
	}

	return pending, nil
}

// Verify implements domain.CredentialService. An artifact verifies at
// most once: success consumes it, so a replay fails with NotFound.
func (s *CredentialServiceImpl) Verify(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
	code = strings.TrimSpace(code)
	email = strings.ToLower(strings.TrimSpace(email))
	if code == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}

	boundEmail, err := s.redisClient.Get(ctx, s.artifactKey(code)).Result()
	if err == redis.Nil {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}
	if boundEmail != email {
		return nil, domain.ErrEmailMismatch
	}

	data, err := s.redisClient.Get(ctx, s.pendingKey(boundEmail)).Result()
	if err == redis.Nil {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}

	var pending domain.PendingRegistration
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		// Corrupt pending record reads as absent
		s.redisClient.Del(ctx, s.pendingKey(boundEmail), s.artifactKey(code))
		return nil, domain.ErrArtifactNotFound
	}

	// A later issuance superseded this code
	if pending.Code != code {
		return nil, domain.ErrArtifactNotFound
	}

	if s.clock.Now().Sub(pending.IssuedAt) > s.config.TTL {
		s.redisClient.Del(ctx, s.pendingKey(boundEmail), s.artifactKey(code))
		return nil, domain.ErrArtifactExpired
	}

	// Consume the artifact: Issued -> Verified is terminal
	s.redisClient.Del(ctx, s.pendingKey(boundEmail), s.artifactKey(code))

	return &domain.VerifiedIdentity{
		Email:       pending.Email,
		DisplayName: pending.DisplayName,
		IsJury:      pending.IsJury,
	}, nil
}

// VerifyLink implements domain.CredentialService for the signed-link
// variant of the artifact
func (s *CredentialServiceImpl) VerifyLink(ctx context.Context, token string) (*domain.VerifiedIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidInput
	}
	email, code, err := s.linkSvc.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.Verify(ctx, code, email)
}

func (s *CredentialServiceImpl) deliver(pending *domain.PendingRegistration) error {
	link := ""
	if s.config.LinkBaseURL != "" {
		token, err := s.linkSvc.Generate(pending.Email, pending.Code)
		if err != nil {
			return fmt.Errorf("failed to sign verification link: %w", err)
		}
		link = fmt.Sprintf("%s?token=%s", s.config.LinkBaseURL, url.QueryEscape(token))
	}

	minutes := int(s.config.TTL.Minutes())
	if s.config.Channel == "sms" {
		message := fmt.Sprintf("Your Plugin Pitch verification code is %s. Valid for %d minutes.", pending.Code, minutes)
		return s.notifier.SendSMS(pending.Email, message)
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It is valid for %d minutes.</p>",
		pending.DisplayName, pending.Code, minutes,
	)
	if link != "" {
		body += fmt.Sprintf(`<p>Or open this link to verify directly: <a href="%s">%s</a></p>`, link, link)
	}
	return s.notifier.SendEmail(pending.Email, "Verify your email to vote", body)
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *CredentialServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.CodeLength)

	for i := 0; i < s.config.CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}

func (s *CredentialServiceImpl) pendingKey(email string) string { return "pending:" + email }
func (s *CredentialServiceImpl) artifactKey(code string) string { return "artifact:" + code }
func (s *CredentialServiceImpl) resendKey(email string) string  { return "artifact:res:" + email }

var _ domain.CredentialService = (*CredentialServiceImpl)(nil)
