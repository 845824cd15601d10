package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/mocks"
)

func TestLinkTokenService_RoundTrip(t *testing.T) {
	clock := mocks.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewLinkTokenService("test-secret", "pluginpitch", time.Hour, clock)

	token, err := svc.Generate("ana@example.com", "123456")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	email, code, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if email != "ana@example.com" || code != "123456" {
		t.Errorf("unexpected claims: email=%q code=%q", email, code)
	}
}

func TestLinkTokenService_Expired(t *testing.T) {
	clock := mocks.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewLinkTokenService("test-secret", "pluginpitch", time.Hour, clock)

	token, err := svc.Generate("ana@example.com", "123456")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	clock.Advance(time.Hour + time.Minute)

	if _, _, err := svc.Parse(token); !errors.Is(err, domain.ErrArtifactExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestLinkTokenService_Invalid(t *testing.T) {
	clock := mocks.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewLinkTokenService("test-secret", "pluginpitch", time.Hour, clock)

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "garbage token",
			token: func() string { return "not.a.jwt" },
		},
		{
			name: "wrong signing key",
			token: func() string {
				other := NewLinkTokenService("other-secret", "pluginpitch", time.Hour, clock)
				token, _ := other.Generate("ana@example.com", "123456")
				return token
			},
		},
		{
			name: "wrong issuer",
			token: func() string {
				other := NewLinkTokenService("test-secret", "someone-else", time.Hour, clock)
				token, _ := other.Generate("ana@example.com", "123456")
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Parse(tt.token()); !errors.Is(err, domain.ErrArtifactNotFound) {
				t.Fatalf("expected not-found, got %v", err)
			}
		})
	}
}
