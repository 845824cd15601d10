package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// RedisSessionStore implements domain.SessionStore on Redis. Records are
// JSON payloads with a TTL matching the session lifetime; expiry is also
// checked on read so a fake clock can outrun Redis in tests.
type RedisSessionStore struct {
	client      *redis.Client
	clock       domain.Clock
	voterTTL    time.Duration
	adminTTL    time.Duration
	voterPrefix string
	adminPrefix string
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(client *redis.Client, clock domain.Clock, voterTTL, adminTTL time.Duration) domain.SessionStore {
	return &RedisSessionStore{
		client:      client,
		clock:       clock,
		voterTTL:    voterTTL,
		adminTTL:    adminTTL,
		voterPrefix: "session:voter:",
		adminPrefix: "session:admin:",
	}
}

// CreateVoterSession implements domain.SessionStore
func (s *RedisSessionStore) CreateVoterSession(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error) {
	session := domain.NewVoterSession("session_"+uuid.NewString(), identity, s.clock.Now(), s.voterTTL)
	if err := s.save(ctx, s.voterPrefix+session.ID, session, s.voterTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// CreateAdminSession implements domain.SessionStore
func (s *RedisSessionStore) CreateAdminSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewAdminSession("admin_"+uuid.NewString(), s.clock.Now(), s.adminTTL)
	if err := s.save(ctx, s.adminPrefix+session.ID, session, s.adminTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// GetVoterSession implements domain.SessionStore
func (s *RedisSessionStore) GetVoterSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.get(ctx, s.voterPrefix+sessionID)
}

// GetAdminSession implements domain.SessionStore
func (s *RedisSessionStore) GetAdminSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.get(ctx, s.adminPrefix+sessionID)
}

// ClearVoterSession implements domain.SessionStore
func (s *RedisSessionStore) ClearVoterSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.voterPrefix+sessionID).Err()
}

// ClearAdminSession implements domain.SessionStore
func (s *RedisSessionStore) ClearAdminSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.adminPrefix+sessionID).Err()
}

func (s *RedisSessionStore) save(ctx context.Context, key string, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// get returns (nil, nil) for missing, corrupt, or expired records;
// corrupt and expired ones are removed on the way out.
func (s *RedisSessionStore) get(ctx context.Context, key string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// A corrupt record reads as logged out, not as a failure
		s.client.Del(ctx, key)
		return nil, nil
	}

	if session.Expired(s.clock.Now()) {
		s.client.Del(ctx, key)
		return nil, nil
	}

	return &session, nil
}

var _ domain.SessionStore = (*RedisSessionStore)(nil)
