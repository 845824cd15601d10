package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// VoteServiceImpl implements domain.VoteGateway: the boundary to the
// votes collection, with an advisory Redis cache in front of the daily
// lookup. Correctness never depends on the cache; any cache failure
// degrades to a ledger query.
type VoteServiceImpl struct {
	votes       domain.VoteRepository
	projects    domain.ProjectRepository
	redisClient *redis.Client
	clock       domain.Clock
	cacheTTL    time.Duration

	mu       sync.Mutex
	identity map[string]*sync.Mutex
}

// NewVoteService creates a new vote gateway
func NewVoteService(votes domain.VoteRepository, projects domain.ProjectRepository, redisClient *redis.Client, clock domain.Clock, cacheTTL time.Duration) domain.VoteGateway {
	return &VoteServiceImpl{
		votes:       votes,
		projects:    projects,
		redisClient: redisClient,
		clock:       clock,
		cacheTTL:    cacheTTL,
		identity:    make(map[string]*sync.Mutex),
	}
}

// Lookup implements domain.VoteGateway: has this identity voted today,
// and for what. Cache first, ledger on miss.
func (s *VoteServiceImpl) Lookup(ctx context.Context, identity string) (*domain.VoteLookup, error) {
	if cached := s.cacheGet(ctx, identity); cached != nil {
		return cached, nil
	}

	record, err := s.votes.FindLatestSince(ctx, identity, s.startOfToday())
	if err != nil {
		return nil, fmt.Errorf("failed to query vote ledger: %w", err)
	}

	lookup := &domain.VoteLookup{Found: false}
	if record != nil {
		lookup = &domain.VoteLookup{
			Found:     true,
			ProjectID: record.ProjectID,
			IsJury:    record.Weight == 2,
		}
	}

	s.cachePut(ctx, identity, lookup)
	return lookup, nil
}

// Cast implements domain.VoteGateway. It appends without re-checking the
// daily-uniqueness rule; that check happens at issuance. The per-identity
// mutex serializes submissions within this process, but two processes
// racing inside the query/insert window can still both land a record for
// the same day. Closing that needs a unique constraint on
// (user_email, vote day) at the store, which the store does not offer.
func (s *VoteServiceImpl) Cast(ctx context.Context, identity, projectID string, weight int) error {
	lock := s.identityLock(identity)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			// Accepted but orphaned: the UI only offers known projects,
			// so an unknown id is recorded and flagged, not rejected
			log.Printf("votes: recording vote for unknown project %q from %s", projectID, identity)
		} else {
			return fmt.Errorf("failed to validate project: %w", err)
		}
	}

	vote := &domain.VoteRecord{
		ProjectID: projectID,
		UserEmail: identity,
		Weight:    weight,
		Timestamp: s.clock.Now().UTC(),
	}
	if err := s.votes.Append(ctx, vote); err != nil {
		return fmt.Errorf("failed to append vote: %w", err)
	}

	s.cachePut(ctx, identity, &domain.VoteLookup{
		Found:     true,
		ProjectID: projectID,
		IsJury:    weight == 2,
	})
	return nil
}

// Tally implements domain.VoteGateway
func (s *VoteServiceImpl) Tally(ctx context.Context) ([]domain.ProjectTally, error) {
	return s.votes.Tally(ctx)
}

func (s *VoteServiceImpl) startOfToday() time.Time {
	return s.clock.Now().UTC().Truncate(24 * time.Hour)
}

func (s *VoteServiceImpl) identityLock(identity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.identity[identity]
	if !ok {
		lock = &sync.Mutex{}
		s.identity[identity] = lock
	}
	return lock
}

func (s *VoteServiceImpl) cacheKey(identity string) string {
	return "votecache:" + identity
}

func (s *VoteServiceImpl) cacheGet(ctx context.Context, identity string) *domain.VoteLookup {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return nil
	}
	data, err := s.redisClient.Get(ctx, s.cacheKey(identity)).Result()
	if err != nil {
		return nil
	}
	var lookup domain.VoteLookup
	if err := json.Unmarshal([]byte(data), &lookup); err != nil {
		return nil
	}
	if s.clock.Now().Sub(lookup.CachedAt) >= s.cacheTTL {
		return nil
	}
	// An entry written before UTC midnight answers for the wrong day
	if !lookup.CachedAt.UTC().Truncate(24 * time.Hour).Equal(s.startOfToday()) {
		return nil
	}
	return &lookup
}

func (s *VoteServiceImpl) cachePut(ctx context.Context, identity string, lookup *domain.VoteLookup) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return
	}
	lookup.CachedAt = s.clock.Now()
	data, err := json.Marshal(lookup)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, s.cacheKey(identity), data, s.cacheTTL).Err(); err != nil {
		log.Printf("votes: cache write failed for %s: %v", identity, err)
	}
}

var _ domain.VoteGateway = (*VoteServiceImpl)(nil)
