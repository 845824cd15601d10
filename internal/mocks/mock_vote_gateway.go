package mocks

import (
	"context"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// MockVoteGateway is a test double for domain.VoteGateway
type MockVoteGateway struct {
	LookupFunc func(ctx context.Context, identity string) (*domain.VoteLookup, error)
	CastFunc   func(ctx context.Context, identity, projectID string, weight int) error
	TallyFunc  func(ctx context.Context) ([]domain.ProjectTally, error)
}

func (m *MockVoteGateway) Lookup(ctx context.Context, identity string) (*domain.VoteLookup, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, identity)
	}
	return &domain.VoteLookup{Found: false}, nil
}

func (m *MockVoteGateway) Cast(ctx context.Context, identity, projectID string, weight int) error {
	if m.CastFunc != nil {
		return m.CastFunc(ctx, identity, projectID, weight)
	}
	return nil
}

func (m *MockVoteGateway) Tally(ctx context.Context) ([]domain.ProjectTally, error) {
	if m.TallyFunc != nil {
		return m.TallyFunc(ctx)
	}
	return nil, nil
}

var _ domain.VoteGateway = (*MockVoteGateway)(nil)

// MockVoteRepository is a test double for domain.VoteRepository
type MockVoteRepository struct {
	AppendFunc          func(ctx context.Context, vote *domain.VoteRecord) error
	FindLatestSinceFunc func(ctx context.Context, identity string, since time.Time) (*domain.VoteRecord, error)
	TallyFunc           func(ctx context.Context) ([]domain.ProjectTally, error)
}

func (m *MockVoteRepository) Append(ctx context.Context, vote *domain.VoteRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, vote)
	}
	return nil
}

func (m *MockVoteRepository) FindLatestSince(ctx context.Context, identity string, since time.Time) (*domain.VoteRecord, error) {
	if m.FindLatestSinceFunc != nil {
		return m.FindLatestSinceFunc(ctx, identity, since)
	}
	return nil, nil
}

func (m *MockVoteRepository) Tally(ctx context.Context) ([]domain.ProjectTally, error) {
	if m.TallyFunc != nil {
		return m.TallyFunc(ctx)
	}
	return nil, nil
}

var _ domain.VoteRepository = (*MockVoteRepository)(nil)
