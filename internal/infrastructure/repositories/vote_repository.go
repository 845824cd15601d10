package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// VoteRepositoryImpl implements domain.VoteRepository using GORM.
// The votes table is append-only; nothing here updates or deletes rows.
type VoteRepositoryImpl struct {
	db *gorm.DB
}

// DBVote represents the database model for VoteRecord (with GORM tags)
type DBVote struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ProjectID string    `gorm:"index;size:64"`
	UserEmail string    `gorm:"index;size:255"`
	Weight    int       `gorm:"not null"`
	Timestamp time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBVote) TableName() string {
	return "votes"
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) domain.VoteRepository {
	return &VoteRepositoryImpl{db: db}
}

// Append implements domain.VoteRepository
func (r *VoteRepositoryImpl) Append(ctx context.Context, vote *domain.VoteRecord) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	dbVote := &DBVote{
		ID:        vote.ID,
		ProjectID: vote.ProjectID,
		UserEmail: vote.UserEmail,
		Weight:    vote.Weight,
		Timestamp: vote.Timestamp,
	}
	return r.db.WithContext(ctx).Create(dbVote).Error
}

// FindLatestSince implements domain.VoteRepository. Zero matches is not
// an error: (nil, nil).
func (r *VoteRepositoryImpl) FindLatestSince(ctx context.Context, identity string, since time.Time) (*domain.VoteRecord, error) {
	var dbVote DBVote
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND timestamp >= ?", identity, since).
		Order("timestamp DESC").
		First(&dbVote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &domain.VoteRecord{
		ID:        dbVote.ID,
		ProjectID: dbVote.ProjectID,
		UserEmail: dbVote.UserEmail,
		Weight:    dbVote.Weight,
		Timestamp: dbVote.Timestamp,
	}, nil
}

// Tally implements domain.VoteRepository: weighted standings per project
func (r *VoteRepositoryImpl) Tally(ctx context.Context) ([]domain.ProjectTally, error) {
	var rows []domain.ProjectTally
	err := r.db.WithContext(ctx).
		Table("votes").
		Select("votes.project_id AS project_id, projects.name AS name, COUNT(votes.id) AS votes, SUM(votes.weight) AS points").
		Joins("LEFT JOIN projects ON projects.id = votes.project_id").
		Group("votes.project_id, projects.name").
		Order("points DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var _ domain.VoteRepository = (*VoteRepositoryImpl)(nil)
