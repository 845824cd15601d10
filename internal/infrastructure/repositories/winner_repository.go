package repositories

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// WinnerChangedChannel carries change notifications for the winner
// singleton; last write wins.
const WinnerChangedChannel = "winner:changed"

// winnerRowID is the fixed primary key of the singleton row
const winnerRowID = "winner"

// WinnerRepositoryImpl implements domain.WinnerRepository using GORM
type WinnerRepositoryImpl struct {
	db        *gorm.DB
	publisher *redis.Client
	clock     domain.Clock
}

// DBWinner represents the database model for the winner singleton
type DBWinner struct {
	ID          string    `gorm:"primaryKey;size:32"`
	WinnerID    string    `gorm:"size:64"`
	AnnouncedAt time.Time
}

// TableName returns the table name for GORM
func (DBWinner) TableName() string {
	return "results"
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db *gorm.DB, publisher *redis.Client, clock domain.Clock) domain.WinnerRepository {
	return &WinnerRepositoryImpl{db: db, publisher: publisher, clock: clock}
}

// Get implements domain.WinnerRepository
func (r *WinnerRepositoryImpl) Get(ctx context.Context) (*domain.WinnerAnnouncement, error) {
	var dbWinner DBWinner
	err := r.db.WithContext(ctx).Where("id = ?", winnerRowID).First(&dbWinner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrWinnerNotSet
		}
		return nil, err
	}
	if dbWinner.WinnerID == "" {
		return nil, domain.ErrWinnerNotSet
	}
	return &domain.WinnerAnnouncement{
		WinnerID:    dbWinner.WinnerID,
		AnnouncedAt: dbWinner.AnnouncedAt,
	}, nil
}

// Set implements domain.WinnerRepository
func (r *WinnerRepositoryImpl) Set(ctx context.Context, winnerID string) (*domain.WinnerAnnouncement, error) {
	announcement := &domain.WinnerAnnouncement{
		WinnerID:    winnerID,
		AnnouncedAt: r.clock.Now(),
	}
	dbWinner := &DBWinner{
		ID:          winnerRowID,
		WinnerID:    announcement.WinnerID,
		AnnouncedAt: announcement.AnnouncedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"winner_id", "announced_at"}),
	}).Create(dbWinner).Error
	if err != nil {
		return nil, err
	}
	r.publish(ctx, winnerID)
	return announcement, nil
}

// Clear implements domain.WinnerRepository
func (r *WinnerRepositoryImpl) Clear(ctx context.Context) error {
	err := r.db.WithContext(ctx).Delete(&DBWinner{}, "id = ?", winnerRowID).Error
	if err != nil {
		return err
	}
	r.publish(ctx, "")
	return nil
}

func (r *WinnerRepositoryImpl) publish(ctx context.Context, winnerID string) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, WinnerChangedChannel, winnerID).Err(); err != nil {
		log.Printf("winner: change publish failed: %v", err)
	}
}

var _ domain.WinnerRepository = (*WinnerRepositoryImpl)(nil)
