package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
// The users collection is record-keeping only; nothing reads it back.
type UserRepositoryImpl struct {
	db    *gorm.DB
	clock domain.Clock
}

// DBVerifiedUser represents the database model for a verified identity
type DBVerifiedUser struct {
	ID             string    `gorm:"primaryKey;size:64"`
	SessionID      string    `gorm:"index;size:64"`
	Email          string    `gorm:"index;size:255"`
	Name           string    `gorm:"size:255"`
	Role           string    `gorm:"size:32"`
	IsJury         bool
	LastVerifiedAt time.Time
}

// TableName returns the table name for GORM
func (DBVerifiedUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, clock domain.Clock) domain.UserRepository {
	return &UserRepositoryImpl{db: db, clock: clock}
}

// RecordVerification implements domain.UserRepository
func (r *UserRepositoryImpl) RecordVerification(ctx context.Context, identity *domain.VerifiedIdentity, sessionID string) error {
	role := domain.RoleVoter
	if identity.IsJury {
		role = domain.RoleJury
	}
	record := &DBVerifiedUser{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		Email:          identity.Email,
		Name:           identity.DisplayName,
		Role:           string(role),
		IsJury:         identity.IsJury,
		LastVerifiedAt: r.clock.Now(),
	}
	return r.db.WithContext(ctx).Create(record).Error
}

var _ domain.UserRepository = (*UserRepositoryImpl)(nil)
