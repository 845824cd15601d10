package repositories

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// ProjectsChangedChannel carries change notifications for the projects
// collection; subscribers reload the list on any message.
const ProjectsChangedChannel = "projects:changed"

// ProjectRepositoryImpl implements domain.ProjectRepository using GORM,
// publishing a change event after every mutation
type ProjectRepositoryImpl struct {
	db        *gorm.DB
	publisher *redis.Client
}

// DBProject represents the database model for Project (with GORM tags)
type DBProject struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"size:255;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBProject) TableName() string {
	return "projects"
}

// NewProjectRepository creates a new project repository. The publisher is
// optional; without it mutations simply go unannounced.
func NewProjectRepository(db *gorm.DB, publisher *redis.Client) domain.ProjectRepository {
	return &ProjectRepositoryImpl{db: db, publisher: publisher}
}

// Create implements domain.ProjectRepository
func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	dbProject := &DBProject{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
	}
	if err := r.db.WithContext(ctx).Create(dbProject).Error; err != nil {
		return err
	}
	r.publish(ctx, project.ID)
	return nil
}

// Update implements domain.ProjectRepository
func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	result := r.db.WithContext(ctx).Model(&DBProject{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	r.publish(ctx, project.ID)
	return nil
}

// Delete implements domain.ProjectRepository
func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&DBProject{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	r.publish(ctx, id)
	return nil
}

// FindByID implements domain.ProjectRepository
func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var dbProject DBProject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbProject).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &domain.Project{
		ID:          dbProject.ID,
		Name:        dbProject.Name,
		Description: dbProject.Description,
	}, nil
}

// List implements domain.ProjectRepository
func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]domain.Project, error) {
	var dbProjects []DBProject
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&dbProjects).Error; err != nil {
		return nil, err
	}
	projects := make([]domain.Project, 0, len(dbProjects))
	for _, p := range dbProjects {
		projects = append(projects, domain.Project{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
		})
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) publish(ctx context.Context, projectID string) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, ProjectsChangedChannel, projectID).Err(); err != nil {
		log.Printf("projects: change publish failed: %v", err)
	}
}

var _ domain.ProjectRepository = (*ProjectRepositoryImpl)(nil)
