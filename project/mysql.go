package project

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backdrop-studio/backend/internal/ownership"
	"github.com/backdrop-studio/backend/logger"
)

// MySQLStore implements the Store interface using GORM and MySQL.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new MySQL-backed project store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Create inserts a new project for its owner.
func (s *MySQLStore) Create(ctx context.Context, project *Project) error {
	project.Name = strings.TrimSpace(project.Name)
	if err := project.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		s.logger.Error(ctx, "failed to create project", map[string]interface{}{
			"error":    err.Error(),
			"name":     project.Name,
			"owner_id": project.OwnerID.String(),
		})
		return err
	}

	s.logger.Info(ctx, "project created", map[string]interface{}{
		"project_id": project.ID.String(),
		"owner_id":   project.OwnerID.String(),
	})

	return nil
}

// fetchOwned loads a project by id within the given db handle and enforces
// the ownership predicate. The lookup and the check are deliberately split so
// a foreign record yields ErrProjectAccessDenied, not ErrProjectNotFound.
func fetchOwned(db *gorm.DB, ownerID, id uuid.UUID) (*Project, error) {
	var project Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !ownership.Allowed(&project, ownerID) {
		return nil, ErrProjectAccessDenied
	}
	return &project, nil
}

// GetByID retrieves a project owned by ownerID.
func (s *MySQLStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Project, error) {
	project, err := fetchOwned(s.db.WithContext(ctx), ownerID, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrProjectAccessDenied) {
			return nil, err
		}
		s.logger.Error(ctx, "failed to get project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id.String(),
		})
		return nil, err
	}
	return project, nil
}

// List retrieves all projects owned by ownerID, newest first.
func (s *MySQLStore) List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error) {
	var projects []*Project
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list projects", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID.String(),
		})
		return nil, err
	}

	return projects, nil
}

// Update applies the given setters to a project owned by ownerID and bumps
// its updated_at timestamp.
func (s *MySQLStore) Update(ctx context.Context, ownerID, id uuid.UUID, setters ...UpdateSetter) error {
	project, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	for _, setter := range setters {
		if err := setter(project); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		s.logger.Error(ctx, "failed to update project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "project updated", map[string]interface{}{
		"project_id": id.String(),
	})

	return nil
}

// Delete removes a project owned by ownerID and cascades to its images. The
// whole cascade runs in one transaction so images never outlive their project.
func (s *MySQLStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	var imagesRemoved int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := fetchOwned(tx, ownerID, id)
		if err != nil {
			return err
		}

		res := tx.Exec("DELETE FROM images WHERE project_id = ?", project.ID)
		if res.Error != nil {
			return res.Error
		}
		imagesRemoved = res.RowsAffected

		return tx.Delete(project).Error
	})

	if err != nil {
		if errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrProjectAccessDenied) {
			return err
		}
		s.logger.Error(ctx, "failed to delete project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "project deleted", map[string]interface{}{
		"project_id":     id.String(),
		"images_removed": imagesRemoved,
	})

	return nil
}
