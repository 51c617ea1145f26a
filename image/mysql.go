package image

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backdrop-studio/backend/internal/ownership"
	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/project"
)

// MySQLStore implements the Store interface using GORM and MySQL. It holds a
// project store so every write re-validates project ownership instead of
// trusting caller-supplied ids.
type MySQLStore struct {
	db       *gorm.DB
	projects project.Store
	logger   logger.Logger
}

// NewMySQLStore creates a new MySQL-backed image store.
func NewMySQLStore(db *gorm.DB, projects project.Store, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:       db,
		projects: projects,
		logger:   log,
	}
}

// Create persists a new original/edited pair after re-validating that the
// target project belongs to the image's owner.
func (s *MySQLStore) Create(ctx context.Context, img *Image) error {
	img.Prompt = strings.TrimSpace(img.Prompt)
	if err := img.Validate(); err != nil {
		return err
	}

	// The project lookup is scoped to the image's owner, so a foreign
	// project surfaces as access denied before anything is written.
	if _, err := s.projects.GetByID(ctx, img.OwnerID, img.ProjectID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		s.logger.Error(ctx, "failed to create image", map[string]interface{}{
			"error":      err.Error(),
			"project_id": img.ProjectID.String(),
			"owner_id":   img.OwnerID.String(),
		})
		return err
	}

	s.logger.Info(ctx, "image created", map[string]interface{}{
		"image_id":   img.ID.String(),
		"project_id": img.ProjectID.String(),
		"owner_id":   img.OwnerID.String(),
	})

	return nil
}

func (s *MySQLStore) fetchOwned(ctx context.Context, ownerID, id uuid.UUID) (*Image, error) {
	var img Image
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&img).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		s.logger.Error(ctx, "failed to get image", map[string]interface{}{
			"error":    err.Error(),
			"image_id": id.String(),
		})
		return nil, err
	}

	if !ownership.Allowed(&img, ownerID) {
		return nil, ErrImageAccessDenied
	}
	return &img, nil
}

// GetByID retrieves an image owned by ownerID.
func (s *MySQLStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Image, error) {
	return s.fetchOwned(ctx, ownerID, id)
}

// ListByProject retrieves all images in a project owned by ownerID, newest first.
func (s *MySQLStore) ListByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]*Image, error) {
	if _, err := s.projects.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	var images []*Image
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&images).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list project images", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		return nil, err
	}

	return images, nil
}

// ListByOwner retrieves every image owned by ownerID, newest first.
func (s *MySQLStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Image, error) {
	var images []*Image
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&images).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list images", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID.String(),
		})
		return nil, err
	}

	return images, nil
}

// Delete removes an image owned by ownerID.
func (s *MySQLStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	img, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(img).Error; err != nil {
		s.logger.Error(ctx, "failed to delete image", map[string]interface{}{
			"error":    err.Error(),
			"image_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "image deleted", map[string]interface{}{
		"image_id": id.String(),
	})

	return nil
}
