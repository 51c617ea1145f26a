package image

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrImageNotFound is returned when no image exists with the given id.
	ErrImageNotFound = errors.New("image not found")

	// ErrImageAccessDenied is returned when an image exists but belongs to
	// another owner. Distinct from ErrImageNotFound internally; the HTTP
	// layer renders both identically so record existence never leaks.
	ErrImageAccessDenied = errors.New("image access denied")

	// ErrInvalidProjectID is returned when project_id is not set.
	ErrInvalidProjectID = errors.New("project_id is required")

	// ErrInvalidOwner is returned when owner_id is not set.
	ErrInvalidOwner = errors.New("owner_id is required")

	// ErrMissingOriginalRef is returned when the original image reference is empty.
	ErrMissingOriginalRef = errors.New("original image reference is required")

	// ErrMissingEditedRef is returned when the edited image reference is empty.
	ErrMissingEditedRef = errors.New("edited image reference is required")

	// ErrInvalidPrompt is returned when the edit prompt is empty.
	ErrInvalidPrompt = errors.New("prompt is required")
)

// Image is a persisted original/edited pair produced by a background edit.
// Records are immutable after creation; the only mutation is deletion. The
// image references are opaque strings (data URIs in practice) that the store
// passes through without interpreting.
type Image struct {
	ID               uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID        uuid.UUID `json:"project_id" gorm:"type:char(36);not null;index:idx_images_project_id"`
	OwnerID          uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index:idx_images_owner_id"`
	OriginalImageRef string    `json:"original_image_ref" gorm:"type:longtext;not null"`
	EditedImageRef   string    `json:"edited_image_ref" gorm:"type:longtext;not null"`
	Prompt           string    `json:"prompt" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Image) TableName() string {
	return "images"
}

// BeforeCreate hook to assign an id before inserting a new image.
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Owner returns the id of the subject that created the image.
func (i *Image) Owner() uuid.UUID {
	return i.OwnerID
}

// Validate checks if the image has valid required fields.
func (i *Image) Validate() error {
	if i.ProjectID == uuid.Nil {
		return ErrInvalidProjectID
	}
	if i.OwnerID == uuid.Nil {
		return ErrInvalidOwner
	}
	if i.OriginalImageRef == "" {
		return ErrMissingOriginalRef
	}
	if i.EditedImageRef == "" {
		return ErrMissingEditedRef
	}
	if strings.TrimSpace(i.Prompt) == "" {
		return ErrInvalidPrompt
	}
	return nil
}
