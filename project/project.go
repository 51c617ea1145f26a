package project

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrProjectNotFound is returned when no project exists with the given id.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectAccessDenied is returned when a project exists but belongs to
	// another owner. Kept distinct from ErrProjectNotFound internally; the
	// HTTP layer renders both identically so record existence never leaks.
	ErrProjectAccessDenied = errors.New("project access denied")

	// ErrInvalidProjectName is returned when a project name is empty after trimming.
	ErrInvalidProjectName = errors.New("project name is required")

	// ErrInvalidOwner is returned when owner_id is not set.
	ErrInvalidOwner = errors.New("owner_id is required")
)

// Project is a workspace that groups a user's edited product images.
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index:idx_projects_owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate hook to assign an id before inserting a new project.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Owner returns the id of the subject that created the project.
func (p *Project) Owner() uuid.UUID {
	return p.OwnerID
}

// Validate checks if the project has valid required fields.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProjectName
	}
	if p.OwnerID == uuid.Nil {
		return ErrInvalidOwner
	}
	return nil
}
