package project

import (
	"context"

	"github.com/google/uuid"
)

// Store defines owner-scoped persistence operations for projects. Every
// method takes the caller's owner id and refuses to touch records owned by
// anyone else; a record owned by another subject surfaces as
// ErrProjectAccessDenied while a missing record surfaces as ErrProjectNotFound.
type Store interface {
	// Create inserts a new project. The project's OwnerID must already be
	// set to the caller's subject id.
	Create(ctx context.Context, project *Project) error

	// GetByID retrieves a project owned by ownerID.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Project, error)

	// List retrieves all projects owned by ownerID, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)

	// Update applies the given setters to a project owned by ownerID.
	Update(ctx context.Context, ownerID, id uuid.UUID, setters ...UpdateSetter) error

	// Delete removes a project owned by ownerID together with every image
	// that references it. The cascade runs in one transaction: images are
	// gone before the project row is, never the other way around.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// UpdateSetter is a function that updates a project field.
type UpdateSetter func(*Project) error
