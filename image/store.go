package image

import (
	"context"

	"github.com/google/uuid"
)

// Store defines owner-scoped persistence operations for images. Images are
// immutable once created, so there is no update operation.
type Store interface {
	// Create persists a new original/edited pair. The image's OwnerID must
	// already be set to the caller's subject id; the store re-validates that
	// the referenced project exists and is owned by that same subject, and
	// surfaces project.ErrProjectNotFound or project.ErrProjectAccessDenied
	// when it is not.
	Create(ctx context.Context, img *Image) error

	// GetByID retrieves an image owned by ownerID.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Image, error)

	// ListByProject retrieves all images in a project owned by ownerID,
	// newest first. Ownership is checked on the project itself.
	ListByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]*Image, error)

	// ListByOwner retrieves every image owned by ownerID across all of
	// their projects, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Image, error)

	// Delete removes an image owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
