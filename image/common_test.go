package image

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/project"
	"github.com/backdrop-studio/backend/testutil"
)

// setupTestStore creates a test database with project and image stores.
func setupTestStore(t *testing.T) (*gorm.DB, project.Store, Store) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &project.Project{}, &Image{})

	log := logger.NewTestLogger()
	projects := project.NewMySQLStore(db, log)
	images := NewMySQLStore(db, projects, log)

	return db, projects, images
}

// createTestProject creates and persists a project for the given owner.
func createTestProject(t *testing.T, projects project.Store, ownerID uuid.UUID) *project.Project {
	t.Helper()
	p := &project.Project{Name: "Test Project", OwnerID: ownerID}
	require.NoError(t, projects.Create(context.Background(), p))
	return p
}

// newTestImage builds an unsaved image with default refs.
func newTestImage(projectID, ownerID uuid.UUID) *Image {
	return &Image{
		ProjectID:        projectID,
		OwnerID:          ownerID,
		OriginalImageRef: "data:image/png;base64,b3JpZ2luYWw=",
		EditedImageRef:   "data:image/png;base64,ZWRpdGVk",
		Prompt:           "place on a marble countertop",
	}
}

// backdateImage pins an image's created_at so ordering tests are deterministic.
func backdateImage(t *testing.T, db *gorm.DB, id uuid.UUID, createdAt time.Time) {
	t.Helper()
	err := db.Model(&Image{}).Where("id = ?", id).Update("created_at", createdAt).Error
	if err != nil {
		t.Fatalf("failed to backdate image: %v", err)
	}
}
