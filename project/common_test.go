package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/testutil"
)

// imageRow mirrors image.Image for cascade tests. Declared locally because
// importing the image package from here would create an import cycle.
type imageRow struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey"`
	ProjectID        uuid.UUID `gorm:"type:char(36);index"`
	OwnerID          uuid.UUID `gorm:"type:char(36);index"`
	OriginalImageRef string    `gorm:"type:text"`
	EditedImageRef   string    `gorm:"type:text"`
	Prompt           string    `gorm:"type:text"`
	CreatedAt        time.Time
}

func (imageRow) TableName() string {
	return "images"
}

// setupTestStore creates a test database and project store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, Store) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &Project{}, &imageRow{})

	log := logger.NewTestLogger()
	store := NewMySQLStore(db, log)

	return db, store
}

// createTestProject creates a project with default values.
func createTestProject(name string, ownerID uuid.UUID) *Project {
	return &Project{
		Name:    name,
		OwnerID: ownerID,
	}
}

// backdateProject pins a project's created_at so ordering tests are deterministic.
func backdateProject(t *testing.T, db *gorm.DB, id uuid.UUID, createdAt time.Time) {
	t.Helper()
	err := db.Model(&Project{}).Where("id = ?", id).Update("created_at", createdAt).Error
	if err != nil {
		t.Fatalf("failed to backdate project: %v", err)
	}
}
