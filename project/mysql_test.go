package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLStore_Create(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("successfully create project", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Product Shoot", ownerID)
		err := store.Create(ctx, p)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.NotZero(t, p.CreatedAt)
		assert.NotZero(t, p.UpdatedAt)
	})

	t.Run("name is trimmed before storing", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("  Shoes  ", ownerID)
		require.NoError(t, store.Create(ctx, p))
		assert.Equal(t, "Shoes", p.Name)
	})

	t.Run("empty name returns error", func(t *testing.T) {
		p := createTestProject("", uuid.New())
		err := store.Create(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidProjectName)
	})

	t.Run("whitespace only name returns error", func(t *testing.T) {
		p := createTestProject("   ", uuid.New())
		err := store.Create(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidProjectName)
	})

	t.Run("missing owner returns error", func(t *testing.T) {
		p := &Project{Name: "No Owner"}
		err := store.Create(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})
}

func TestMySQLStore_GetByID(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("owner retrieves own project", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Mine", ownerID)
		require.NoError(t, store.Create(ctx, p))

		got, err := store.GetByID(ctx, ownerID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "Mine", got.Name)
		assert.Equal(t, ownerID, got.OwnerID)
	})

	t.Run("missing project returns not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("other owner's project returns access denied", func(t *testing.T) {
		p := createTestProject("Theirs", uuid.New())
		require.NoError(t, store.Create(ctx, p))

		_, err := store.GetByID(ctx, uuid.New(), p.ID)
		assert.ErrorIs(t, err, ErrProjectAccessDenied)
	})
}

func TestMySQLStore_List(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("returns only caller's projects newest first", func(t *testing.T) {
		owner := uuid.New()
		other := uuid.New()

		first := createTestProject("First", owner)
		require.NoError(t, store.Create(ctx, first))
		second := createTestProject("Second", owner)
		require.NoError(t, store.Create(ctx, second))
		foreign := createTestProject("Foreign", other)
		require.NoError(t, store.Create(ctx, foreign))

		base := time.Now().UTC().Truncate(time.Second)
		backdateProject(t, db, first.ID, base.Add(-2*time.Hour))
		backdateProject(t, db, second.ID, base.Add(-1*time.Hour))

		projects, err := store.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, second.ID, projects[0].ID)
		assert.Equal(t, first.ID, projects[1].ID)
	})

	t.Run("owner with no projects gets empty list", func(t *testing.T) {
		projects, err := store.List(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}

func TestMySQLStore_Update(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("rename bumps updated_at", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Old Name", ownerID)
		require.NoError(t, store.Create(ctx, p))
		createdUpdatedAt := p.UpdatedAt

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, store.Update(ctx, ownerID, p.ID, SetName("New Name")))

		got, err := store.GetByID(ctx, ownerID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
		assert.True(t, got.UpdatedAt.After(createdUpdatedAt))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Keep", ownerID)
		require.NoError(t, store.Create(ctx, p))

		err := store.Update(ctx, ownerID, p.ID, SetName("  "))
		assert.ErrorIs(t, err, ErrInvalidProjectName)
	})

	t.Run("missing project returns not found", func(t *testing.T) {
		err := store.Update(ctx, uuid.New(), uuid.New(), SetName("X"))
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("other owner cannot rename", func(t *testing.T) {
		p := createTestProject("Theirs", uuid.New())
		require.NoError(t, store.Create(ctx, p))

		err := store.Update(ctx, uuid.New(), p.ID, SetName("Hijacked"))
		assert.ErrorIs(t, err, ErrProjectAccessDenied)
	})
}

func TestMySQLStore_Delete(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	seedImage := func(t *testing.T, projectID, ownerID uuid.UUID) {
		t.Helper()
		err := db.Create(&imageRow{
			ID:               uuid.New(),
			ProjectID:        projectID,
			OwnerID:          ownerID,
			OriginalImageRef: "data:image/png;base64,orig",
			EditedImageRef:   "data:image/png;base64,edit",
			Prompt:           "white studio",
		}).Error
		require.NoError(t, err)
	}

	t.Run("delete cascades to images", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Doomed", ownerID)
		require.NoError(t, store.Create(ctx, p))
		seedImage(t, p.ID, ownerID)
		seedImage(t, p.ID, ownerID)

		require.NoError(t, store.Delete(ctx, ownerID, p.ID))

		_, err := store.GetByID(ctx, ownerID, p.ID)
		assert.ErrorIs(t, err, ErrProjectNotFound)

		var remaining int64
		require.NoError(t, db.Model(&imageRow{}).Where("project_id = ?", p.ID).Count(&remaining).Error)
		assert.Zero(t, remaining)
	})

	t.Run("delete leaves other projects' images alone", func(t *testing.T) {
		ownerID := uuid.New()
		doomed := createTestProject("Doomed", ownerID)
		require.NoError(t, store.Create(ctx, doomed))
		survivor := createTestProject("Survivor", ownerID)
		require.NoError(t, store.Create(ctx, survivor))
		seedImage(t, doomed.ID, ownerID)
		seedImage(t, survivor.ID, ownerID)

		require.NoError(t, store.Delete(ctx, ownerID, doomed.ID))

		var remaining int64
		require.NoError(t, db.Model(&imageRow{}).Where("project_id = ?", survivor.ID).Count(&remaining).Error)
		assert.Equal(t, int64(1), remaining)
	})

	t.Run("missing project returns not found", func(t *testing.T) {
		err := store.Delete(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("other owner cannot delete", func(t *testing.T) {
		ownerID := uuid.New()
		p := createTestProject("Protected", ownerID)
		require.NoError(t, store.Create(ctx, p))
		seedImage(t, p.ID, ownerID)

		err := store.Delete(ctx, uuid.New(), p.ID)
		assert.ErrorIs(t, err, ErrProjectAccessDenied)

		// Nothing was removed.
		_, err = store.GetByID(ctx, ownerID, p.ID)
		assert.NoError(t, err)
		var remaining int64
		require.NoError(t, db.Model(&imageRow{}).Where("project_id = ?", p.ID).Count(&remaining).Error)
		assert.Equal(t, int64(1), remaining)
	})
}
