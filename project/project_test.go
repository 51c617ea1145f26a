package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr error
	}{
		{
			name:    "valid project",
			project: Project{Name: "Shoes", OwnerID: uuid.New()},
			wantErr: nil,
		},
		{
			name:    "empty name",
			project: Project{Name: "", OwnerID: uuid.New()},
			wantErr: ErrInvalidProjectName,
		},
		{
			name:    "whitespace only name",
			project: Project{Name: "   ", OwnerID: uuid.New()},
			wantErr: ErrInvalidProjectName,
		},
		{
			name:    "missing owner",
			project: Project{Name: "Shoes"},
			wantErr: ErrInvalidOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestProject_Owner(t *testing.T) {
	ownerID := uuid.New()
	p := Project{Name: "Shoes", OwnerID: ownerID}
	assert.Equal(t, ownerID, p.Owner())
}
