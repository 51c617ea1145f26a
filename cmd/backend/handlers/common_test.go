package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/backdrop-studio/backend/image"
	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/project"
	"github.com/backdrop-studio/backend/testutil"
)

// setupStores wires sqlite-backed project and image stores for handler tests.
func setupStores(t *testing.T) (project.Store, image.Store) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &project.Project{}, &image.Image{})

	log := logger.NewTestLogger()
	projects := project.NewMySQLStore(db, log)
	images := image.NewMySQLStore(db, projects, log)
	return projects, images
}

// jsonRequest builds a request with a JSON body, an authenticated subject in
// context, and mux path variables.
func jsonRequest(t *testing.T, method, target string, body interface{}, userID uuid.UUID, vars map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

// decodeBody decodes a recorded JSON response body into dest.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dest))
}

// createProject seeds a project through the store.
func createProject(t *testing.T, projects project.Store, ownerID uuid.UUID) *project.Project {
	t.Helper()

	p := &project.Project{Name: "Sneaker Launch", OwnerID: ownerID}
	require.NoError(t, projects.Create(context.Background(), p))
	return p
}
