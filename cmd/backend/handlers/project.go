package handlers

import (
	"errors"
	"net/http"

	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/project"
)

// ProjectHandler handles project-related requests. Every operation is scoped
// to the authenticated subject; a project owned by someone else is
// indistinguishable from one that does not exist.
type ProjectHandler struct {
	projectStore project.Store
	logger       logger.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectStore project.Store, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectStore: projectStore,
		logger:       log,
	}
}

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// UpdateProjectRequest represents a project rename request.
type UpdateProjectRequest struct {
	Name string `json:"name"`
}

// projectNotVisible maps both missing and foreign projects to the same 404
// so callers cannot probe for other subjects' project ids.
func projectNotVisible(err error) bool {
	return errors.Is(err, project.ErrProjectNotFound) ||
		errors.Is(err, project.ErrProjectAccessDenied)
}

// Create handles creating a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proj := &project.Project{
		Name:    req.Name,
		OwnerID: userID,
	}

	if err := h.projectStore.Create(r.Context(), proj); err != nil {
		if errors.Is(err, project.ErrInvalidProjectName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to create project", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, proj)
}

// List handles listing the caller's projects, newest first.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projects, err := h.projectStore.List(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list projects", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, ListResponse{Items: projects, Total: len(projects)})
}

// GetByID handles getting a single project by ID.
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	proj, err := h.projectStore.GetByID(r.Context(), userID, id)
	if err != nil {
		if projectNotVisible(err) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	respondJSON(w, http.StatusOK, proj)
}

// Update handles renaming a project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.projectStore.Update(r.Context(), userID, id, project.SetName(req.Name)); err != nil {
		if projectNotVisible(err) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		if errors.Is(err, project.ErrInvalidProjectName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to update project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	updated, err := h.projectStore.GetByID(r.Context(), userID, id)
	if err != nil {
		h.logger.Error(r.Context(), "failed to get updated project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to get updated project")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles deleting a project and every image inside it.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	if err := h.projectStore.Delete(r.Context(), userID, id); err != nil {
		if projectNotVisible(err) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error(r.Context(), "failed to delete project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	respondSuccess(w, "project deleted successfully")
}
