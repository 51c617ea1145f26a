package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/backdrop-studio/backend/image"
	"github.com/backdrop-studio/backend/logger"
)

// ImageHandler handles stored original/edited image pairs. Like projects,
// images are owner-scoped: a foreign image looks exactly like a missing one.
type ImageHandler struct {
	imageStore image.Store
	logger     logger.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageStore image.Store, log logger.Logger) *ImageHandler {
	return &ImageHandler{
		imageStore: imageStore,
		logger:     log,
	}
}

// SaveImageRequest represents a request to persist an original/edited pair
// into a project.
type SaveImageRequest struct {
	OriginalImageRef string `json:"original_image_ref"`
	EditedImageRef   string `json:"edited_image_ref"`
	Prompt           string `json:"prompt"`
}

func imageNotVisible(err error) bool {
	return errors.Is(err, image.ErrImageNotFound) ||
		errors.Is(err, image.ErrImageAccessDenied)
}

// Save handles persisting an already-edited original/edited pair into a
// project owned by the caller.
func (h *ImageHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	var req SaveImageRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	img := &image.Image{
		ProjectID:        projectID,
		OwnerID:          userID,
		OriginalImageRef: req.OriginalImageRef,
		EditedImageRef:   req.EditedImageRef,
		Prompt:           req.Prompt,
	}

	if err := h.imageStore.Create(r.Context(), img); err != nil {
		h.respondSaveError(w, r, err, userID)
		return
	}

	respondJSON(w, http.StatusCreated, img)
}

// respondSaveError maps image store create failures onto HTTP statuses.
func (h *ImageHandler) respondSaveError(w http.ResponseWriter, r *http.Request, err error, userID uuid.UUID) {
	if projectNotVisible(err) {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	switch {
	case errors.Is(err, image.ErrMissingOriginalRef),
		errors.Is(err, image.ErrMissingEditedRef),
		errors.Is(err, image.ErrInvalidPrompt):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(r.Context(), "failed to save image", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to save image")
	}
}

// ListByProject handles listing a project's images, newest first.
func (h *ImageHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	images, err := h.imageStore.ListByProject(r.Context(), userID, projectID)
	if err != nil {
		if projectNotVisible(err) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error(r.Context(), "failed to list project images", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list images")
		return
	}

	respondJSON(w, http.StatusOK, ListResponse{Items: images, Total: len(images)})
}

// ListAll handles listing every image the caller owns across all projects.
func (h *ImageHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	images, err := h.imageStore.ListByOwner(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list images", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list images")
		return
	}

	respondJSON(w, http.StatusOK, ListResponse{Items: images, Total: len(images)})
}

// GetByID handles getting a single stored image by ID.
func (h *ImageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDOrRespond(w, r, "id", "image")
	if !ok {
		return
	}

	img, err := h.imageStore.GetByID(r.Context(), userID, id)
	if err != nil {
		if imageNotVisible(err) {
			respondError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get image", map[string]interface{}{
			"error":    err.Error(),
			"image_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to get image")
		return
	}

	respondJSON(w, http.StatusOK, img)
}

// Delete handles deleting a stored image.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseUUIDOrRespond(w, r, "id", "image")
	if !ok {
		return
	}

	if err := h.imageStore.Delete(r.Context(), userID, id); err != nil {
		if imageNotVisible(err) {
			respondError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error(r.Context(), "failed to delete image", map[string]interface{}{
			"error":    err.Error(),
			"image_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	respondSuccess(w, "image deleted successfully")
}
