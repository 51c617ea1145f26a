package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/backdrop-studio/backend/gemini"
	"github.com/backdrop-studio/backend/image"
	"github.com/backdrop-studio/backend/logger"
)

// allowedMIMETypes lists the source image formats the editor accepts.
var allowedMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// EditHandler drives model-backed background edits: single edits, suggestion
// analysis, variation batches, and the edit-then-persist flow.
type EditHandler struct {
	editor     gemini.Editor
	imageStore image.Store
	logger     logger.Logger
}

// NewEditHandler creates a new edit handler.
func NewEditHandler(editor gemini.Editor, imageStore image.Store, log logger.Logger) *EditHandler {
	return &EditHandler{
		editor:     editor,
		imageStore: imageStore,
		logger:     log,
	}
}

// EditRequest represents a single background edit request. ImageData is
// base64, with or without a data URI prefix; when a data URI is given its
// mime type wins over the MimeType field.
type EditRequest struct {
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
	Prompt    string `json:"prompt"`
}

// EditResponse carries the edited image as a PNG data URI.
type EditResponse struct {
	EditedImageRef string `json:"edited_image_ref"`
}

// AnalyzeRequest represents a background suggestion request.
type AnalyzeRequest struct {
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

// AnalyzeResponse carries background style suggestions.
type AnalyzeResponse struct {
	Suggestions []string `json:"suggestions"`
}

// VariationsRequest represents a variation batch request.
type VariationsRequest struct {
	ImageData string   `json:"image_data"`
	MimeType  string   `json:"mime_type"`
	Styles    []string `json:"styles"`
}

// VariationsResponse carries one edited image per requested style, in the
// order styles were given.
type VariationsResponse struct {
	Variations []gemini.Variation `json:"variations"`
}

// decodeImagePayload turns the request's image fields into raw bytes and a
// validated mime type. It tolerates a data URI prefix on the base64 payload.
func decodeImagePayload(imageData, mimeType string) ([]byte, string, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, "", errors.New("image_data is required")
	}

	if rest, ok := strings.CutPrefix(imageData, "data:"); ok {
		uriMime, payload, found := strings.Cut(rest, ";base64,")
		if !found {
			return nil, "", errors.New("malformed image data URI")
		}
		imageData = payload
		mimeType = uriMime
	}

	if !allowedMIMETypes[mimeType] {
		return nil, "", fmt.Errorf("unsupported mime type %q: must be image/png, image/jpeg or image/webp", mimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, "", errors.New("image_data is not valid base64")
	}
	if len(raw) == 0 {
		return nil, "", errors.New("image_data is empty")
	}
	return raw, mimeType, nil
}

// respondEditorError maps editor failures onto HTTP statuses. Configuration
// gaps read as 503, upstream model trouble as 502, bad input as 400.
func (h *EditHandler) respondEditorError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *gemini.UpstreamError
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		respondError(w, http.StatusServiceUnavailable, "image editing is not configured")
	case errors.Is(err, gemini.ErrEmptyPrompt),
		errors.Is(err, gemini.ErrNoStyles),
		errors.Is(err, gemini.ErrEmptyStyle):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gemini.ErrNoImageReturned):
		respondError(w, http.StatusBadGateway, "model returned no image")
	case errors.As(err, &upstream):
		h.logger.Error(r.Context(), "upstream edit failed", map[string]interface{}{
			"error":  upstream.Message,
			"status": upstream.StatusCode,
		})
		respondError(w, http.StatusBadGateway, "image editing service failed")
	default:
		h.logger.Error(r.Context(), "edit failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to edit image")
	}
}

// Edit handles a single background edit. The result is returned to the
// caller and not persisted.
func (h *EditHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req EditRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw, mimeType, err := decodeImagePayload(req.ImageData, req.MimeType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ref, err := h.editor.EditBackground(r.Context(), raw, mimeType, req.Prompt)
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, EditResponse{EditedImageRef: ref})
}

// Analyze handles background suggestion requests.
func (h *EditHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req AnalyzeRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw, mimeType, err := decodeImagePayload(req.ImageData, req.MimeType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestions, err := h.editor.SuggestBackgrounds(r.Context(), raw, mimeType)
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Suggestions: suggestions})
}

// Variations handles a batch of style variations. The batch is atomic:
// either every style succeeds or the caller gets an error and no results.
func (h *EditHandler) Variations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req VariationsRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw, mimeType, err := decodeImagePayload(req.ImageData, req.MimeType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	variations, err := h.editor.GenerateVariations(r.Context(), raw, mimeType, req.Styles)
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, VariationsResponse{Variations: variations})
}

// EditAndSave performs a background edit and persists the original/edited
// pair into the project in one call. Nothing is stored when the edit fails.
func (h *EditHandler) EditAndSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := parseUUIDOrRespond(w, r, "id", "project")
	if !ok {
		return
	}

	var req EditRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw, mimeType, err := decodeImagePayload(req.ImageData, req.MimeType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	editedRef, err := h.editor.EditBackground(r.Context(), raw, mimeType, req.Prompt)
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	img := &image.Image{
		ProjectID:        projectID,
		OwnerID:          userID,
		OriginalImageRef: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw)),
		EditedImageRef:   editedRef,
		Prompt:           req.Prompt,
	}

	if err := h.imageStore.Create(r.Context(), img); err != nil {
		if projectNotVisible(err) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error(r.Context(), "failed to persist edited image", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to save edited image")
		return
	}

	respondJSON(w, http.StatusCreated, img)
}
