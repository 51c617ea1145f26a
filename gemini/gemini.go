// Package gemini drives background edits of product images through Google's
// generative image model. It assembles multimodal requests (inline image +
// instruction text), parses model responses, and decides success or failure
// for single edits and batches of style variations. It performs no image
// manipulation itself and never retries a failed call.
package gemini

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured for the
	// upstream model.
	ErrMissingAPIKey = errors.New("gemini: api key is required")

	// ErrNoImageReturned is returned when the model responded but its first
	// candidate carried no inline image data.
	ErrNoImageReturned = errors.New("gemini: no image data in model response")

	// ErrEmptyPrompt is returned when an edit prompt is empty.
	ErrEmptyPrompt = errors.New("gemini: prompt is required")

	// ErrNoStyles is returned when a variation batch is requested without styles.
	ErrNoStyles = errors.New("gemini: at least one background style is required")

	// ErrEmptyStyle is returned when a requested style is blank.
	ErrEmptyStyle = errors.New("gemini: style must not be empty")
)

// UpstreamError reports a transport or model-side failure, carrying the
// upstream message verbatim. StatusCode is zero for transport errors that
// never produced an HTTP response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gemini: upstream request failed: %s", e.Message)
	}
	return fmt.Sprintf("gemini: upstream model error (status %d): %s", e.StatusCode, e.Message)
}

// Variation is the outcome of one style in a variation batch. It is
// transient: callers decide whether to persist it.
type Variation struct {
	Style          string `json:"style"`
	EditedImageRef string `json:"edited_image_ref"`
}

// Editor is the interface the HTTP layer depends on for all model-driven
// operations, allowing a fake in tests.
type Editor interface {
	// EditBackground performs a single background edit and returns the
	// edited image as a data:image/png;base64 URI.
	EditBackground(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error)

	// SuggestBackgrounds asks the model for background style suggestions
	// for the given product image.
	SuggestBackgrounds(ctx context.Context, imageData []byte, mimeType string) ([]string, error)

	// GenerateVariations edits the same source image once per style,
	// concurrently. It fails as a whole if any style fails and returns
	// results in the order styles were given.
	GenerateVariations(ctx context.Context, imageData []byte, mimeType string, styles []string) ([]Variation, error)
}
