package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/backdrop-studio/backend/logger"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.5-flash"
	defaultTimeout    = 120 * time.Second

	// defaultMaxConcurrentVariations bounds the variation fan-out. Each
	// style costs one full model call, so an unbounded batch from a large
	// style list could exhaust sockets and upstream quota.
	defaultMaxConcurrentVariations = 4

	// Edited images are always returned as PNG data URIs, whatever the
	// input mime type was. The model's output is PNG-compatible.
	pngDataURIPrefix = "data:image/png;base64,"
)

// Config holds the settings for the Gemini client. Only APIKey is required.
type Config struct {
	APIKey                  string
	BaseURL                 string
	ImageModel              string
	TextModel               string
	Timeout                 time.Duration
	MaxConcurrentVariations int
}

// Client calls the Gemini generateContent API over HTTP. It is constructed
// once at startup with validated configuration and injected wherever edits
// are orchestrated. Safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	imageModel    string
	textModel     string
	maxConcurrent int
	logger        logger.Logger
}

// NewClient creates a Gemini client. It fails with ErrMissingAPIKey when no
// credential is configured so a misconfigured deployment surfaces at startup
// rather than on the first user request.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = defaultImageModel
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = defaultTextModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxConcurrent := cfg.MaxConcurrentVariations
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentVariations
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		imageModel:    imageModel,
		textModel:     textModel,
		maxConcurrent: maxConcurrent,
		logger:        log,
	}, nil
}

// Wire types for the generateContent endpoint.

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate performs one generateContent call against the given model.
func (c *Client) generate(ctx context.Context, model string, req generateContentRequest) (*generateContentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := c.readErrorMessage(resp.Body)
		c.logger.Warn(ctx, "gemini call failed", map[string]interface{}{
			"model":  model,
			"status": resp.StatusCode,
			"error":  msg,
		})
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return &out, nil
}

// readErrorMessage extracts the upstream error message, falling back to the
// raw body when the error payload is not the documented JSON shape.
func (c *Client) readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

// EditBackground sends a single background-edit request and returns the
// edited image as a PNG data URI.
func (c *Client) EditBackground(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return c.editWithInstruction(ctx, imageData, mimeType, BuildEditPrompt(prompt))
}

// editWithInstruction issues one image-edit call with a fully built
// instruction and extracts the edited image from the response.
func (c *Client) editWithInstruction(ctx context.Context, imageData []byte, mimeType, instruction string) (string, error) {
	req := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
				{Text: instruction},
			},
		}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	resp, err := c.generate(ctx, c.imageModel, req)
	if err != nil {
		return "", err
	}

	// The edited image must arrive as inline data in the first part of the
	// first candidate; anything else counts as no image.
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoImageReturned
	}
	inline := resp.Candidates[0].Content.Parts[0].InlineData
	if inline == nil || inline.Data == "" {
		return "", ErrNoImageReturned
	}

	return pngDataURIPrefix + inline.Data, nil
}

// SuggestBackgrounds asks the text model for 3-5 background suggestions for
// the given product image. Once the call itself succeeds this never fails:
// unusable model text falls back to a fixed default list.
func (c *Client) SuggestBackgrounds(ctx context.Context, imageData []byte, mimeType string) ([]string, error) {
	req := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
				{Text: analyzePrompt},
			},
		}},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}

	suggestions := ParseSuggestions(text.String())
	c.logger.Debug(ctx, "background suggestions generated", map[string]interface{}{
		"count": len(suggestions),
	})
	return suggestions, nil
}
