package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// variationHandler replies per-style so tests can fail a single style inside
// a batch. It inspects the instruction text to find the requested style.
func variationHandler(t *testing.T, failStyle string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		instruction := req.Contents[0].Parts[1].Text

		if failStyle != "" && strings.Contains(instruction, failStyle) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"model exploded"}}`))
			return
		}

		// Echo the style back as the "edited image" so ordering is checkable.
		switch {
		case strings.Contains(instruction, "studio"):
			require.NoError(t, json.NewEncoder(w).Encode(imageResponse("c3R1ZGlv")))
		case strings.Contains(instruction, "outdoors"):
			require.NoError(t, json.NewEncoder(w).Encode(imageResponse("b3V0ZG9vcnM=")))
		default:
			require.NoError(t, json.NewEncoder(w).Encode(imageResponse("b3RoZXI=")))
		}
	}
}

func TestClient_GenerateVariations(t *testing.T) {
	ctx := context.Background()
	imageData := []byte("fake-image-bytes")

	t.Run("results follow input style order", func(t *testing.T) {
		client, _ := newTestClient(t, variationHandler(t, ""))

		got, err := client.GenerateVariations(ctx, imageData, "image/png", []string{"studio", "outdoors"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "studio", got[0].Style)
		assert.Equal(t, "data:image/png;base64,c3R1ZGlv", got[0].EditedImageRef)
		assert.Equal(t, "outdoors", got[1].Style)
		assert.Equal(t, "data:image/png;base64,b3V0ZG9vcnM=", got[1].EditedImageRef)
	})

	t.Run("one failing style fails the whole batch", func(t *testing.T) {
		client, _ := newTestClient(t, variationHandler(t, "outdoors"))

		got, err := client.GenerateVariations(ctx, imageData, "image/png", []string{"studio", "outdoors", "beach"})
		require.Error(t, err)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), `style "outdoors"`)

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "model exploded", upstream.Message)
	})

	t.Run("no styles rejected", func(t *testing.T) {
		client, _ := newTestClient(t, variationHandler(t, ""))

		_, err := client.GenerateVariations(ctx, imageData, "image/png", nil)
		assert.ErrorIs(t, err, ErrNoStyles)
	})

	t.Run("blank style rejected before any call", func(t *testing.T) {
		called := false
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := client.GenerateVariations(ctx, imageData, "image/png", []string{"studio", "  "})
		assert.ErrorIs(t, err, ErrEmptyStyle)
		assert.False(t, called)
	})

	t.Run("concurrency stays within the configured bound", func(t *testing.T) {
		var mu sync.Mutex
		inFlight, peak := 0, 0

		srvHandler := func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			defer func() {
				mu.Lock()
				inFlight--
				mu.Unlock()
			}()
			require.NoError(t, json.NewEncoder(w).Encode(imageResponse("ZA==")))
		}

		client, _ := newTestClient(t, srvHandler)
		client.maxConcurrent = 2

		styles := []string{"a", "b", "c", "d", "e", "f"}
		got, err := client.GenerateVariations(ctx, imageData, "image/png", styles)
		require.NoError(t, err)
		assert.Len(t, got, len(styles))

		mu.Lock()
		defer mu.Unlock()
		assert.LessOrEqual(t, peak, 2)
	})
}
