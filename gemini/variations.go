package gemini

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// GenerateVariations edits the same source image once per requested style.
// Calls run concurrently up to the configured bound. The batch is atomic:
// if any style fails the whole batch fails and no partial results are
// returned. Successful results come back in the order styles were given.
func (c *Client) GenerateVariations(ctx context.Context, imageData []byte, mimeType string, styles []string) ([]Variation, error) {
	if len(styles) == 0 {
		return nil, ErrNoStyles
	}
	for _, style := range styles {
		if strings.TrimSpace(style) == "" {
			return nil, ErrEmptyStyle
		}
	}

	results := make([]Variation, len(styles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)
	for i, style := range styles {
		i, style := i, style
		g.Go(func() error {
			ref, err := c.editWithInstruction(gctx, imageData, mimeType, BuildVariationPrompt(style))
			if err != nil {
				return fmt.Errorf("style %q: %w", style, err)
			}
			results[i] = Variation{Style: style, EditedImageRef: ref}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "variation batch completed", map[string]interface{}{
		"styles": len(styles),
	})
	return results, nil
}
