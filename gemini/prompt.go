package gemini

import (
	"fmt"
	"strings"
)

// The instruction wording below is part of the product's behavior: it
// materially shapes what the model returns. Change it only deliberately and
// in lockstep across single edits and variations.

// BuildEditPrompt wraps a user's background description in the full edit
// instruction sent alongside the image.
func BuildEditPrompt(prompt string) string {
	return fmt.Sprintf("Edit this product image: %s. "+
		"Maintain the original product but change the background as described. "+
		"Keep the product sharp and well-defined.", prompt)
}

// BuildVariationPrompt produces the per-style instruction used during batch
// variation generation.
func BuildVariationPrompt(style string) string {
	return fmt.Sprintf("Edit this product image: Change the background to %s. "+
		"Maintain the original product perfectly but completely replace the background. "+
		"Keep the product sharp and well-defined.", style)
}

// analyzePrompt asks the text model for background suggestions in a strictly
// comma-separated shape so ParseSuggestions can split it.
const analyzePrompt = `Analyze this product image. Identify the main product/subject. ` +
	`Suggest 3-5 different background settings that would showcase this product well. ` +
	`For example: "modern minimalist studio", "outdoor nature setting", "luxury showroom", "vibrant gradient", etc. ` +
	`Keep suggestions short and descriptive. Output as a comma-separated list only, no explanations.`

// defaultSuggestions is returned when the model produces empty text.
var defaultSuggestions = []string{"modern studio", "outdoor setting", "gradient background"}

// ParseSuggestions splits the model's comma-separated suggestion text into a
// cleaned list, falling back to defaults when nothing usable remains.
func ParseSuggestions(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		out = make([]string, len(defaultSuggestions))
		copy(out, defaultSuggestions)
	}
	return out
}
