// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storesmith/internal/ai"
)

const (
	metadataSystem = "You are a business analyst. Always respond with valid JSON only."

	fallbackStoreName = "My Store"
	fallbackCategory  = "general"
	descriptionRunes  = 200
)

// Metadata describes the store inferred from a prompt.
type Metadata struct {
	StoreName        string `json:"storeName"`
	StoreDescription string `json:"storeDescription"`
	Category         string `json:"category"`
	Source           Source `json:"source"`
}

// MetadataExtractor derives a store name, description and category.
type MetadataExtractor struct {
	call *caller
}

// NewMetadataExtractor returns a MetadataExtractor using gen.
func NewMetadataExtractor(gen Generator, opts Options) *MetadataExtractor {
	return &MetadataExtractor{call: newCaller(gen, opts)}
}

// Extract asks the model for store metadata. On failure it returns
// FallbackMetadata; blank fields in a valid answer are filled from it.
func (m *MetadataExtractor) Extract(ctx context.Context, prompt string) Metadata {
	text, err := m.call.generate(ctx, ai.Request{
		System:      metadataSystem,
		Prompt:      metadataPrompt(prompt),
		Temperature: 0.5,
		JSON:        true,
	})
	var md Metadata
	if err == nil {
		err = ai.DecodeJSON(text, &md)
	}
	fb := FallbackMetadata(prompt)
	if err != nil {
		slog.Warn("metadata extraction failed, using fallback", "error", err)
		return fb
	}

	md.Source = SourceAI
	md.StoreName = strings.TrimSpace(md.StoreName)
	md.StoreDescription = strings.TrimSpace(md.StoreDescription)
	md.Category = strings.ToLower(strings.TrimSpace(md.Category))
	if md.StoreName == "" {
		md.StoreName, md.Source = fb.StoreName, SourceRepaired
	}
	if md.StoreDescription == "" {
		md.StoreDescription, md.Source = fb.StoreDescription, SourceRepaired
	}
	if md.Category == "" {
		md.Category, md.Source = fb.Category, SourceRepaired
	}
	return md
}

// FallbackMetadata is the deterministic metadata used when extraction
// fails: a generic name, the first 200 characters of the prompt and the
// "general" category.
func FallbackMetadata(prompt string) Metadata {
	desc := strings.TrimSpace(prompt)
	if r := []rune(desc); len(r) > descriptionRunes {
		desc = string(r[:descriptionRunes])
	}
	return Metadata{
		StoreName:        fallbackStoreName,
		StoreDescription: desc,
		Category:         fallbackCategory,
		Source:           SourceFallback,
	}
}

func metadataPrompt(prompt string) string {
	return fmt.Sprintf(`Analyze this store description and extract key metadata: %q

Determine:
1. A suitable store name (if not explicitly mentioned, create one based on the description)
2. A concise store description (1-2 sentences)
3. The primary business category (e.g., fashion, tech, food, services, etc.)

Respond ONLY with a JSON object:
{
  "storeName": "<store name>",
  "storeDescription": "<description>",
  "category": "<category>"
}`, prompt)
}
