// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"storesmith/internal/ai"
	"storesmith/internal/catalog"
)

const contentSystem = "You are a professional content generator. Always respond with valid JSON only."

// GeneratedSection is the content produced for one selected layout.
type GeneratedSection struct {
	SectionType   catalog.SectionType `json:"sectionType"`
	LayoutID      string              `json:"layoutId"`
	LayoutVariant string              `json:"layoutVariant"`
	Content       catalog.Content     `json:"content"`
	Order         int                 `json:"order"`
	Source        Source              `json:"source"`
}

// ContentGenerator fills a layout's fields from a store description.
type ContentGenerator struct {
	call *caller
}

// NewContentGenerator returns a ContentGenerator using gen.
func NewContentGenerator(gen Generator, opts Options) *ContentGenerator {
	return &ContentGenerator{call: newCaller(gen, opts)}
}

// GenerateOne produces content for layout. The answer is checked against
// the layout's fields and every missing or malformed field is taken from
// the fallback; on any service or parse failure the whole section is
// fallback content. The result always satisfies catalog.Validate.
func (g *ContentGenerator) GenerateOne(ctx context.Context, prompt string, layout catalog.LayoutDefinition) (catalog.Content, Source) {
	text, err := g.call.generate(ctx, ai.Request{
		System:      contentSystem,
		Prompt:      contentPrompt(prompt, layout),
		Temperature: 0.7,
		JSON:        true,
	})
	var content catalog.Content
	if err == nil {
		err = ai.DecodeJSON(text, &content)
	}
	if err != nil {
		slog.Warn("content generation failed, using fallback",
			"section", layout.SectionType, "layout", layout.ID, "error", err)
		return catalog.LayoutFallback(layout), SourceFallback
	}

	fields := append(append([]string{}, layout.RequiredFields...), layout.MediaFields...)
	content, repaired := catalog.ApplyFallback(layout.SectionType, content, fields)
	if len(repaired) > 0 {
		slog.Warn("generated content incomplete, filled from fallback",
			"layout", layout.ID, "fields", repaired)
		return content, SourceRepaired
	}
	return content, SourceAI
}

// GenerateAll produces content for every selection concurrently. Order is
// the selection's position in the input, not completion order.
func (g *ContentGenerator) GenerateAll(ctx context.Context, prompt string, ordered []Selection) []GeneratedSection {
	out := make([]GeneratedSection, len(ordered))

	var eg errgroup.Group
	for i, sel := range ordered {
		eg.Go(func() error {
			content, src := g.GenerateOne(ctx, prompt, sel.Layout)
			out[i] = GeneratedSection{
				SectionType:   sel.SectionType,
				LayoutID:      sel.Layout.ID,
				LayoutVariant: sel.Layout.Variant,
				Content:       content,
				Order:         i,
				Source:        src,
			}
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// Regenerate produces fresh content for layout with extra instructions
// appended to the prompt.
func (g *ContentGenerator) Regenerate(ctx context.Context, prompt string, layout catalog.LayoutDefinition, instructions string) (catalog.Content, Source) {
	if instructions = strings.TrimSpace(instructions); instructions != "" {
		prompt = fmt.Sprintf("%s\n\nAdditional instructions: %s", prompt, instructions)
	}
	return g.GenerateOne(ctx, prompt, layout)
}

func contentPrompt(prompt string, layout catalog.LayoutDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI content generator for a store builder application.\n\n")
	fmt.Fprintf(&b, "User's store description: %q\n\n", prompt)
	fmt.Fprintf(&b, "Section type: %s\nLayout variant: %s\n\n", layout.SectionType, layout.Variant)
	fmt.Fprintf(&b, "Generate compelling content for the following fields: %s\n\n", strings.Join(layout.RequiredFields, ", "))
	b.WriteString(`Guidelines:
- Make the content relevant to the user's store description
- Use persuasive, engaging language
- Keep headlines concise (5-10 words)
- Keep descriptions to 1-2 sentences
- For product sections, generate realistic product examples based on the store type
- For testimonials, create believable customer reviews
- Maintain a professional but approachable tone

Respond ONLY with a JSON object where keys are the required fields.

Special field formats:
`)
	for _, f := range layout.Fields() {
		if hint := fieldHint(layout.SectionType, f); hint != "" {
			b.WriteString("- " + hint + "\n")
		}
	}
	b.WriteString(`- For image/video URLs, use placeholder services like "https://placehold.co/800x600/png?text=Hero+Image"

Respond with valid JSON only.`)
	return b.String()
}

func fieldHint(t catalog.SectionType, f catalog.Field) string {
	switch f.Kind {
	case catalog.KindProducts:
		if t == catalog.FeaturedProducts {
			return `"products": an array of 3-6 product objects with: name, description, price, image (placeholder URL), badge, cta`
		}
		return `"products": an array of 3-6 product objects with: name, description, price, image (placeholder URL)`
	case catalog.KindTestimonials:
		return `"testimonials": an array of 3 testimonial objects with: quote, authorName, authorTitle, rating (1-5), authorImage (placeholder URL)`
	case catalog.KindLinks:
		return `"links": an array of link objects with: text, url`
	case catalog.KindBenefits:
		return `"benefits": an array of 3-4 benefit strings`
	case catalog.KindColumns:
		return `"columns": an array of 2-4 objects with: title, links (array of objects with text, url)`
	case catalog.KindSocialLinks:
		return `"socialLinks": an array of objects with: platform, url, icon`
	}
	return ""
}
