// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// ImageGenerator is implemented by providers that can draw pictures
// (OpenAI and Gemini when an image model is configured). The storefront
// uses it for hero illustrations.
type ImageGenerator interface {
	// GenerateImage returns raw image bytes and their MIME type.
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// GenerateImage delegates to the active provider when it can draw.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	p, err := r.Active()
	if err != nil {
		return nil, "", err
	}

	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, "", fmt.Errorf("ai: provider %q does not support image generation", p.Name())
	}
	return ig.GenerateImage(ctx, prompt)
}

// SupportsImageGeneration reports whether the active provider can draw.
// Providers without an image model still satisfy ImageGenerator, so the
// configured model is checked as well.
func (r *Registry) SupportsImageGeneration() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	switch v := p.(type) {
	case *openAIProvider:
		return v.config.ModelImage != ""
	case *geminiProvider:
		return v.config.ModelImage != ""
	}
	_, ok := p.(ImageGenerator)
	return ok
}
