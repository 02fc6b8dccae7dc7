// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// TestProvidersLive runs a JSON-mode request against every provider whose
// API key is present in the environment. Providers without keys are skipped.
func TestProvidersLive(t *testing.T) {
	providers := []struct {
		name, keyEnv, modelEnv, defaultModel string
	}{
		{"gemini", "GEMINI_API_KEY", "GEMINI_MODEL", "gemini-2.5-flash"},
		{"claude", "CLAUDE_API_KEY", "CLAUDE_MODEL", "claude-sonnet-4-6"},
		{"openai", "OPENAI_API_KEY", "OPENAI_MODEL", "gpt-4o-mini"},
		{"mistral", "MISTRAL_API_KEY", "MISTRAL_MODEL", "mistral-small-latest"},
	}

	for _, p := range providers {
		t.Run(p.name, func(t *testing.T) {
			key := os.Getenv(p.keyEnv)
			if key == "" {
				t.Skipf("%s not set", p.keyEnv)
			}
			model := os.Getenv(p.modelEnv)
			if model == "" {
				model = p.defaultModel
			}

			reg := NewRegistry(p.name, map[string]ProviderConfig{
				p.name: {APIKey: key, Model: model},
			})

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			text, err := reg.Generate(ctx, Request{
				System:      "You are a layout ranking assistant. Always respond with valid JSON only.",
				Prompt:      `Rate how well a minimal hero fits "a bakery in Lisbon". Respond as {"score": <0-100>, "reasoning": "<short>"}.`,
				Temperature: 0.3,
				JSON:        true,
			})
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			var out struct {
				Score     float64 `json:"score"`
				Reasoning string  `json:"reasoning"`
			}
			if err := DecodeJSON(text, &out); err != nil {
				t.Fatalf("DecodeJSON(%q): %v", text, err)
			}
			t.Logf("%s: score=%v reasoning=%q", p.name, out.Score, out.Reasoning)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type scored struct {
		Score int `json:"score"`
	}

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"plain", `{"score": 72}`, 72, false},
		{"fenced", "```json\n{\"score\": 40}\n```", 40, false},
		{"bare fence", "```\n{\"score\": 9}\n```", 9, false},
		{"chatty wrapper", "Sure! Here it is: {\"score\": 88} Hope that helps.", 88, false},
		{"no object", "I cannot help with that.", 0, true},
		{"broken object", `{"score": }`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got scored
			err := DecodeJSON(tt.in, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}

	if err := DecodeJSON("nothing", &struct{}{}); !errors.Is(err, ErrNoJSON) {
		t.Errorf("want ErrNoJSON, got %v", err)
	}
}
