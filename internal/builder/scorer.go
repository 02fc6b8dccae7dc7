// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"storesmith/internal/ai"
)

const scoringSystem = "You are a layout ranking assistant. Always respond with valid JSON only."

// Score is a layout's relevance to a store description, 0 to 100.
type Score struct {
	Value     int    `json:"score"`
	Reasoning string `json:"reasoning"`
	Source    Source `json:"source"`
}

// Scorer rates one layout's keyword profile against a prompt.
type Scorer struct {
	call *caller
}

// NewScorer returns a Scorer using gen.
func NewScorer(gen Generator, opts Options) *Scorer {
	return &Scorer{call: newCaller(gen, opts)}
}

// Score asks the model for a relevance score. Any failure, including a
// timeout or an answer without a numeric score, falls back to
// KeywordScore. It never fails.
func (s *Scorer) Score(ctx context.Context, prompt string, keywords []string, layoutID string) Score {
	text, err := s.call.generate(ctx, ai.Request{
		System:      scoringSystem,
		Prompt:      scoringPrompt(prompt, keywords),
		Temperature: 0.3,
		JSON:        true,
	})
	if err == nil {
		var sc Score
		if sc, err = parseScore(text); err == nil {
			return sc
		}
	}

	slog.Warn("layout scoring failed, using keyword fallback", "layout", layoutID, "error", err)
	return KeywordScore(prompt, keywords)
}

var errNoScore = errors.New("builder: answer has no numeric score")

func parseScore(text string) (Score, error) {
	var out struct {
		Score     *float64 `json:"score"`
		Reasoning string   `json:"reasoning"`
	}
	if err := ai.DecodeJSON(text, &out); err != nil {
		return Score{}, err
	}
	if out.Score == nil {
		return Score{}, errNoScore
	}
	v := math.Round(*out.Score)
	v = math.Max(0, math.Min(100, v))
	return Score{Value: int(v), Reasoning: out.Reasoning, Source: SourceAI}, nil
}

// KeywordScore is the deterministic fallback: the share of keywords that
// occur in the lower-cased prompt, as a percentage. Multi-word keywords
// match as phrases.
func KeywordScore(prompt string, keywords []string) Score {
	if len(keywords) == 0 {
		return Score{Reasoning: "Keyword-based scoring: 0/0 keywords matched", Source: SourceFallback}
	}

	lower := strings.ToLower(prompt)
	matched := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched++
		}
	}

	v := int(math.Round(float64(matched) * 100 / float64(len(keywords))))
	return Score{
		Value:     min(100, v),
		Reasoning: fmt.Sprintf("Keyword-based scoring: %d/%d keywords matched", matched, len(keywords)),
		Source:    SourceFallback,
	}
}

func scoringPrompt(prompt string, keywords []string) string {
	return fmt.Sprintf(`You are an AI assistant helping to rank layout relevance for a store builder.

User's store description: %q

Layout keywords: %s

On a scale of 0 to 100, how relevant is this layout to the user's store description?
Consider the business type, industry, style, and overall theme.

Respond ONLY with a JSON object in this exact format:
{
  "score": <number between 0-100>,
  "reasoning": "<brief explanation>"
}`, prompt, strings.Join(keywords, ", "))
}
