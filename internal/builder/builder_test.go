// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesmith/internal/ai"
	"storesmith/internal/catalog"
)

// fakeGen is a scripted text generator. fn decides the answer per request.
type fakeGen struct {
	mu    sync.Mutex
	calls []ai.Request
	fn    func(ctx context.Context, r ai.Request) (string, error)
}

func (f *fakeGen) Generate(ctx context.Context, r ai.Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, r)
	f.mu.Unlock()
	return f.fn(ctx, r)
}

func (f *fakeGen) requests(system string) []ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ai.Request
	for _, r := range f.calls {
		if r.System == system {
			out = append(out, r)
		}
	}
	return out
}

var errService = errors.New("service unavailable")

func failingGen() *fakeGen {
	return &fakeGen{fn: func(context.Context, ai.Request) (string, error) { return "", errService }}
}

// fullContent holds a well-formed value for every field any layout uses.
func fullContent() string {
	all := catalog.Content{}
	for _, l := range catalog.Default().Layouts() {
		maps.Copy(all, catalog.LayoutFallback(l))
	}
	all["headline"] = "Small-batch coffee, roasted fresh"
	b, _ := json.Marshal(all)
	return string(b)
}

// healthyGen answers every call shape with valid JSON.
func healthyGen(score int) *fakeGen {
	content := fullContent()
	return &fakeGen{fn: func(_ context.Context, r ai.Request) (string, error) {
		switch r.System {
		case scoringSystem:
			return `{"score": ` + itoa(score) + `, "reasoning": "fits"}`, nil
		case contentSystem:
			return content, nil
		case metadataSystem:
			return `{"storeName":"Ember Roasters","storeDescription":"Artisan coffee.","category":"Food"}`, nil
		}
		return "", errors.New("unexpected system prompt")
	}}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// ---------- Scorer ----------

func TestKeywordScore(t *testing.T) {
	hero, _ := catalog.Default().ByID("hero-minimal")

	sc := KeywordScore("Artisan coffee roastery with a CLEAN, minimal look", hero.Keywords)
	assert.Equal(t, 18, sc.Value) // 2 of 11
	assert.Equal(t, "Keyword-based scoring: 2/11 keywords matched", sc.Reasoning)
	assert.Equal(t, SourceFallback, sc.Source)

	grid, _ := catalog.Default().ByID("testimonials-grid")
	sc = KeywordScore("We rely on social proof and customer reviews", grid.Keywords)
	assert.Equal(t, 22, sc.Value, "phrase keyword plus substring match")

	assert.Equal(t, 0, KeywordScore("anything", nil).Value)
}

func TestScorer(t *testing.T) {
	keywords := []string{"coffee", "rustic"}

	tests := []struct {
		name       string
		answer     string
		err        error
		wantValue  int
		wantSource Source
	}{
		{"valid", `{"score": 73, "reasoning": "good fit"}`, nil, 73, SourceAI},
		{"fractional rounds", `{"score": 72.6, "reasoning": "x"}`, nil, 73, SourceAI},
		{"clamped high", `{"score": 250, "reasoning": "x"}`, nil, 100, SourceAI},
		{"clamped low", `{"score": -4, "reasoning": "x"}`, nil, 0, SourceAI},
		{"fenced", "```json\n{\"score\": 40, \"reasoning\": \"x\"}\n```", nil, 40, SourceAI},
		{"missing score", `{"reasoning": "forgot"}`, nil, 100, SourceFallback},
		{"non-json", `I think about 80`, nil, 100, SourceFallback},
		{"service error", ``, errService, 100, SourceFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGen{fn: func(context.Context, ai.Request) (string, error) { return tt.answer, tt.err }}
			sc := NewScorer(gen, Options{}).Score(context.Background(), "rustic coffee bar", keywords, "x")
			assert.Equal(t, tt.wantValue, sc.Value)
			assert.Equal(t, tt.wantSource, sc.Source)
			assert.GreaterOrEqual(t, sc.Value, 0)
			assert.LessOrEqual(t, sc.Value, 100)
		})
	}
}

func TestScorerRequestShape(t *testing.T) {
	gen := healthyGen(50)
	NewScorer(gen, Options{}).Score(context.Background(), "a bakery", []string{"bread", "cakes"}, "x")

	reqs := gen.requests(scoringSystem)
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].JSON)
	assert.Equal(t, 0.3, reqs[0].Temperature)
	assert.Contains(t, reqs[0].Prompt, `"a bakery"`)
	assert.Contains(t, reqs[0].Prompt, "Layout keywords: bread, cakes")
}

func TestScorerTimeoutFallsBack(t *testing.T) {
	gen := &fakeGen{fn: func(ctx context.Context, _ ai.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	s := NewScorer(gen, Options{CallTimeout: 20 * time.Millisecond})

	start := time.Now()
	sc := s.Score(context.Background(), "minimal tech", []string{"minimal", "tech"}, "hero-minimal")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, SourceFallback, sc.Source)
	assert.Equal(t, 100, sc.Value)
}

func TestNilGeneratorFallsBack(t *testing.T) {
	sc := NewScorer(nil, Options{}).Score(context.Background(), "gym", []string{"gym"}, "x")
	assert.Equal(t, SourceFallback, sc.Source)
}

// ---------- Selector ----------

func TestRankSection(t *testing.T) {
	// Prefer the layout whose keywords mention fitness.
	gen := &fakeGen{fn: func(_ context.Context, r ai.Request) (string, error) {
		if strings.Contains(r.Prompt, "fitness") {
			return `{"score": 91, "reasoning": "fitness"}`, nil
		}
		return `{"score": 20, "reasoning": "meh"}`, nil
	}}
	sel := NewSelector(catalog.Default(), NewScorer(gen, Options{}))

	ranked := sel.RankSection(context.Background(), "a boxing gym", catalog.Hero)
	require.Len(t, ranked, 4)
	assert.Equal(t, "hero-video-background", ranked[0].Layout.ID)
	for i, r := range ranked {
		assert.Equal(t, catalog.Hero, r.Layout.SectionType)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Score, r.Score)
		}
	}
	// Ties keep catalog order.
	assert.Equal(t, []string{"hero-minimal", "hero-image-right", "hero-bold"},
		[]string{ranked[1].Layout.ID, ranked[2].Layout.ID, ranked[3].Layout.ID})
}

func TestSelectAll(t *testing.T) {
	sel := NewSelector(catalog.Default(), NewScorer(failingGen(), Options{}))

	selections, err := sel.SelectAll(context.Background(), "Artisan coffee roastery, rustic aesthetic")
	require.NoError(t, err)
	require.Len(t, selections, 6)

	seen := map[catalog.SectionType]bool{}
	for i, s := range selections {
		assert.Equal(t, catalog.SectionTypes()[i], s.SectionType, "catalog order")
		assert.Equal(t, s.SectionType, s.Layout.SectionType)
		assert.LessOrEqual(t, len(s.Alternatives), 3)
		assert.False(t, seen[s.SectionType], "duplicate %s", s.SectionType)
		seen[s.SectionType] = true
		for _, alt := range s.Alternatives {
			assert.NotEqual(t, s.Layout.ID, alt.Layout.ID)
			assert.LessOrEqual(t, alt.Score, s.Score)
		}
	}
	assert.Len(t, selections[0].Alternatives, 3, "hero has four layouts")
	assert.Len(t, selections[4].Alternatives, 1, "newsletter has two layouts")
}

func TestSelectAllMissingSectionType(t *testing.T) {
	cat := catalog.New(catalog.LayoutDefinition{ID: "only-hero", SectionType: catalog.Hero, Keywords: []string{"x"}})
	_, err := NewSelector(cat, NewScorer(failingGen(), Options{})).SelectAll(context.Background(), "shop")
	require.ErrorIs(t, err, ErrNoLayouts)
	assert.Contains(t, err.Error(), "product_grid")
}

func TestRerankSectionAppendsContext(t *testing.T) {
	gen := healthyGen(60)
	sel := NewSelector(catalog.Default(), NewScorer(gen, Options{}))

	sel.RerankSection(context.Background(), "tea shop", catalog.Footer, "needs lots of links")
	reqs := gen.requests(scoringSystem)
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].Prompt, `tea shop\n\nAdditional context for footer: needs lots of links`)
}

// ---------- Order / Quality ----------

func TestOrder(t *testing.T) {
	in := []Selection{
		{SectionType: catalog.Footer},
		{SectionType: "banner"},
		{SectionType: catalog.ProductGrid},
		{SectionType: catalog.Hero},
		{SectionType: "ticker"},
		{SectionType: catalog.Newsletter},
		{SectionType: catalog.FeaturedProducts},
		{SectionType: catalog.Testimonials},
	}
	got := Order(in)

	types := make([]catalog.SectionType, len(got))
	for i, s := range got {
		types[i] = s.SectionType
	}
	assert.Equal(t, []catalog.SectionType{
		catalog.Hero, catalog.FeaturedProducts, catalog.ProductGrid,
		catalog.Testimonials, catalog.Newsletter, catalog.Footer,
		"banner", "ticker",
	}, types)

	assert.Equal(t, got, Order(got), "idempotent")
	assert.Equal(t, catalog.Footer, in[0].SectionType, "input untouched")
	assert.Empty(t, Order(nil))
}

func TestQuality(t *testing.T) {
	sel := func(scores ...int) []Selection {
		out := make([]Selection, len(scores))
		for i, s := range scores {
			out[i] = Selection{SectionType: catalog.SectionTypes()[i], Score: s}
		}
		return out
	}

	tests := []struct {
		scores  []int
		overall float64
		prefix  string
	}{
		{[]int{90, 80, 70}, 80, "Excellent"},
		{[]int{60, 60}, 60, "Good"},
		{[]int{40, 41}, 40.5, "Moderate"},
		{[]int{10}, 10, "Low"},
		{nil, 0, "Low"},
	}
	for _, tt := range tests {
		q := Quality(sel(tt.scores...))
		assert.InDelta(t, tt.overall, q.Overall, 0.001)
		assert.True(t, strings.HasPrefix(q.Recommendation, tt.prefix), q.Recommendation)
		assert.Len(t, q.SectionScores, len(tt.scores))
	}
}
