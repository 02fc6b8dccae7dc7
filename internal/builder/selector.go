// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"storesmith/internal/catalog"
)

// maxAlternatives is how many runner-up layouts a selection keeps.
const maxAlternatives = 3

// RankedLayout is a layout with its relevance score.
type RankedLayout struct {
	Layout    catalog.LayoutDefinition `json:"layout"`
	Score     int                      `json:"score"`
	Reasoning string                   `json:"reasoning"`
	Source    Source                   `json:"source"`
}

// Selection is the chosen layout for one section type.
type Selection struct {
	SectionType  catalog.SectionType      `json:"sectionType"`
	Layout       catalog.LayoutDefinition `json:"selectedLayout"`
	Score        int                      `json:"score"`
	Reasoning    string                   `json:"reasoning"`
	Source       Source                   `json:"source"`
	Alternatives []RankedLayout           `json:"alternativeLayouts"`
}

// Selector ranks catalog layouts against a prompt.
type Selector struct {
	catalog *catalog.Catalog
	scorer  *Scorer
}

// NewSelector returns a Selector over cat that scores with scorer.
func NewSelector(cat *catalog.Catalog, scorer *Scorer) *Selector {
	return &Selector{catalog: cat, scorer: scorer}
}

// RankSection scores every layout of type t concurrently and returns them
// sorted by score, highest first. Ties keep catalog order.
func (s *Selector) RankSection(ctx context.Context, prompt string, t catalog.SectionType) []RankedLayout {
	layouts := s.catalog.ByType(t)
	ranked := make([]RankedLayout, len(layouts))

	var g errgroup.Group
	for i, l := range layouts {
		g.Go(func() error {
			sc := s.scorer.Score(ctx, prompt, l.Keywords, l.ID)
			ranked[i] = RankedLayout{Layout: l, Score: sc.Value, Reasoning: sc.Reasoning, Source: sc.Source}
			return nil
		})
	}
	_ = g.Wait() // scoring never fails

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	return ranked
}

// SelectAll picks the best layout for every section type, keeping up to
// three runner-ups. The result follows catalog section order regardless of
// which ranking finishes first. It fails only with ErrNoLayouts.
func (s *Selector) SelectAll(ctx context.Context, prompt string) ([]Selection, error) {
	types := catalog.SectionTypes()
	for _, t := range types {
		if len(s.catalog.ByType(t)) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoLayouts, t)
		}
	}

	selections := make([]Selection, len(types))
	var g errgroup.Group
	for i, t := range types {
		g.Go(func() error {
			selections[i] = selectionFrom(t, s.RankSection(ctx, prompt, t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return selections, nil
}

// RerankSection ranks one section type again with extra context appended
// to the prompt.
func (s *Selector) RerankSection(ctx context.Context, prompt string, t catalog.SectionType, extra string) []RankedLayout {
	if extra != "" {
		prompt = fmt.Sprintf("%s\n\nAdditional context for %s: %s", prompt, t, extra)
	}
	return s.RankSection(ctx, prompt, t)
}

func selectionFrom(t catalog.SectionType, ranked []RankedLayout) Selection {
	top := ranked[0]
	alts := ranked[1:min(len(ranked), 1+maxAlternatives)]
	return Selection{
		SectionType:  t,
		Layout:       top.Layout,
		Score:        top.Score,
		Reasoning:    top.Reasoning,
		Source:       top.Source,
		Alternatives: append([]RankedLayout{}, alts...),
	}
}
