// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"storesmith/internal/catalog"
)

// Pipeline runs the generation stages in sequence. Its components share
// one Generator wrapper, so Options.MaxConcurrency bounds the whole run.
type Pipeline struct {
	Catalog  *catalog.Catalog
	Scorer   *Scorer
	Selector *Selector
	Content  *ContentGenerator
	Metadata *MetadataExtractor
}

// New wires a Pipeline over cat and gen.
func New(cat *catalog.Catalog, gen Generator, opts Options) *Pipeline {
	c := newCaller(gen, opts)
	scorer := &Scorer{call: c}
	return &Pipeline{
		Catalog:  cat,
		Scorer:   scorer,
		Selector: NewSelector(cat, scorer),
		Content:  &ContentGenerator{call: c},
		Metadata: &MetadataExtractor{call: c},
	}
}

// FallbackStats counts how many values came from fallbacks in a run.
type FallbackStats struct {
	Scores   int  `json:"scores"`
	Sections int  `json:"sections"`
	Repaired int  `json:"repaired"`
	Metadata bool `json:"metadata"`
}

// Result is everything a run produced, ready to persist.
type Result struct {
	Metadata   Metadata           `json:"metadata"`
	Selections []Selection        `json:"selections"` // in page order
	Sections   []GeneratedSection `json:"sections"`
	Quality    QualityReport      `json:"quality"`
	Fallbacks  FallbackStats      `json:"fallbacks"`
	Duration   time.Duration      `json:"duration"`
}

// Run extracts metadata concurrently with layout selection, then orders
// the selections and generates content for each. It returns an error only
// when the catalog is missing a section type.
func (p *Pipeline) Run(ctx context.Context, prompt string) (*Result, error) {
	start := time.Now()
	res := &Result{}

	var selections []Selection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Metadata = p.Metadata.Extract(gctx, prompt)
		return nil
	})
	g.Go(func() error {
		var err error
		selections, err = p.Selector.SelectAll(gctx, prompt)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Selections = Order(selections)
	res.Sections = p.Content.GenerateAll(ctx, prompt, res.Selections)
	res.Quality = Quality(res.Selections)
	res.Fallbacks = countFallbacks(res)
	res.Duration = time.Since(start)

	slog.Info("store pipeline finished",
		"store_name", res.Metadata.StoreName,
		"sections", len(res.Sections),
		"quality", res.Quality.Overall,
		"fallback_sections", res.Fallbacks.Sections,
		"duration", res.Duration,
	)
	return res, nil
}

func countFallbacks(r *Result) FallbackStats {
	var fs FallbackStats
	for _, s := range r.Selections {
		if s.Source == SourceFallback {
			fs.Scores++
		}
		for _, alt := range s.Alternatives {
			if alt.Source == SourceFallback {
				fs.Scores++
			}
		}
	}
	for _, s := range r.Sections {
		switch s.Source {
		case SourceFallback:
			fs.Sections++
		case SourceRepaired:
			fs.Repaired++
		}
	}
	fs.Metadata = r.Metadata.Source == SourceFallback
	return fs
}
