// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package builder implements the stateless stages of store generation:
// layout scoring and selection, section ordering, per-section content
// generation and prompt metadata extraction. Every stage that talks to the
// text-generation service recovers from failures with deterministic
// fallbacks, so only catalog configuration errors escape.
package builder

import (
	"context"
	"errors"
	"time"

	"storesmith/internal/ai"
)

// ErrNoLayouts means the catalog has no layout for a required section type.
// It is a deployment defect and is never recovered from.
var ErrNoLayouts = errors.New("builder: no layouts for section type")

// Generator is the text-generation service. *ai.Registry satisfies it.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// Options tunes calls to the Generator.
type Options struct {
	// CallTimeout bounds each Generate call. A timeout takes the same
	// fallback path as any other failure. Zero disables it.
	CallTimeout time.Duration
	// MaxConcurrency caps in-flight Generate calls across a pipeline run.
	// Zero means unbounded.
	MaxConcurrency int
}

// Source tells where a value came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceRepaired Source = "repaired" // AI answer with some fields from the fallback
	SourceFallback Source = "fallback"
)

// caller wraps a Generator with the per-call timeout and a shared
// concurrency limit.
type caller struct {
	gen     Generator
	timeout time.Duration
	sem     chan struct{}
}

func newCaller(gen Generator, opts Options) *caller {
	c := &caller{gen: gen, timeout: opts.CallTimeout}
	if opts.MaxConcurrency > 0 {
		c.sem = make(chan struct{}, opts.MaxConcurrency)
	}
	return c
}

var errNoGenerator = errors.New("builder: no text generator configured")

func (c *caller) generate(ctx context.Context, req ai.Request) (string, error) {
	if c.gen == nil {
		return "", errNoGenerator
	}
	if c.sem != nil {
		select {
		case c.sem <- struct{}{}:
			defer func() { <-c.sem }()
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, req)
}
