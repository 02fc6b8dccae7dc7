// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for store names.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

const (
	// MaxLength bounds a store slug, suffix included.
	MaxLength = 60

	// fallbackSlug is used when a name has no usable characters.
	fallbackSlug = "store"

	// maxAttempts is how many numbered suffixes Unique tries before
	// falling back to a random one.
	maxAttempts = 20
)

// Generate creates a URL-friendly slug from the given string. Accents are
// folded to their base letters; other non-ASCII characters are dropped.
// Example: "Café Olé, 2026!" → "cafe-ole-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// fold decomposes s and strips combining marks.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// truncate cuts a slug to at most n bytes, preferring a hyphen boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	if i := strings.LastIndexByte(s, '-'); i > n/2 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique derives a slug from name that exists reports as free. Collisions
// get "-2", "-3", ... appended; after maxAttempts a random suffix is used.
func Unique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := truncate(Generate(name), MaxLength)
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for i := 2; i <= maxAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug check %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		candidate = truncate(base, MaxLength-len(suffix)) + suffix
	}

	suffix := "-" + uuid.NewString()[:8]
	return truncate(base, MaxLength-len(suffix)) + suffix, nil
}
