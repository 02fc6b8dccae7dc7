// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"sort"

	"storesmith/internal/catalog"
)

// canonicalOrder is the top-to-bottom sequence of a storefront page.
var canonicalOrder = []catalog.SectionType{
	catalog.Hero,
	catalog.FeaturedProducts,
	catalog.ProductGrid,
	catalog.Testimonials,
	catalog.Newsletter,
	catalog.Footer,
}

// Position returns t's index in the page sequence. Unknown types get
// len(canonicalOrder) and sort after every known type.
func Position(t catalog.SectionType) int {
	for i, c := range canonicalOrder {
		if c == t {
			return i
		}
	}
	return len(canonicalOrder)
}

// Order returns the selections sorted into page sequence. The sort is
// stable, so unknown types keep their relative input order at the end.
// The input slice is not modified.
func Order(selections []Selection) []Selection {
	out := append([]Selection(nil), selections...)
	sort.SliceStable(out, func(i, j int) bool {
		return Position(out[i].SectionType) < Position(out[j].SectionType)
	})
	return out
}

// QualityReport summarises how well the selected layouts fit the prompt.
type QualityReport struct {
	Overall        float64                     `json:"overallScore"`
	SectionScores  map[catalog.SectionType]int `json:"sectionScores"`
	Recommendation string                      `json:"recommendation"`
}

// Quality averages the selection scores and turns the result into advice.
func Quality(selections []Selection) QualityReport {
	r := QualityReport{SectionScores: make(map[catalog.SectionType]int, len(selections))}
	total := 0
	for _, s := range selections {
		r.SectionScores[s.SectionType] = s.Score
		total += s.Score
	}
	if len(selections) > 0 {
		r.Overall = float64(total) / float64(len(selections))
	}

	switch {
	case r.Overall >= 80:
		r.Recommendation = "Excellent match! This template is highly relevant to your store."
	case r.Overall >= 60:
		r.Recommendation = "Good match. Consider customizing some sections for better fit."
	case r.Overall >= 40:
		r.Recommendation = "Moderate match. You may want to adjust several sections."
	default:
		r.Recommendation = "Low match. Consider providing more details about your store for better results."
	}
	return r
}
