// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static registry of storefront section layouts,
// the content field contract of each layout, and the deterministic
// fallback content used when generation fails.
package catalog

import (
	"fmt"
	"strings"
)

// SectionType is one of the fixed kinds of storefront section.
type SectionType string

const (
	Hero             SectionType = "hero"
	ProductGrid      SectionType = "product_grid"
	FeaturedProducts SectionType = "featured_products"
	Testimonials     SectionType = "testimonials"
	Newsletter       SectionType = "newsletter"
	Footer           SectionType = "footer"
)

// SectionTypes returns every section type in catalog order.
func SectionTypes() []SectionType {
	return []SectionType{Hero, ProductGrid, FeaturedProducts, Testimonials, Newsletter, Footer}
}

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	for _, s := range SectionTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// FieldKind describes the JSON shape expected for a content field.
type FieldKind string

const (
	KindText         FieldKind = "text"
	KindImage        FieldKind = "image"
	KindProducts     FieldKind = "products"
	KindTestimonials FieldKind = "testimonials"
	KindLinks        FieldKind = "links"
	KindBenefits     FieldKind = "benefits"
	KindColumns      FieldKind = "columns"
	KindSocialLinks  FieldKind = "social_links"
)

// KindOf derives a field's kind from its name.
func KindOf(name string) FieldKind {
	switch name {
	case "products":
		return KindProducts
	case "testimonials":
		return KindTestimonials
	case "links":
		return KindLinks
	case "benefits":
		return KindBenefits
	case "columns":
		return KindColumns
	case "socialLinks":
		return KindSocialLinks
	}
	// imageAlt is the alt text, not the asset.
	if name == "imageAlt" {
		return KindText
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "image") || strings.Contains(lower, "video") {
		return KindImage
	}
	return KindText
}

// Field is a named content slot of a layout.
type Field struct {
	Name string
	Kind FieldKind
}

// LayoutDefinition is an immutable catalog entry.
type LayoutDefinition struct {
	ID          string      `json:"id"`
	SectionType SectionType `json:"sectionType"`
	Variant     string      `json:"variant"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords"`
	// RequiredFields must all be present in generated content.
	RequiredFields []string `json:"requiredFields"`
	// MediaFields are rendered by the layout but filled with placeholder
	// assets rather than generated text.
	MediaFields []string `json:"mediaFields,omitempty"`
}

// Fields returns the required fields with their kinds.
func (l LayoutDefinition) Fields() []Field {
	out := make([]Field, len(l.RequiredFields))
	for i, name := range l.RequiredFields {
		out[i] = Field{Name: name, Kind: KindOf(name)}
	}
	return out
}

// Catalog is a read-only set of layouts. Safe for concurrent use.
type Catalog struct {
	layouts []LayoutDefinition
	byID    map[string]int
}

// New builds a catalog from the given layouts, keeping their order.
// It panics on duplicate ids or empty section types, both programmer errors.
func New(layouts ...LayoutDefinition) *Catalog {
	c := &Catalog{
		layouts: make([]LayoutDefinition, 0, len(layouts)),
		byID:    make(map[string]int, len(layouts)),
	}
	for _, l := range layouts {
		if l.ID == "" || l.SectionType == "" {
			panic(fmt.Sprintf("catalog: layout %q has no id or section type", l.ID))
		}
		if _, dup := c.byID[l.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate layout id %q", l.ID))
		}
		c.byID[l.ID] = len(c.layouts)
		c.layouts = append(c.layouts, l)
	}
	return c
}

var defaultCatalog = New(builtinLayouts...)

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Layouts returns all layouts in definition order.
func (c *Catalog) Layouts() []LayoutDefinition {
	out := make([]LayoutDefinition, len(c.layouts))
	copy(out, c.layouts)
	return out
}

// ByType returns the layouts of one section type in definition order.
func (c *Catalog) ByType(t SectionType) []LayoutDefinition {
	var out []LayoutDefinition
	for _, l := range c.layouts {
		if l.SectionType == t {
			out = append(out, l)
		}
	}
	return out
}

// ByID looks up a layout.
func (c *Catalog) ByID(id string) (LayoutDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return LayoutDefinition{}, false
	}
	return c.layouts[i], true
}
