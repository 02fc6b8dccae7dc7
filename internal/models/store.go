// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"storesmith/internal/catalog"
	"storesmith/internal/markdown"
	"storesmith/internal/theme"
)

// StoreStatus represents the publishing state of a generated store.
type StoreStatus string

const (
	StoreStatusDraft     StoreStatus = "draft"
	StoreStatusPublished StoreStatus = "published"
)

// Store is a generated storefront and its ordered sections.
type Store struct {
	ID           uuid.UUID        `json:"id"`
	OwnerID      uuid.UUID        `json:"ownerId"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Prompt       string           `json:"prompt"`
	Category     string           `json:"category"`
	ColorTheme   theme.ColorTheme `json:"colorTheme"`
	Status       StoreStatus      `json:"status"`
	QualityScore float64          `json:"qualityScore"`
	Sections     []Section        `json:"sections"`
	PublishedAt  *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// IsPublished returns true if the store is publicly visible.
func (s *Store) IsPublished() bool {
	return s.Status == StoreStatusPublished
}

// SortSections orders the sections by Order ascending. Equal orders,
// possible after an explicit reorder, are broken by section id.
func (s *Store) SortSections() {
	sort.SliceStable(s.Sections, func(i, j int) bool {
		a, b := s.Sections[i], s.Sections[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID.String() < b.ID.String()
	})
}

// Section finds a section by id.
func (s *Store) Section(id uuid.UUID) (*Section, bool) {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i], true
		}
	}
	return nil, false
}

// Section is one generated block of a store page.
type Section struct {
	ID             uuid.UUID           `json:"id"`
	StoreID        uuid.UUID           `json:"storeId"`
	SectionType    catalog.SectionType `json:"sectionType"`
	LayoutID       string              `json:"layoutId"`
	LayoutVariant  string              `json:"layoutVariant"`
	Order          int                 `json:"order"`
	Content        catalog.Content     `json:"content"`
	Keywords       []string            `json:"keywords"`
	RelevanceScore int                 `json:"relevanceScore"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// SectionOrder assigns a new position to a section.
type SectionOrder struct {
	SectionID uuid.UUID `json:"sectionId"`
	Order     int       `json:"order"`
}

// GenerationRun is the audit record of one pipeline run.
type GenerationRun struct {
	ID               int64     `json:"id"`
	StoreID          uuid.UUID `json:"storeId"`
	OwnerID          uuid.UUID `json:"ownerId"`
	Provider         string    `json:"provider"`
	QualityScore     float64   `json:"qualityScore"`
	FallbackScores   int       `json:"fallbackScores"`
	FallbackSections int       `json:"fallbackSections"`
	RepairedSections int       `json:"repairedSections"`
	FallbackMetadata bool      `json:"fallbackMetadata"`
	DurationMS       int64     `json:"durationMs"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Page is the public, renderable description of a published store.
type Page struct {
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	// DescriptionHTML is Description rendered from Markdown.
	DescriptionHTML string           `json:"descriptionHtml"`
	Category        string           `json:"category"`
	ColorTheme      theme.ColorTheme `json:"colorTheme"`
	CSSVariables    []theme.Variable `json:"cssVariables"`
	TextColor       string           `json:"textColor"`
	Sections        []PageSection    `json:"sections"`
	PublishedAt     *time.Time       `json:"publishedAt,omitempty"`
}

// PageSection is a section as the renderer sees it.
type PageSection struct {
	SectionType   catalog.SectionType `json:"sectionType"`
	LayoutID      string              `json:"layoutId"`
	LayoutVariant string              `json:"layoutVariant"`
	Content       catalog.Content     `json:"content"`
}

// Page builds the public page description with sections in display order.
func (s *Store) Page() Page {
	sorted := *s
	sorted.Sections = append([]Section(nil), s.Sections...)
	sorted.SortSections()

	p := Page{
		Name:            s.Name,
		Slug:            s.Slug,
		Description:     s.Description,
		DescriptionHTML: markdown.Inline(s.Description),
		Category:        s.Category,
		ColorTheme:      s.ColorTheme,
		CSSVariables:    theme.Variables(s.ColorTheme),
		TextColor:       theme.ContrastText(s.ColorTheme.Background),
		Sections:        make([]PageSection, len(sorted.Sections)),
		PublishedAt:     s.PublishedAt,
	}
	for i, sec := range sorted.Sections {
		p.Sections[i] = PageSection{
			SectionType:   sec.SectionType,
			LayoutID:      sec.LayoutID,
			LayoutVariant: sec.LayoutVariant,
			Content:       sec.Content,
		}
	}
	return p
}
