// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package draft holds the in-progress state of a user's store builder
// session. State operations are pure; Store persists a State per user.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storesmith/internal/builder"
	"storesmith/internal/catalog"
	"storesmith/internal/theme"
)

// ErrIndex is returned when a section index is out of range.
var ErrIndex = errors.New("draft: section index out of range")

// minPromptLength is exclusive: a prompt must be longer than this.
const minPromptLength = 10

// State is a serialisable snapshot of the builder session.
type State struct {
	StoreID          *uuid.UUID                 `json:"storeId"`
	StoreName        string                     `json:"storeName"`
	StoreDescription string                     `json:"storeDescription"`
	Prompt           string                     `json:"userPrompt"`
	Category         string                     `json:"category"`
	Generating       bool                       `json:"isGenerating"`
	Progress         int                        `json:"generationProgress"`
	Step             string                     `json:"currentStep"`
	Error            string                     `json:"error,omitempty"`
	Selections       []builder.Selection        `json:"layoutSelections"`
	Sections         []builder.GeneratedSection `json:"sections"`
	ColorTheme       theme.ColorTheme           `json:"colorTheme"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// New returns an empty state with the default theme.
func New() *State {
	return &State{
		Selections: []builder.Selection{},
		Sections:   []builder.GeneratedSection{},
		ColorTheme: theme.Default(),
	}
}

// Reset discards everything, returning to an empty state.
func (s *State) Reset() {
	*s = *New()
}

// CanGenerate reports whether a generation may start: the trimmed prompt is
// longer than ten characters and no generation is running.
func (s *State) CanGenerate() bool {
	return len([]rune(strings.TrimSpace(s.Prompt))) > minPromptLength && !s.Generating
}

// SetMetadata records the extracted store metadata.
func (s *State) SetMetadata(md builder.Metadata) {
	s.StoreName = md.StoreName
	s.StoreDescription = md.StoreDescription
	s.Category = md.Category
}

// SetProgress records the generation progress, clamped to 0..100.
func (s *State) SetProgress(progress int, step string) {
	s.Progress = max(0, min(100, progress))
	s.Step = step
}

// SetSections replaces every section and renumbers their orders.
func (s *State) SetSections(sections []builder.GeneratedSection) {
	s.Sections = append([]builder.GeneratedSection(nil), sections...)
	s.renumber()
}

// UpdateSection replaces the section at index i, keeping its position.
func (s *State) UpdateSection(i int, sec builder.GeneratedSection) error {
	if err := s.check(i); err != nil {
		return err
	}
	sec.Order = i
	s.Sections[i] = sec
	return nil
}

// UpdateField overrides content fields of section i. Fields not named in
// custom are kept.
func (s *State) UpdateField(i int, custom catalog.Content) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.Sections[i].Content = catalog.MergeContent(s.Sections[i].Content, custom)
	return nil
}

// RemoveSection deletes section i and renumbers the rest.
func (s *State) RemoveSection(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.Sections = append(s.Sections[:i:i], s.Sections[i+1:]...)
	s.renumber()
	return nil
}

// MoveSection moves the section at from to position to, shifting the
// sections in between, and renumbers orders to match positions.
func (s *State) MoveSection(from, to int) error {
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	moved := s.Sections[from]
	rest := append(s.Sections[:from:from], s.Sections[from+1:]...)
	s.Sections = append(rest[:to:to], append([]builder.GeneratedSection{moved}, rest[to:]...)...)
	s.renumber()
	return nil
}

// SetThemeField changes one theme color by its JSON name. The value must be
// a #RRGGBB color.
func (s *State) SetThemeField(field, value string) error {
	t, err := s.ColorTheme.With(field, value)
	if err != nil {
		return err
	}
	if !theme.ValidHex(value) {
		return fmt.Errorf("%w: %s %q is not a #RRGGBB color", theme.ErrInvalid, field, value)
	}
	s.ColorTheme = t
	return nil
}

// Validate checks a state received from a client.
func (s *State) Validate() error {
	if err := s.ColorTheme.Validate(); err != nil {
		return err
	}
	for i, sec := range s.Sections {
		if sec.Order < 0 {
			return fmt.Errorf("draft: section %d has negative order", i)
		}
	}
	return nil
}

func (s *State) check(i int) error {
	if i < 0 || i >= len(s.Sections) {
		return fmt.Errorf("%w: %d of %d", ErrIndex, i, len(s.Sections))
	}
	return nil
}

func (s *State) renumber() {
	for i := range s.Sections {
		s.Sections[i].Order = i
	}
}
