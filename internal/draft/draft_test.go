// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesmith/internal/builder"
	"storesmith/internal/catalog"
	"storesmith/internal/theme"
)

func sections(types ...catalog.SectionType) []builder.GeneratedSection {
	out := make([]builder.GeneratedSection, len(types))
	for i, t := range types {
		out[i] = builder.GeneratedSection{
			SectionType: t,
			LayoutID:    string(t) + "-layout",
			Content:     catalog.Content{"headline": string(t)},
			Order:       99,
		}
	}
	return out
}

func typesOf(st *State) []catalog.SectionType {
	out := make([]catalog.SectionType, len(st.Sections))
	for i, s := range st.Sections {
		out[i] = s.SectionType
	}
	return out
}

func assertRenumbered(t *testing.T, st *State) {
	t.Helper()
	for i, s := range st.Sections {
		assert.Equal(t, i, s.Order)
	}
}

func TestNew(t *testing.T) {
	st := New()
	assert.Equal(t, theme.Default(), st.ColorTheme)
	assert.Empty(t, st.Sections)
	assert.Nil(t, st.StoreID)
	assert.False(t, st.CanGenerate())
}

func TestCanGenerate(t *testing.T) {
	tests := []struct {
		prompt     string
		generating bool
		want       bool
	}{
		{"coffee shop", false, true},
		{"coffee sho", false, false},
		{"   coffee sho   ", false, false},
		{"ééééééééééé", false, true},
		{"a rustic coffee roastery", true, false},
	}
	for _, tt := range tests {
		st := &State{Prompt: tt.prompt, Generating: tt.generating}
		assert.Equal(t, tt.want, st.CanGenerate(), "%q", tt.prompt)
	}
}

func TestSetSectionsRenumbers(t *testing.T) {
	st := New()
	in := sections(catalog.Hero, catalog.Footer)
	st.SetSections(in)
	assertRenumbered(t, st)
	assert.Equal(t, 99, in[0].Order, "input untouched")
}

func TestUpdateSection(t *testing.T) {
	st := New()
	st.SetSections(sections(catalog.Hero, catalog.Footer))

	repl := builder.GeneratedSection{SectionType: catalog.Hero, LayoutID: "hero-bold", Order: 7}
	require.NoError(t, st.UpdateSection(0, repl))
	assert.Equal(t, "hero-bold", st.Sections[0].LayoutID)
	assert.Equal(t, 0, st.Sections[0].Order)

	assert.ErrorIs(t, st.UpdateSection(2, repl), ErrIndex)
	assert.ErrorIs(t, st.UpdateSection(-1, repl), ErrIndex)
}

func TestUpdateField(t *testing.T) {
	st := New()
	st.SetSections(sections(catalog.Hero))
	st.Sections[0].Content["subheadline"] = "keep me"

	require.NoError(t, st.UpdateField(0, catalog.Content{"headline": "New headline"}))
	assert.Equal(t, "New headline", st.Sections[0].Content["headline"])
	assert.Equal(t, "keep me", st.Sections[0].Content["subheadline"])

	assert.ErrorIs(t, st.UpdateField(1, catalog.Content{}), ErrIndex)
}

func TestRemoveSection(t *testing.T) {
	st := New()
	st.SetSections(sections(catalog.Hero, catalog.Testimonials, catalog.Footer))

	require.NoError(t, st.RemoveSection(1))
	assert.Equal(t, []catalog.SectionType{catalog.Hero, catalog.Footer}, typesOf(st))
	assertRenumbered(t, st)

	assert.ErrorIs(t, st.RemoveSection(5), ErrIndex)
}

func TestMoveSection(t *testing.T) {
	all := []catalog.SectionType{catalog.Hero, catalog.FeaturedProducts, catalog.ProductGrid, catalog.Footer}

	tests := []struct {
		name     string
		from, to int
		want     []catalog.SectionType
	}{
		{"down", 0, 2, []catalog.SectionType{catalog.FeaturedProducts, catalog.ProductGrid, catalog.Hero, catalog.Footer}},
		{"up", 3, 1, []catalog.SectionType{catalog.Hero, catalog.Footer, catalog.FeaturedProducts, catalog.ProductGrid}},
		{"to end", 1, 3, []catalog.SectionType{catalog.Hero, catalog.ProductGrid, catalog.Footer, catalog.FeaturedProducts}},
		{"same place", 2, 2, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := New()
			st.SetSections(sections(all...))
			require.NoError(t, st.MoveSection(tt.from, tt.to))
			assert.Equal(t, tt.want, typesOf(st))
			assertRenumbered(t, st)
		})
	}

	st := New()
	st.SetSections(sections(all...))
	assert.ErrorIs(t, st.MoveSection(0, 4), ErrIndex)
	assert.ErrorIs(t, st.MoveSection(-1, 0), ErrIndex)
	assert.Equal(t, all, typesOf(st), "unchanged after error")
}

func TestSetThemeField(t *testing.T) {
	st := New()
	require.NoError(t, st.SetThemeField("accent", "#112233"))
	assert.Equal(t, "#112233", st.ColorTheme.Accent)

	assert.ErrorIs(t, st.SetThemeField("accent", "red"), theme.ErrInvalid)
	assert.ErrorIs(t, st.SetThemeField("border", "#000000"), theme.ErrInvalid)
	assert.Equal(t, "#112233", st.ColorTheme.Accent)
}

func TestSetProgressClamps(t *testing.T) {
	st := New()
	st.SetProgress(140, "done")
	assert.Equal(t, 100, st.Progress)
	st.SetProgress(-3, "start")
	assert.Equal(t, 0, st.Progress)
	assert.Equal(t, "start", st.Step)
}

func TestReset(t *testing.T) {
	st := New()
	st.Prompt = "a long enough prompt"
	st.SetMetadata(builder.Metadata{StoreName: "Ember", Category: "food"})
	st.SetSections(sections(catalog.Hero))

	st.Reset()
	assert.Equal(t, New(), st)
}

func TestValidate(t *testing.T) {
	st := New()
	assert.NoError(t, st.Validate())

	st.ColorTheme.Primary = "blue"
	assert.ErrorIs(t, st.Validate(), theme.ErrInvalid)

	st = New()
	st.Sections = sections(catalog.Hero)
	st.Sections[0].Order = -1
	assert.Error(t, st.Validate())
}
