// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"storesmith/internal/catalog"
	"storesmith/internal/theme"
)

// Catalog serves the read-only layout catalog and theme presets.
type Catalog struct {
	cat *catalog.Catalog
}

// NewCatalog creates the catalog handlers.
func NewCatalog(cat *catalog.Catalog) *Catalog {
	return &Catalog{cat: cat}
}

type layoutsResponse struct {
	SectionTypes []catalog.SectionType      `json:"sectionTypes"`
	Layouts      []catalog.LayoutDefinition `json:"layouts"`
}

// Layouts lists every layout, optionally filtered with ?type=.
func (h *Catalog) Layouts(w http.ResponseWriter, r *http.Request) {
	layouts := h.cat.Layouts()
	if t := r.URL.Query().Get("type"); t != "" {
		st := catalog.SectionType(t)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown section type.")
			return
		}
		layouts = h.cat.ByType(st)
	}
	writeData(w, http.StatusOK, layoutsResponse{
		SectionTypes: catalog.SectionTypes(),
		Layouts:      layouts,
	})
}

type themePreset struct {
	Name         string           `json:"name"`
	Colors       theme.ColorTheme `json:"colors"`
	CSSVariables []theme.Variable `json:"cssVariables"`
}

// Themes lists the built-in theme presets, default first.
func (h *Catalog) Themes(w http.ResponseWriter, r *http.Request) {
	names := []string{theme.DefaultPreset}
	for _, n := range theme.PresetNames() {
		if n != theme.DefaultPreset {
			names = append(names, n)
		}
	}

	out := make([]themePreset, 0, len(names))
	for _, n := range names {
		t, _ := theme.Preset(n)
		out = append(out, themePreset{Name: n, Colors: t, CSSVariables: theme.Variables(t)})
	}
	writeData(w, http.StatusOK, out)
}
