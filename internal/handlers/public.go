// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storesmith/internal/theme"
)

// Public serves published stores to anonymous visitors.
type Public struct {
	svc StoreService
}

// NewPublic creates the public handlers.
func NewPublic(svc StoreService) *Public {
	return &Public{svc: svc}
}

// Page returns the renderable description of a published store.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err == nil {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}
	writeResult(w, r, http.StatusOK, page, err)
}

// Stylesheet returns the store theme as CSS custom properties.
func (p *Public) Stylesheet(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.Stylesheet(page.ColorTheme)))
}
