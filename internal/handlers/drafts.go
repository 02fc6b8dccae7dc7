// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storesmith/internal/builder"
	"storesmith/internal/draft"
)

// Drafts serves the signed-in user's builder draft.
type Drafts struct {
	drafts DraftStore
}

// NewDrafts creates the draft handlers.
func NewDrafts(drafts DraftStore) *Drafts {
	return &Drafts{drafts: drafts}
}

type draftResponse struct {
	*draft.State
	CanGenerate bool `json:"canGenerate"`
}

// Get returns the current draft, or an empty one.
func (h *Drafts) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.drafts.Get(r.Context(), ownerID(r))
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	writeData(w, http.StatusOK, draftResponse{State: st, CanGenerate: st.CanGenerate()})
}

// Put replaces the whole draft.
func (h *Drafts) Put(w http.ResponseWriter, r *http.Request) {
	st := draft.New()
	if err := decodeJSON(w, r, st); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if err := st.Validate(); err != nil {
		writeResult(w, r, 0, nil, badRequest(err.Error()))
		return
	}
	h.save(w, r, st)
}

// Delete discards the draft.
func (h *Drafts) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.drafts.Delete(r.Context(), ownerID(r))
	writeResult(w, r, http.StatusOK, draft.New(), err)
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// MoveSection moves one draft section to a new position.
func (h *Drafts) MoveSection(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	h.edit(w, r, func(st *draft.State) error { return st.MoveSection(req.From, req.To) })
}

// ReplaceSection swaps the draft section at {index} for the given one.
func (h *Drafts) ReplaceSection(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var sec builder.GeneratedSection
	if err := decodeJSON(w, r, &sec); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	h.edit(w, r, func(st *draft.State) error { return st.UpdateSection(i, sec) })
}

// UpdateSectionFields overrides some content fields of the section at
// {index}.
func (h *Drafts) UpdateSectionFields(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var req sectionContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if msg := validateSectionContent(req.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.edit(w, r, func(st *draft.State) error { return st.UpdateField(i, req.Content) })
}

// RemoveSection deletes the section at {index}.
func (h *Drafts) RemoveSection(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	h.edit(w, r, func(st *draft.State) error { return st.RemoveSection(i) })
}

type themeFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SetThemeField changes one color of the draft theme.
func (h *Drafts) SetThemeField(w http.ResponseWriter, r *http.Request) {
	var req themeFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	h.edit(w, r, func(st *draft.State) error { return st.SetThemeField(req.Field, req.Value) })
}

// edit loads the draft, applies fn and saves the result.
func (h *Drafts) edit(w http.ResponseWriter, r *http.Request, fn func(*draft.State) error) {
	st, err := h.drafts.Get(r.Context(), ownerID(r))
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if err := fn(st); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	h.save(w, r, st)
}

func (h *Drafts) save(w http.ResponseWriter, r *http.Request, st *draft.State) {
	err := h.drafts.Save(r.Context(), ownerID(r), st)
	writeResult(w, r, http.StatusOK, draftResponse{State: st, CanGenerate: st.CanGenerate()}, err)
}

func indexParam(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, badRequest("section index must be a number")
	}
	return i, nil
}
