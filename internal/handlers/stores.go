// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"storesmith/internal/builder"
	"storesmith/internal/catalog"
	"storesmith/internal/draft"
	"storesmith/internal/models"
	"storesmith/internal/storefront"
	"storesmith/internal/theme"
)

// StoreService is the store generation service. *storefront.Service
// satisfies it.
type StoreService interface {
	GenerateStore(ctx context.Context, ownerID uuid.UUID, prompt string, colors *theme.ColorTheme) (*storefront.Generation, error)
	GetOwnedStore(ctx context.Context, ownerID, id uuid.UUID) (*models.Store, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Page, error)
	ListStores(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error)
	History(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.GenerationRun, error)
	UpdateSection(ctx context.Context, sectionID uuid.UUID, content catalog.Content) (*models.Section, error)
	RegenerateSection(ctx context.Context, sectionID uuid.UUID, instructions string) (*models.Section, error)
	RerankSection(ctx context.Context, storeID uuid.UUID, t catalog.SectionType, extra string) ([]builder.RankedLayout, error)
	ChangeSectionLayout(ctx context.Context, sectionID uuid.UUID, layoutID string) (*models.Section, error)
	UpdateTheme(ctx context.Context, storeID uuid.UUID, t theme.ColorTheme) error
	ReorderSections(ctx context.Context, storeID uuid.UUID, orders []models.SectionOrder) error
	PublishStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	DeleteStore(ctx context.Context, storeID uuid.UUID) error
}

// DraftStore persists builder drafts. *draft.Store satisfies it.
type DraftStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*draft.State, error)
	Save(ctx context.Context, userID uuid.UUID, st *draft.State) error
	Delete(ctx context.Context, userID uuid.UUID) error
	Lock(ctx context.Context, userID uuid.UUID) (token string, ok bool, err error)
	Unlock(ctx context.Context, userID uuid.UUID, token string) error
}

// Stores groups the store builder API handlers.
type Stores struct {
	svc    StoreService
	drafts DraftStore
}

// NewStores creates the store handlers. drafts may be nil.
func NewStores(svc StoreService, drafts DraftStore) *Stores {
	return &Stores{svc: svc, drafts: drafts}
}

type generateRequest struct {
	Prompt      string            `json:"prompt"`
	Theme       *theme.ColorTheme `json:"theme,omitempty"`
	ThemePreset string            `json:"themePreset,omitempty"`
}

// Generate runs the generation pipeline and returns the new draft store.
// A per-user lock keeps a second run from starting while the first is
// still going.
func (h *Stores) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}

	colors := req.Theme
	if colors == nil && req.ThemePreset != "" {
		preset, ok := theme.Preset(req.ThemePreset)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown theme preset.")
			return
		}
		colors = &preset
	}

	owner := ownerID(r)
	token, ok := h.lock(r.Context(), owner)
	if !ok {
		writeError(w, http.StatusConflict, "A generation is already running.")
		return
	}
	defer h.unlock(r.Context(), owner, token)

	st := h.startDraft(r.Context(), owner, req.Prompt, colors)
	h.markGenerating(r.Context(), owner, st)

	gen, err := h.svc.GenerateStore(r.Context(), owner, req.Prompt, colors)
	h.finishDraft(r.Context(), owner, st, gen, err)
	writeResult(w, r, http.StatusCreated, gen, err)
}

// startDraft loads the user's draft for a new run. It returns nil when
// drafts are disabled or unavailable.
func (h *Stores) startDraft(ctx context.Context, owner uuid.UUID, prompt string, colors *theme.ColorTheme) *draft.State {
	if h.drafts == nil {
		return nil
	}
	st, err := h.drafts.Get(ctx, owner)
	if err != nil {
		slog.Warn("load draft failed", "user_id", owner, "error", err)
		return nil
	}
	st.Prompt = prompt
	if colors != nil {
		st.ColorTheme = *colors
	}
	return st
}

// lock claims the owner's generation slot. Without a draft store, or when
// Valkey is unreachable, the run goes ahead unguarded.
func (h *Stores) lock(ctx context.Context, owner uuid.UUID) (string, bool) {
	if h.drafts == nil {
		return "", true
	}
	token, ok, err := h.drafts.Lock(ctx, owner)
	if err != nil {
		slog.Warn("generation lock failed", "user_id", owner, "error", err)
		return "", true
	}
	return token, ok
}

func (h *Stores) unlock(ctx context.Context, owner uuid.UUID, token string) {
	if h.drafts == nil || token == "" {
		return
	}
	if err := h.drafts.Unlock(context.WithoutCancel(ctx), owner, token); err != nil {
		slog.Warn("generation unlock failed", "user_id", owner, "error", err)
	}
}

func (h *Stores) markGenerating(ctx context.Context, owner uuid.UUID, st *draft.State) {
	if st == nil {
		return
	}
	st.Generating = true
	st.Error = ""
	st.SetProgress(0, "generating")
	h.saveDraft(ctx, owner, st)
}

// finishDraft records the outcome of a run in the draft.
func (h *Stores) finishDraft(ctx context.Context, owner uuid.UUID, st *draft.State, gen *storefront.Generation, err error) {
	if st == nil {
		return
	}
	st.Generating = false
	if err != nil {
		st.Error = err.Error()
		st.SetProgress(0, "failed")
		h.saveDraft(ctx, owner, st)
		return
	}

	id := gen.Store.ID
	st.StoreID = &id
	st.SetMetadata(builder.Metadata{
		StoreName:        gen.Store.Name,
		StoreDescription: gen.Store.Description,
		Category:         gen.Store.Category,
	})
	st.Selections = gen.Selections
	st.SetSections(draftSections(gen.Store.Sections))
	st.ColorTheme = gen.Store.ColorTheme
	st.SetProgress(100, "complete")
	h.saveDraft(ctx, owner, st)
}

func (h *Stores) saveDraft(ctx context.Context, owner uuid.UUID, st *draft.State) {
	if err := h.drafts.Save(ctx, owner, st); err != nil {
		slog.Warn("save draft failed", "user_id", owner, "error", err)
	}
}

func draftSections(sections []models.Section) []builder.GeneratedSection {
	out := make([]builder.GeneratedSection, len(sections))
	for i, sec := range sections {
		out[i] = builder.GeneratedSection{
			SectionType:   sec.SectionType,
			LayoutID:      sec.LayoutID,
			LayoutVariant: sec.LayoutVariant,
			Content:       sec.Content,
			Order:         sec.Order,
		}
	}
	return out
}

// List returns the signed-in user's stores.
func (h *Stores) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.ListStores(r.Context(), ownerID(r))
	writeResult(w, r, http.StatusOK, stores, err)
}

// History returns recent generation runs. ?limit= is optional.
func (h *Stores) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.History(r.Context(), ownerID(r), limit)
	writeResult(w, r, http.StatusOK, runs, err)
}

// Get returns one store with its sections.
func (h *Stores) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	writeResult(w, r, http.StatusOK, st, err)
}

// UpdateTheme replaces the store's color theme.
func (h *Stores) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var t theme.ColorTheme
	if err := decodeJSON(w, r, &t); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	err = h.svc.UpdateTheme(r.Context(), st.ID, t)
	writeResult(w, r, http.StatusOK, t, err)
}

type reorderRequest struct {
	Sections []models.SectionOrder `json:"sections"`
}

// Reorder assigns new positions to the store's sections.
func (h *Stores) Reorder(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	err = h.svc.ReorderSections(r.Context(), st.ID, req.Sections)
	writeResult(w, r, http.StatusOK, req.Sections, err)
}

// Publish makes the store public under /s/{slug}.
func (h *Stores) Publish(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	published, err := h.svc.PublishStore(r.Context(), st.ID)
	writeResult(w, r, http.StatusOK, published, err)
}

// Delete removes the store.
func (h *Stores) Delete(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	err = h.svc.DeleteStore(r.Context(), st.ID)
	writeResult(w, r, http.StatusOK, map[string]string{"id": st.ID.String()}, err)
}

type rerankRequest struct {
	SectionType string `json:"sectionType"`
	Context     string `json:"context"`
}

// Rerank scores the layouts of one section type again.
func (h *Stores) Rerank(w http.ResponseWriter, r *http.Request) {
	st, err := h.owned(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var req rerankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if msg := validateRerank(req.SectionType, req.Context); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	ranked, err := h.svc.RerankSection(r.Context(), st.ID, catalog.SectionType(req.SectionType), req.Context)
	writeResult(w, r, http.StatusOK, ranked, err)
}

type sectionContentRequest struct {
	Content catalog.Content `json:"content"`
}

// UpdateSection replaces a section's content.
func (h *Stores) UpdateSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := h.ownedSection(r)
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
	sec, err := h.svc.UpdateSection(r.Context(), sectionID, req.Content)
	writeResult(w, r, http.StatusOK, sec, err)
}

type regenerateRequest struct {
	Instructions string `json:"instructions"`
}

// RegenerateSection writes fresh content for a section.
func (h *Stores) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := h.ownedSection(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var req regenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if msg := validateInstructions(req.Instructions); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	sec, err := h.svc.RegenerateSection(r.Context(), sectionID, req.Instructions)
	writeResult(w, r, http.StatusOK, sec, err)
}

type layoutRequest struct {
	LayoutID string `json:"layoutId"`
}

// ChangeLayout switches a section to another layout of its type.
func (h *Stores) ChangeLayout(w http.ResponseWriter, r *http.Request) {
	sectionID, err := h.ownedSection(r)
	if err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	sec, err := h.svc.ChangeSectionLayout(r.Context(), sectionID, req.LayoutID)
	writeResult(w, r, http.StatusOK, sec, err)
}

// owned loads the {id} store if the signed-in user owns it.
func (h *Stores) owned(r *http.Request) (*models.Store, error) {
	id, err := uuidParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.GetOwnedStore(r.Context(), ownerID(r), id)
}

// ownedSection resolves {sectionId}, which must belong to the owned {id}
// store.
func (h *Stores) ownedSection(r *http.Request) (uuid.UUID, error) {
	st, err := h.owned(r)
	if err != nil {
		return uuid.Nil, err
	}
	sectionID, err := uuidParam(r, "sectionId")
	if err != nil {
		return uuid.Nil, err
	}
	if _, ok := st.Section(sectionID); !ok {
		return uuid.Nil, storefront.ErrNotFound
	}
	return sectionID, nil
}
