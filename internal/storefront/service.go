// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"storesmith/internal/builder"
	"storesmith/internal/catalog"
	"storesmith/internal/models"
	"storesmith/internal/slug"
	"storesmith/internal/store"
	"storesmith/internal/theme"
)

// Deps are the collaborators of a Service. Repo and Pipeline are required;
// the rest may be nil.
type Deps struct {
	Repo        Repository
	Pipeline    *builder.Pipeline
	Cache       Cache
	Runs        RunLog
	Moderator   Moderator
	Illustrator Illustrator
}

// Service implements the store generation and editing operations.
type Service struct {
	repo        Repository
	pipeline    *builder.Pipeline
	cache       Cache
	runs        RunLog
	moderator   Moderator
	illustrator Illustrator
}

// New creates a Service.
func New(d Deps) *Service {
	s := &Service{
		repo:        d.Repo,
		pipeline:    d.Pipeline,
		cache:       d.Cache,
		runs:        d.Runs,
		moderator:   d.Moderator,
		illustrator: d.Illustrator,
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.runs == nil {
		s.runs = noRunLog{}
	}
	return s
}

// Generation is the outcome of GenerateStore.
type Generation struct {
	Store      *models.Store         `json:"store"`
	Selections []builder.Selection   `json:"layoutSelections"`
	Quality    builder.QualityReport `json:"quality"`
	Fallbacks  builder.FallbackStats `json:"fallbacks"`
}

// GenerateStore turns a prompt into a persisted draft store. A nil theme
// selects the default preset.
func (s *Service) GenerateStore(ctx context.Context, ownerID uuid.UUID, prompt string, colors *theme.ColorTheme) (*Generation, error) {
	prompt = strings.TrimSpace(prompt)
	if n := utf8.RuneCountInString(prompt); n < minPromptLength || n > maxPromptLength {
		return nil, ErrInvalidPrompt
	}

	t := theme.Default()
	if colors != nil {
		t = *colors
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}

	if err := s.screen(ctx, prompt); err != nil {
		return nil, err
	}

	res, err := s.pipeline.Run(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate store: %w", err)
	}

	// The id is fixed up front so illustrations land under the store's prefix.
	storeID := uuid.New()
	for i := range res.Sections {
		if res.Sections[i].SectionType == catalog.Hero && s.illustrator != nil {
			s.illustrator.Illustrate(ctx, storeID, res.Metadata.StoreName, prompt, res.Sections[i].Content)
		}
	}

	st := &models.Store{
		ID:           storeID,
		OwnerID:      ownerID,
		Name:         res.Metadata.StoreName,
		Description:  res.Metadata.StoreDescription,
		Prompt:       prompt,
		Category:     res.Metadata.Category,
		ColorTheme:   t,
		Status:       models.StoreStatusDraft,
		QualityScore: res.Quality.Overall,
		Sections:     s.sectionsFrom(res),
	}

	created, err := s.create(ctx, st)
	if err != nil {
		if s.illustrator != nil {
			s.illustrator.Remove(ctx, storeID)
		}
		return nil, err
	}

	s.runs.Log(ctx, models.GenerationRun{
		StoreID:          created.ID,
		OwnerID:          ownerID,
		Provider:         s.providerName(),
		QualityScore:     res.Quality.Overall,
		FallbackScores:   res.Fallbacks.Scores,
		FallbackSections: res.Fallbacks.Sections,
		RepairedSections: res.Fallbacks.Repaired,
		FallbackMetadata: res.Fallbacks.Metadata,
		DurationMS:       res.Duration.Milliseconds(),
	})
	slog.Info("store generated",
		"store_id", created.ID,
		"slug", created.Slug,
		"quality", res.Quality.Overall,
		"fallback_sections", res.Fallbacks.Sections,
		"duration", res.Duration,
	)

	return &Generation{
		Store:      created,
		Selections: res.Selections,
		Quality:    res.Quality,
		Fallbacks:  res.Fallbacks,
	}, nil
}

// screen runs moderation. Moderation failures let the prompt through.
func (s *Service) screen(ctx context.Context, prompt string) error {
	if s.moderator == nil {
		return nil
	}
	result, err := s.moderator.CheckPrompt(ctx, prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return nil
	}
	if result.Safe {
		return nil
	}
	categories := strings.Join(result.Categories, ", ")
	slog.Warn("store prompt flagged by moderation", "categories", categories)
	return fmt.Errorf("%w: flagged for %s", ErrPromptRejected, categories)
}

func (s *Service) providerName() string {
	if s.moderator == nil {
		return ""
	}
	return s.moderator.ActiveName()
}

// sectionsFrom copies each generated section with the keywords and score of
// the layout that was selected for it.
func (s *Service) sectionsFrom(res *builder.Result) []models.Section {
	byType := make(map[catalog.SectionType]builder.Selection, len(res.Selections))
	for _, sel := range res.Selections {
		byType[sel.SectionType] = sel
	}

	out := make([]models.Section, len(res.Sections))
	for i, gs := range res.Sections {
		sel := byType[gs.SectionType]
		out[i] = models.Section{
			SectionType:    gs.SectionType,
			LayoutID:       gs.LayoutID,
			LayoutVariant:  gs.LayoutVariant,
			Order:          gs.Order,
			Content:        gs.Content,
			Keywords:       sel.Layout.Keywords,
			RelevanceScore: sel.Score,
		}
	}
	return out
}

// create picks a free slug and inserts the store, retrying when another
// request takes the same slug in between.
func (s *Service) create(ctx context.Context, st *models.Store) (*models.Store, error) {
	for attempt := 0; ; attempt++ {
		sl, err := slug.Unique(ctx, st.Name, s.repo.SlugExists)
		if err != nil {
			return nil, fmt.Errorf("generate store: %w", err)
		}
		st.Slug = sl

		created, err := s.repo.CreateWithSections(ctx, st)
		if errors.Is(err, store.ErrSlugTaken) && attempt < slugRetries {
			slog.Warn("slug taken during create, retrying", "slug", sl)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("generate store: %w", err)
		}
		return created, nil
	}
}

// GetStore returns a store with its sections, read through the cache.
func (s *Service) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if st, ok := s.cache.GetStore(ctx, id); ok {
		return st, nil
	}
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	s.cache.SetStore(ctx, st)
	return st, nil
}

// GetOwnedStore returns the store only if ownerID owns it. Foreign stores
// are reported as ErrNotFound.
func (s *Service) GetOwnedStore(ctx context.Context, ownerID, id uuid.UUID) (*models.Store, error) {
	st, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return st, nil
}

// GetPublishedBySlug returns the public page of a published store.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*models.Page, error) {
	if p, ok := s.cache.GetPage(ctx, slug); ok {
		return p, nil
	}
	st, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	if !st.IsPublished() {
		return nil, ErrNotFound
	}
	p := st.Page()
	s.cache.SetPage(ctx, &p)
	return &p, nil
}

// ListStores returns the owner's stores, newest first.
func (s *Service) ListStores(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error) {
	stores, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// UpdateSection replaces a section's content.
func (s *Service) UpdateSection(ctx context.Context, sectionID uuid.UUID, content catalog.Content) (*models.Section, error) {
	if content == nil {
		return nil, ErrInvalidContent
	}
	sec, err := s.repo.FindSection(ctx, sectionID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.repo.UpdateSectionContent(ctx, sectionID, content); err != nil {
		return nil, notFound(err)
	}
	sec.Content = content
	s.invalidate(ctx, sec.StoreID)
	return sec, nil
}

// RegenerateSection writes new content for a section's current layout,
// steering the model with optional instructions.
func (s *Service) RegenerateSection(ctx context.Context, sectionID uuid.UUID, instructions string) (*models.Section, error) {
	sec, st, err := s.sectionWithStore(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	layout, ok := s.pipeline.Catalog.ByID(sec.LayoutID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, sec.LayoutID)
	}

	content, src := s.pipeline.Content.Regenerate(ctx, st.Prompt, layout, instructions)
	if err := s.repo.UpdateSectionContent(ctx, sec.ID, content); err != nil {
		return nil, notFound(err)
	}
	slog.Info("section regenerated", "section_id", sec.ID, "layout", layout.ID, "source", src)

	sec.Content = content
	s.invalidate(ctx, sec.StoreID)
	return sec, nil
}

// RerankSection scores every layout of a section type again, taking extra
// context into account.
func (s *Service) RerankSection(ctx context.Context, storeID uuid.UUID, t catalog.SectionType, extra string) ([]builder.RankedLayout, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSectionType, t)
	}
	st, err := s.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Selector.RerankSection(ctx, st.Prompt, t, extra), nil
}

// ChangeSectionLayout switches a section to another layout of the same
// type and generates content for it.
func (s *Service) ChangeSectionLayout(ctx context.Context, sectionID uuid.UUID, layoutID string) (*models.Section, error) {
	sec, st, err := s.sectionWithStore(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	layout, ok := s.pipeline.Catalog.ByID(layoutID)
	if !ok || layout.SectionType != sec.SectionType {
		return nil, fmt.Errorf("%w: %s is not a %s layout", ErrUnknownLayout, layoutID, sec.SectionType)
	}

	score := s.pipeline.Scorer.Score(ctx, st.Prompt, layout.Keywords, layout.ID)
	content, _ := s.pipeline.Content.GenerateOne(ctx, st.Prompt, layout)

	sec.LayoutID = layout.ID
	sec.LayoutVariant = layout.Variant
	sec.Content = content
	sec.Keywords = layout.Keywords
	sec.RelevanceScore = score.Value
	if err := s.repo.UpdateSectionLayout(ctx, sec); err != nil {
		return nil, notFound(err)
	}

	s.invalidate(ctx, sec.StoreID)
	return sec, nil
}

// UpdateTheme replaces a store's color theme.
func (s *Service) UpdateTheme(ctx context.Context, storeID uuid.UUID, t theme.ColorTheme) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	if err := s.repo.UpdateTheme(ctx, storeID, t); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx, storeID)
	return nil
}

// ReorderSections assigns new positions to sections of one store. Either
// every position is applied or none.
func (s *Service) ReorderSections(ctx context.Context, storeID uuid.UUID, orders []models.SectionOrder) error {
	if len(orders) == 0 {
		return fmt.Errorf("%w: no sections given", ErrInvalidReorder)
	}
	seen := make(map[uuid.UUID]bool, len(orders))
	for _, o := range orders {
		if o.Order < 0 || o.Order > math.MaxInt32 {
			return fmt.Errorf("%w: order %d out of range for %s", ErrInvalidReorder, o.Order, o.SectionID)
		}
		if seen[o.SectionID] {
			return fmt.Errorf("%w: section %s given twice", ErrInvalidReorder, o.SectionID)
		}
		seen[o.SectionID] = true
	}

	err := s.repo.ReorderSections(ctx, storeID, orders)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: section does not belong to store", ErrInvalidReorder)
	}
	if err != nil {
		return fmt.Errorf("reorder sections: %w", err)
	}
	s.invalidate(ctx, storeID)
	return nil
}

// PublishStore makes a store publicly visible. Publishing twice is a
// no-op.
func (s *Service) PublishStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	st, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, notFound(err)
	}
	if len(st.Sections) == 0 {
		return nil, ErrEmptyStore
	}
	if st.IsPublished() {
		return st, nil
	}

	if err := s.repo.SetStatus(ctx, storeID, models.StoreStatusPublished); err != nil {
		return nil, notFound(err)
	}
	s.cache.Invalidate(ctx, st.ID, st.Slug)

	published, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, notFound(err)
	}
	slog.Info("store published", "store_id", storeID, "slug", st.Slug)
	return published, nil
}

// DeleteStore removes a store, its sections and its uploaded illustrations.
func (s *Service) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return notFound(err)
	}
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return notFound(err)
	}
	s.cache.Invalidate(ctx, st.ID, st.Slug)

	if s.illustrator != nil {
		s.illustrator.Remove(ctx, st.ID)
	}
	slog.Info("store deleted", "store_id", storeID)
	return nil
}

// History returns the owner's most recent generation runs. A limit outside
// 1..100 selects the default of 20.
func (s *Service) History(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 || limit > maxHistory {
		limit = defaultHistory
	}
	runs, err := s.runs.Recent(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("generation history: %w", err)
	}
	return runs, nil
}

func (s *Service) sectionWithStore(ctx context.Context, sectionID uuid.UUID) (*models.Section, *models.Store, error) {
	sec, err := s.repo.FindSection(ctx, sectionID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	st, err := s.GetStore(ctx, sec.StoreID)
	if err != nil {
		return nil, nil, err
	}
	return sec, st, nil
}

// invalidate drops the cached store and, when the slug can be resolved, its
// public page.
func (s *Service) invalidate(ctx context.Context, storeID uuid.UUID) {
	var sl string
	if st, err := s.repo.FindByID(ctx, storeID); err == nil {
		sl = st.Slug
	}
	s.cache.Invalidate(ctx, storeID, sl)
}

// notFound maps the persistence layer's not-found error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
