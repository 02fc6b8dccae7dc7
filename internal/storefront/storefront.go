// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storefront is the caller-facing store generation service. It runs
// the builder pipeline, persists the result and keeps the cache coherent
// with every later edit.
package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storesmith/internal/ai"
	"storesmith/internal/catalog"
	"storesmith/internal/models"
	"storesmith/internal/theme"
)

var (
	ErrNotFound           = errors.New("store not found")
	ErrInvalidPrompt      = errors.New("prompt must be between 10 and 4000 characters")
	ErrPromptRejected     = errors.New("prompt rejected by moderation")
	ErrInvalidTheme       = errors.New("invalid color theme")
	ErrInvalidContent     = errors.New("section content is required")
	ErrInvalidSectionType = errors.New("unknown section type")
	ErrEmptyStore         = errors.New("store has no sections")
	ErrInvalidReorder     = errors.New("invalid section order")
	ErrUnknownLayout      = errors.New("unknown layout for this section")
)

const (
	minPromptLength = 10
	maxPromptLength = 4000

	defaultHistory = 20
	maxHistory     = 100

	// slugRetries bounds how often a slug race is retried on create.
	slugRetries = 3
)

// Repository is the persistence layer. *store.StorefrontStore satisfies it.
type Repository interface {
	CreateWithSections(ctx context.Context, st *models.Store) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error)
	FindSection(ctx context.Context, id uuid.UUID) (*models.Section, error)
	UpdateSectionContent(ctx context.Context, id uuid.UUID, content catalog.Content) error
	UpdateSectionLayout(ctx context.Context, sec *models.Section) error
	UpdateTheme(ctx context.Context, storeID uuid.UUID, t theme.ColorTheme) error
	ReorderSections(ctx context.Context, storeID uuid.UUID, orders []models.SectionOrder) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Cache holds store snapshots and public pages. *cache.StoreCache
// satisfies it. Misses and errors are reported as misses.
type Cache interface {
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, bool)
	SetStore(ctx context.Context, st *models.Store)
	GetPage(ctx context.Context, slug string) (*models.Page, bool)
	SetPage(ctx context.Context, p *models.Page)
	Invalidate(ctx context.Context, id uuid.UUID, slug string)
}

// RunLog records generation runs. *store.GenerationLogStore satisfies it.
type RunLog interface {
	Log(ctx context.Context, run models.GenerationRun)
	Recent(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.GenerationRun, error)
}

// Moderator screens prompts and names the provider that will answer them.
// *ai.Registry satisfies it.
type Moderator interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
	ActiveName() string
}

// Illustrator replaces hero placeholders with generated images stored
// under the store's own key prefix. *assets.Illustrator satisfies it,
// including a nil one.
type Illustrator interface {
	Illustrate(ctx context.Context, storeID uuid.UUID, storeName, prompt string, hero catalog.Content) bool
	Remove(ctx context.Context, storeID uuid.UUID)
}

type noCache struct{}

func (noCache) GetStore(context.Context, uuid.UUID) (*models.Store, bool) { return nil, false }
func (noCache) SetStore(context.Context, *models.Store) {}
func (noCache) GetPage(context.Context, string) (*models.Page, bool) { return nil, false }
func (noCache) SetPage(context.Context, *models.Page) {}
func (noCache) Invalidate(context.Context, uuid.UUID, string) {}

type noRunLog struct{}

func (noRunLog) Log(context.Context, models.GenerationRun) {}
func (noRunLog) Recent(context.Context, uuid.UUID, int) ([]models.GenerationRun, error) {
	return []models.GenerationRun{}, nil
}
