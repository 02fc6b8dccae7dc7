// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storesmith/internal/catalog"
	"storesmith/internal/models"
	"storesmith/internal/theme"
)

const storeColumns = `id, owner_id, name, slug, description, prompt, category,
	color_theme, status, quality_score, published_at, created_at, updated_at`

const sectionColumns = `id, store_id, section_type, layout_id, layout_variant,
	sort_order, content, keywords, relevance_score, created_at, updated_at`

// StorefrontStore persists stores and their sections. Theme, content and
// keywords are stored as JSONB.
type StorefrontStore struct {
	db *sql.DB
}

// NewStorefrontStore creates a new StorefrontStore with the given database connection.
func NewStorefrontStore(db *sql.DB) *StorefrontStore {
	return &StorefrontStore{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(r rowScanner) (*models.Store, error) {
	st := &models.Store{}
	var colors []byte
	if err := r.Scan(
		&st.ID, &st.OwnerID, &st.Name, &st.Slug, &st.Description, &st.Prompt,
		&st.Category, &colors, &st.Status, &st.QualityScore,
		&st.PublishedAt, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(colors, &st.ColorTheme); err != nil {
		return nil, fmt.Errorf("decode color theme: %w", err)
	}
	return st, nil
}

func scanSection(r rowScanner) (*models.Section, error) {
	sec := &models.Section{}
	var content, keywords []byte
	if err := r.Scan(
		&sec.ID, &sec.StoreID, &sec.SectionType, &sec.LayoutID, &sec.LayoutVariant,
		&sec.Order, &content, &keywords, &sec.RelevanceScore,
		&sec.CreatedAt, &sec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &sec.Content); err != nil {
		return nil, fmt.Errorf("decode section content: %w", err)
	}
	if err := json.Unmarshal(keywords, &sec.Keywords); err != nil {
		return nil, fmt.Errorf("decode section keywords: %w", err)
	}
	return sec, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateWithSections inserts a store and all of its sections in a single
// transaction and returns the stored aggregate. Either everything is
// written or nothing is. A zero st.ID is replaced with a fresh one.
func (s *StorefrontStore) CreateWithSections(ctx context.Context, st *models.Store) (*models.Store, error) {
	id := st.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	colors, err := marshalJSON(st.ColorTheme)
	if err != nil {
		return nil, fmt.Errorf("create store: encode theme: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create store: begin: %w", err)
	}
	defer tx.Rollback()

	created, err := scanStore(tx.QueryRowContext(ctx, `
		INSERT INTO stores (id, owner_id, name, slug, description, prompt, category,
		                    color_theme, status, quality_score, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+storeColumns,
		id, st.OwnerID, st.Name, st.Slug, st.Description, st.Prompt, st.Category,
		colors, st.Status, st.QualityScore, st.PublishedAt,
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create store %q: %w", st.Slug, ErrSlugTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	for _, sec := range st.Sections {
		content, err := marshalJSON(sec.Content)
		if err != nil {
			return nil, fmt.Errorf("create store: encode %s content: %w", sec.LayoutID, err)
		}
		keywords, err := marshalJSON(nonNil(sec.Keywords))
		if err != nil {
			return nil, fmt.Errorf("create store: encode %s keywords: %w", sec.LayoutID, err)
		}
		row, err := scanSection(tx.QueryRowContext(ctx, `
			INSERT INTO store_sections (store_id, section_type, layout_id, layout_variant,
			                            sort_order, content, keywords, relevance_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+sectionColumns,
			created.ID, sec.SectionType, sec.LayoutID, sec.LayoutVariant,
			sec.Order, content, keywords, sec.RelevanceScore,
		))
		if err != nil {
			return nil, fmt.Errorf("create store: insert %s section: %w", sec.SectionType, err)
		}
		created.Sections = append(created.Sections, *row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create store: commit: %w", err)
	}
	created.SortSections()
	return created, nil
}

// FindByID retrieves a store and its sections by id.
func (s *StorefrontStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	st, err := scanStore(s.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find store by id: %w", err)
	}
	if err := s.loadSections(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// FindBySlug retrieves a store and its sections by slug, whatever its status.
func (s *StorefrontStore) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	st, err := scanStore(s.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find store by slug: %w", err)
	}
	if err := s.loadSections(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StorefrontStore) loadSections(ctx context.Context, st *models.Store) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sectionColumns+`
		FROM store_sections
		WHERE store_id = $1
		ORDER BY sort_order, id
	`, st.ID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	st.Sections = nil
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		st.Sections = append(st.Sections, *sec)
	}
	return rows.Err()
}

// ListByOwner returns the owner's stores, newest first, each with its
// sections in display order.
func (s *StorefrontStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	index := map[uuid.UUID]int{}
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		index[st.ID] = len(stores)
		stores = append(stores, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return stores, nil
	}

	secRows, err := s.db.QueryContext(ctx, `
		SELECT ss.id, ss.store_id, ss.section_type, ss.layout_id, ss.layout_variant,
		       ss.sort_order, ss.content, ss.keywords, ss.relevance_score,
		       ss.created_at, ss.updated_at
		FROM store_sections ss
		JOIN stores s ON s.id = ss.store_id
		WHERE s.owner_id = $1
		ORDER BY ss.sort_order, ss.id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner sections: %w", err)
	}
	defer secRows.Close()

	for secRows.Next() {
		sec, err := scanSection(secRows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		// A store created between the two queries is simply skipped.
		if i, ok := index[sec.StoreID]; ok {
			stores[i].Sections = append(stores[i].Sections, *sec)
		}
	}
	return stores, secRows.Err()
}

// FindSection retrieves one section by id.
func (s *StorefrontStore) FindSection(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM store_sections WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find section: %w", err)
	}
	return sec, nil
}

// UpdateSectionContent replaces a section's content and bumps the parent
// store's updated_at.
func (s *StorefrontStore) UpdateSectionContent(ctx context.Context, id uuid.UUID, content catalog.Content) error {
	body, err := marshalJSON(content)
	if err != nil {
		return fmt.Errorf("update section content: encode: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		WITH sec AS (
			UPDATE store_sections SET content = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING store_id
		)
		UPDATE stores SET updated_at = NOW() WHERE id IN (SELECT store_id FROM sec)
	`, id, body)
	if err != nil {
		return fmt.Errorf("update section content: %w", err)
	}
	return expectRow(res, "section", id)
}

// UpdateSectionLayout switches a section to another layout, storing the
// new content, keywords and relevance score together.
func (s *StorefrontStore) UpdateSectionLayout(ctx context.Context, sec *models.Section) error {
	content, err := marshalJSON(sec.Content)
	if err != nil {
		return fmt.Errorf("update section layout: encode content: %w", err)
	}
	keywords, err := marshalJSON(nonNil(sec.Keywords))
	if err != nil {
		return fmt.Errorf("update section layout: encode keywords: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		WITH sec AS (
			UPDATE store_sections SET
				layout_id = $2, layout_variant = $3, content = $4,
				keywords = $5, relevance_score = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING store_id
		)
		UPDATE stores SET updated_at = NOW() WHERE id IN (SELECT store_id FROM sec)
	`, sec.ID, sec.LayoutID, sec.LayoutVariant, content, keywords, sec.RelevanceScore)
	if err != nil {
		return fmt.Errorf("update section layout: %w", err)
	}
	return expectRow(res, "section", sec.ID)
}

// UpdateTheme replaces the store's color theme.
func (s *StorefrontStore) UpdateTheme(ctx context.Context, storeID uuid.UUID, t theme.ColorTheme) error {
	colors, err := marshalJSON(t)
	if err != nil {
		return fmt.Errorf("update theme: encode: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE stores SET color_theme = $2, updated_at = NOW() WHERE id = $1
	`, storeID, colors)
	if err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	return expectRow(res, "store", storeID)
}

// ReorderSections applies every new position in one transaction. Each
// section must belong to storeID; otherwise nothing is changed and
// ErrNotFound is returned.
func (s *StorefrontStore) ReorderSections(ctx context.Context, storeID uuid.UUID, orders []models.SectionOrder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder sections: begin: %w", err)
	}
	defer tx.Rollback()

	for _, o := range orders {
		res, err := tx.ExecContext(ctx, `
			UPDATE store_sections SET sort_order = $3, updated_at = NOW()
			WHERE id = $1 AND store_id = $2
		`, o.SectionID, storeID, o.Order)
		if err != nil {
			return fmt.Errorf("reorder section %s: %w", o.SectionID, err)
		}
		if err := expectRow(res, "section", o.SectionID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE stores SET updated_at = NOW() WHERE id = $1`, storeID); err != nil {
		return fmt.Errorf("reorder sections: touch store: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder sections: commit: %w", err)
	}
	return nil
}

// SetStatus changes the store's status. published_at is stamped the first
// time the store is published and kept afterwards.
func (s *StorefrontStore) SetStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stores SET
			status = $2,
			published_at = CASE WHEN $3 THEN COALESCE(published_at, NOW())
			                    ELSE published_at END,
			updated_at = NOW()
		WHERE id = $1
	`, id, string(status), status == models.StoreStatusPublished)
	if err != nil {
		return fmt.Errorf("set store status: %w", err)
	}
	return expectRow(res, "store", id)
}

// Delete removes a store. Sections go with it through ON DELETE CASCADE.
func (s *StorefrontStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return expectRow(res, "store", id)
}

// SlugExists reports whether any store uses the slug.
func (s *StorefrontStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func expectRow(res sql.Result, what string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
