// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"storesmith/internal/builder"
	"storesmith/internal/catalog"
	"storesmith/internal/theme"
)

// DemoSlug is the slug of the store created by Seed.
const DemoSlug = "demo"

// Seed populates the database with initial development data.
// It creates a published demo store, built from the first layout of every
// section type and its fallback content, if no store exists yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&count); err != nil {
		return fmt.Errorf("seed check stores: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	colors, err := json.Marshal(theme.Default())
	if err != nil {
		return fmt.Errorf("seed marshal theme: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var storeID uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO stores (owner_id, name, slug, description, prompt, category,
		                    color_theme, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'published', NOW())
		RETURNING id
	`, uuid.Nil, "Demo Store", DemoSlug,
		"A sample storefront built from the default layouts.",
		"A friendly general store with a clean modern look", "general", colors,
	).Scan(&storeID)
	if err != nil {
		return fmt.Errorf("seed insert store: %w", err)
	}

	types := catalog.SectionTypes()
	sort.SliceStable(types, func(i, j int) bool {
		return builder.Position(types[i]) < builder.Position(types[j])
	})

	cat := catalog.Default()
	for i, t := range types {
		layouts := cat.ByType(t)
		if len(layouts) == 0 {
			continue
		}
		l := layouts[0]
		content, err := json.Marshal(catalog.LayoutFallback(l))
		if err != nil {
			return fmt.Errorf("seed marshal %s content: %w", l.ID, err)
		}
		keywords, err := json.Marshal(l.Keywords)
		if err != nil {
			return fmt.Errorf("seed marshal %s keywords: %w", l.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO store_sections (store_id, section_type, layout_id, layout_variant,
			                            sort_order, content, keywords)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, storeID, t, l.ID, l.Variant, i, content, keywords); err != nil {
			return fmt.Errorf("seed insert section %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo store", "slug", DemoSlug, "sections", len(types))
	return nil
}
