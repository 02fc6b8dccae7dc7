// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// generation_log.go records one audit row per pipeline run: which provider
// answered, the resulting quality score and how many stages fell back.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storesmith/internal/models"
)

// GenerationLogStore handles generation run log operations.
type GenerationLogStore struct {
	db *sql.DB
}

// NewGenerationLogStore creates a new GenerationLogStore.
func NewGenerationLogStore(db *sql.DB) *GenerationLogStore {
	return &GenerationLogStore{db: db}
}

// Log records a generation run.
func (s *GenerationLogStore) Log(ctx context.Context, run models.GenerationRun) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_runs (store_id, owner_id, provider, quality_score,
		                             fallback_scores, fallback_sections, repaired_sections,
		                             fallback_metadata, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.StoreID, run.OwnerID, run.Provider, run.QualityScore,
		run.FallbackScores, run.FallbackSections, run.RepairedSections,
		run.FallbackMetadata, run.DurationMS)
	if err != nil {
		// Log but don't fail, the store itself is already saved.
		slog.Warn("failed to log generation run",
			"store_id", run.StoreID,
			"provider", run.Provider,
			"error", err,
		)
		return
	}
	slog.Debug("generation run logged",
		"store_id", run.StoreID,
		"quality", run.QualityScore,
	)
}

// Recent returns the owner's most recent generation runs, newest first.
// Limited to the specified count.
func (s *GenerationLogStore) Recent(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.GenerationRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, owner_id, provider, quality_score, fallback_scores,
		       fallback_sections, repaired_sections, fallback_metadata,
		       duration_ms, created_at
		FROM generation_runs
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query generation runs: %w", err)
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		var r models.GenerationRun
		if err := rows.Scan(
			&r.ID, &r.StoreID, &r.OwnerID, &r.Provider, &r.QualityScore,
			&r.FallbackScores, &r.FallbackSections, &r.RepairedSections,
			&r.FallbackMetadata, &r.DurationMS, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
