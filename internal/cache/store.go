// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store.go caches JSON snapshots of generated stores and of their public
// page descriptions. Entries expire after a TTL and are dropped explicitly
// whenever the store changes.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storesmith/internal/models"
)

const (
	storeKeyPrefix = "store:"
	pageKeyPrefix  = "page:"

	// DefaultTTL is how long a snapshot stays cached.
	DefaultTTL = 5 * time.Minute
)

// StoreCache manages store and page snapshots in Valkey. Every error is
// logged and treated as a miss.
type StoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStoreCache creates a new store cache backed by the given Valkey client.
func NewStoreCache(client *redis.Client, ttl time.Duration) *StoreCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &StoreCache{client: client, ttl: ttl}
}

// StoreKey returns the cache key for a store id.
func StoreKey(id uuid.UUID) string {
	return storeKeyPrefix + id.String()
}

// PageKey returns the cache key for a public page slug.
func PageKey(slug string) string {
	return pageKeyPrefix + slug
}

// GetStore returns the cached store, if any.
func (c *StoreCache) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, bool) {
	var st models.Store
	if !c.get(ctx, StoreKey(id), &st) {
		return nil, false
	}
	return &st, true
}

// SetStore caches a store snapshot.
func (c *StoreCache) SetStore(ctx context.Context, st *models.Store) {
	c.set(ctx, StoreKey(st.ID), st)
}

// GetPage returns the cached public page, if any.
func (c *StoreCache) GetPage(ctx context.Context, slug string) (*models.Page, bool) {
	var p models.Page
	if !c.get(ctx, PageKey(slug), &p) {
		return nil, false
	}
	return &p, true
}

// SetPage caches a public page description.
func (c *StoreCache) SetPage(ctx context.Context, p *models.Page) {
	c.set(ctx, PageKey(p.Slug), p)
}

// Invalidate removes the store snapshot and its public page.
func (c *StoreCache) Invalidate(ctx context.Context, id uuid.UUID, slug string) {
	keys := []string{StoreKey(id)}
	if slug != "" {
		keys = append(keys, PageKey(slug))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("store cache invalidate error", "store_id", id, "error", err)
		return
	}
	slog.Debug("store cache invalidated", "store_id", id, "slug", slug)
}

// InvalidateAll removes every cached store and page by scanning for the
// prefixes. Used after a catalog or theme preset change.
func (c *StoreCache) InvalidateAll(ctx context.Context) {
	var deleted int
	for _, prefix := range []string{storeKeyPrefix, pageKeyPrefix} {
		var cursor uint64
		for {
			keys, nextCursor, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
			if err != nil {
				slog.Warn("store cache scan error", "error", err)
				return
			}
			if len(keys) > 0 {
				if err := c.client.Del(ctx, keys...).Err(); err != nil {
					slog.Warn("store cache bulk delete error", "error", err)
				}
				deleted += len(keys)
			}
			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}
	if deleted > 0 {
		slog.Info("store cache fully cleared", "deleted", deleted)
	}
}

func (c *StoreCache) get(ctx context.Context, key string, v any) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("store cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, v); err != nil {
		slog.Warn("store cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("store cache hit", "key", key)
	return true
}

func (c *StoreCache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("store cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("store cache set error", "key", key, "error", err)
	}
}
