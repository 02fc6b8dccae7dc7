// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets replaces placeholder hero images with illustrations drawn
// by the active AI provider and stored in public object storage.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"storesmith/internal/catalog"
)

// heroImageFields are the hero content fields that hold a still image.
var heroImageFields = []string{"imageUrl", "backgroundImage"}

// ImageSource draws images. *ai.Registry satisfies it.
type ImageSource interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
	SupportsImageGeneration() bool
}

// ObjectStore uploads and removes public objects. *storage.Client
// satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Illustrator generates and uploads hero illustrations. Every upload lives
// under the prefix of the store it was drawn for.
type Illustrator struct {
	images  ImageSource
	objects ObjectStore
	timeout time.Duration
}

// NewIllustrator returns nil when either dependency is missing, so callers
// can treat a nil *Illustrator as "illustrations disabled".
func NewIllustrator(images ImageSource, objects ObjectStore, timeout time.Duration) *Illustrator {
	if images == nil || objects == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Illustrator{images: images, objects: objects, timeout: timeout}
}

// Illustrate draws one hero image and writes its URL into every still-image
// field of the hero content. It reports whether the content changed. Any
// failure is logged and the placeholder URLs are kept.
func (il *Illustrator) Illustrate(ctx context.Context, storeID uuid.UUID, storeName, prompt string, hero catalog.Content) bool {
	if il == nil || storeID == uuid.Nil || hero == nil || !il.images.SupportsImageGeneration() {
		return false
	}

	var fields []string
	for _, f := range heroImageFields {
		if _, ok := hero[f]; ok {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, il.timeout)
	defer cancel()

	data, contentType, err := il.images.GenerateImage(ctx, imagePrompt(storeName, prompt))
	if err != nil {
		slog.Warn("hero illustration failed", "store", storeName, "error", err)
		return false
	}

	key := objectKey(storeID, contentType)
	url, err := il.objects.Upload(ctx, key, contentType, data)
	if err != nil {
		slog.Warn("hero illustration upload failed", "key", key, "error", err)
		return false
	}

	for _, f := range fields {
		hero[f] = url
	}
	slog.Info("hero illustration stored", "key", key, "bytes", len(data))
	return true
}

// Remove deletes every object uploaded for the store. URLs copied into its
// content from elsewhere are never touched.
func (il *Illustrator) Remove(ctx context.Context, storeID uuid.UUID) {
	if il == nil || storeID == uuid.Nil {
		return
	}
	prefix := Prefix(storeID)
	n, err := il.objects.DeletePrefix(ctx, prefix)
	if err != nil {
		slog.Warn("hero illustration delete failed", "prefix", prefix, "deleted", n, "error", err)
		return
	}
	if n > 0 {
		slog.Info("hero illustrations deleted", "prefix", prefix, "count", n)
	}
}

// Prefix is the object key prefix owned by one store.
func Prefix(storeID uuid.UUID) string {
	return "stores/" + storeID.String() + "/"
}

// objectKey lays out uploads as stores/<store id>/<uuid>.<ext>.
func objectKey(storeID uuid.UUID, contentType string) string {
	return Prefix(storeID) + uuid.NewString() + extension(contentType)
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func imagePrompt(storeName, prompt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A wide, high quality hero banner photograph for an online store called %q.\n", storeName)
	fmt.Fprintf(&b, "Store description: %s\n", prompt)
	b.WriteString("No text, no logos, no watermarks. Leave calm space on the left for a headline.")
	return b.String()
}
