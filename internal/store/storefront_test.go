// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"storesmith/internal/catalog"
	"storesmith/internal/models"
	"storesmith/internal/theme"
)

// newTestStore builds an unsaved store with one section per layout id.
func newTestStore(owner uuid.UUID, layoutIDs ...string) *models.Store {
	st := &models.Store{
		OwnerID:     owner,
		Name:        "Ember Roasters",
		Slug:        "ember-" + uuid.NewString()[:8],
		Description: "Artisan coffee.",
		Prompt:      "Artisan coffee roastery, rustic aesthetic",
		Category:    "food",
		ColorTheme:  theme.Default(),
		Status:      models.StoreStatusDraft,
	}
	for i, id := range layoutIDs {
		l, _ := catalog.Default().ByID(id)
		st.Sections = append(st.Sections, models.Section{
			SectionType:    l.SectionType,
			LayoutID:       l.ID,
			LayoutVariant:  l.Variant,
			Order:          i,
			Content:        catalog.LayoutFallback(l),
			Keywords:       l.Keywords,
			RelevanceScore: 70 + i,
		})
	}
	return st
}

func createTestStore(t *testing.T, db *sql.DB, layoutIDs ...string) *models.Store {
	t.Helper()
	owner := uuid.New()
	t.Cleanup(func() { cleanOwner(t, db, owner) })

	st, err := NewStorefrontStore(db).CreateWithSections(context.Background(), newTestStore(owner, layoutIDs...))
	if err != nil {
		t.Fatalf("CreateWithSections: %v", err)
	}
	return st
}

func TestStorefrontCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal", "product-grid-3col", "footer-minimal")
	if st.ID == uuid.Nil {
		t.Fatal("expected generated store id")
	}
	if len(st.Sections) != 3 {
		t.Fatalf("sections: got %d, want 3", len(st.Sections))
	}

	found, err := s.FindByID(ctx, st.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.ColorTheme != theme.Default() {
		t.Errorf("theme round trip: got %+v", found.ColorTheme)
	}
	if found.Sections[0].LayoutID != "hero-minimal" || found.Sections[2].LayoutID != "footer-minimal" {
		t.Errorf("section order: got %s..%s", found.Sections[0].LayoutID, found.Sections[2].LayoutID)
	}
	if found.Sections[1].RelevanceScore != 71 {
		t.Errorf("relevance score: got %d, want 71", found.Sections[1].RelevanceScore)
	}
	if len(found.Sections[0].Keywords) == 0 {
		t.Error("expected keywords to round trip")
	}
	if v := catalog.Validate(found.Sections[1].Content, []string{"sectionTitle", "products"}); !v.Valid {
		t.Errorf("content round trip invalid: %+v", v)
	}

	bySlug, err := s.FindBySlug(ctx, st.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug.ID != st.ID {
		t.Errorf("FindBySlug: got %s, want %s", bySlug.ID, st.ID)
	}

	exists, err := s.SlugExists(ctx, st.Slug)
	if err != nil || !exists {
		t.Errorf("SlugExists(%q) = %v, %v", st.Slug, exists, err)
	}
}

func TestStorefrontCreateKeepsPresetID(t *testing.T) {
	db := testDB(t)
	owner := uuid.New()
	t.Cleanup(func() { cleanOwner(t, db, owner) })

	st := newTestStore(owner, "hero-minimal")
	st.ID = uuid.New()
	created, err := NewStorefrontStore(db).CreateWithSections(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateWithSections: %v", err)
	}
	if created.ID != st.ID {
		t.Errorf("id: got %s, want %s", created.ID, st.ID)
	}
	if created.Sections[0].StoreID != st.ID {
		t.Errorf("section store id: got %s, want %s", created.Sections[0].StoreID, st.ID)
	}
}

func TestStorefrontNotFound(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	if _, err := s.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID: got %v, want ErrNotFound", err)
	}
	if _, err := s.FindBySlug(ctx, "no-such-store-"+uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBySlug: got %v, want ErrNotFound", err)
	}
	if _, err := s.FindSection(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindSection: got %v, want ErrNotFound", err)
	}
	if err := s.UpdateSectionContent(ctx, uuid.New(), catalog.Content{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSectionContent: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
}

func TestStorefrontDuplicateSlug(t *testing.T) {
	db := testDB(t)
	st := createTestStore(t, db, "hero-bold")

	dup := newTestStore(st.OwnerID, "hero-bold")
	dup.Slug = st.Slug
	_, err := NewStorefrontStore(db).CreateWithSections(context.Background(), dup)
	if !errors.Is(err, ErrSlugTaken) {
		t.Errorf("got %v, want ErrSlugTaken", err)
	}
}

func TestStorefrontCreateIsAtomic(t *testing.T) {
	db := testDB(t)
	owner := uuid.New()
	t.Cleanup(func() { cleanOwner(t, db, owner) })

	st := newTestStore(owner, "hero-minimal")
	// Negative orders violate the sort_order check constraint.
	st.Sections[0].Order = -1
	if _, err := NewStorefrontStore(db).CreateWithSections(context.Background(), st); err == nil {
		t.Fatal("expected constraint violation")
	}

	exists, err := NewStorefrontStore(db).SlugExists(context.Background(), st.Slug)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("store row should have been rolled back")
	}
}

func TestStorefrontListByOwner(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	owner := uuid.New()
	t.Cleanup(func() { cleanOwner(t, db, owner) })

	first, err := s.CreateWithSections(ctx, newTestStore(owner, "hero-minimal"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := s.CreateWithSections(ctx, newTestStore(owner, "hero-bold", "footer-minimal"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	stores, err := s.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(stores))
	}
	if stores[0].ID != second.ID || stores[1].ID != first.ID {
		t.Error("expected newest store first")
	}
	if len(stores[0].Sections) != 2 || len(stores[1].Sections) != 1 {
		t.Errorf("sections per store: got %d and %d", len(stores[0].Sections), len(stores[1].Sections))
	}

	none, err := s.ListByOwner(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ListByOwner (empty): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no stores, got %d", len(none))
	}
}

func TestStorefrontUpdateSection(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal")
	secID := st.Sections[0].ID

	content := catalog.Content{"headline": "Fresh roast", "subheadline": "s", "ctaPrimary": "Buy", "ctaSecondary": "More"}
	if err := s.UpdateSectionContent(ctx, secID, content); err != nil {
		t.Fatalf("UpdateSectionContent: %v", err)
	}
	sec, err := s.FindSection(ctx, secID)
	if err != nil {
		t.Fatalf("FindSection: %v", err)
	}
	if sec.Content["headline"] != "Fresh roast" {
		t.Errorf("headline: got %v", sec.Content["headline"])
	}

	bold, _ := catalog.Default().ByID("hero-bold")
	sec.LayoutID = bold.ID
	sec.LayoutVariant = bold.Variant
	sec.Content = catalog.LayoutFallback(bold)
	sec.Keywords = bold.Keywords
	sec.RelevanceScore = 88
	if err := s.UpdateSectionLayout(ctx, sec); err != nil {
		t.Fatalf("UpdateSectionLayout: %v", err)
	}
	sec, _ = s.FindSection(ctx, secID)
	if sec.LayoutID != "hero-bold" || sec.RelevanceScore != 88 {
		t.Errorf("layout switch not stored: %s %d", sec.LayoutID, sec.RelevanceScore)
	}
	if _, ok := sec.Content["backgroundImage"]; !ok {
		t.Error("expected backgroundImage in switched content")
	}
}

func TestStorefrontUpdateTheme(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal")
	ocean, _ := theme.Preset("ocean")
	if err := s.UpdateTheme(ctx, st.ID, ocean); err != nil {
		t.Fatalf("UpdateTheme: %v", err)
	}
	found, _ := s.FindByID(ctx, st.ID)
	if found.ColorTheme != ocean {
		t.Errorf("theme: got %+v, want ocean", found.ColorTheme)
	}
	if !found.UpdatedAt.After(st.UpdatedAt) && !found.UpdatedAt.Equal(st.UpdatedAt) {
		t.Error("updated_at went backwards")
	}
}

func TestStorefrontReorderSections(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal", "newsletter-centered", "footer-minimal")
	hero, news, foot := st.Sections[0].ID, st.Sections[1].ID, st.Sections[2].ID

	err := s.ReorderSections(ctx, st.ID, []models.SectionOrder{
		{SectionID: hero, Order: 2},
		{SectionID: news, Order: 0},
		{SectionID: foot, Order: 1},
	})
	if err != nil {
		t.Fatalf("ReorderSections: %v", err)
	}
	found, _ := s.FindByID(ctx, st.ID)
	got := []uuid.UUID{found.Sections[0].ID, found.Sections[1].ID, found.Sections[2].ID}
	want := []uuid.UUID{news, foot, hero}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after reorder: got %v, want %v", got, want)
		}
	}

	// A foreign section aborts the whole batch.
	other := createTestStore(t, db, "hero-bold")
	err = s.ReorderSections(ctx, st.ID, []models.SectionOrder{
		{SectionID: news, Order: 5},
		{SectionID: other.Sections[0].ID, Order: 0},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign section: got %v, want ErrNotFound", err)
	}
	sec, _ := s.FindSection(ctx, news)
	if sec.Order != 0 {
		t.Errorf("rolled back order: got %d, want 0", sec.Order)
	}
}

func TestStorefrontSetStatus(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal")
	if st.PublishedAt != nil {
		t.Fatal("draft store should have no published_at")
	}

	if err := s.SetStatus(ctx, st.ID, models.StoreStatusPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	first, _ := s.FindByID(ctx, st.ID)
	if !first.IsPublished() || first.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %s %v", first.Status, first.PublishedAt)
	}

	if err := s.SetStatus(ctx, st.ID, models.StoreStatusPublished); err != nil {
		t.Fatalf("republish: %v", err)
	}
	second, _ := s.FindByID(ctx, st.ID)
	if !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Error("published_at must be stamped only once")
	}
}

func TestStorefrontDeleteCascades(t *testing.T) {
	db := testDB(t)
	s := NewStorefrontStore(db)
	ctx := context.Background()

	st := createTestStore(t, db, "hero-minimal", "footer-minimal")
	if err := s.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM store_sections WHERE store_id = $1", st.ID).Scan(&n); err != nil {
		t.Fatalf("count sections: %v", err)
	}
	if n != 0 {
		t.Errorf("expected sections to cascade, %d left", n)
	}
	if _, err := s.FindByID(ctx, st.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete: got %v", err)
	}
}
