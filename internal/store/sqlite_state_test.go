package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"linkdeck/internal/model"
)

func TestLoad_SeedsEmptyStoreOnce(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Apps) == 0 || len(db.Categories) == 0 {
		t.Fatalf("expected seeded data, got %d apps / %d categories", len(db.Apps), len(db.Categories))
	}
	assertDense(t, db)

	// Delete one app; a reload must NOT re-seed (emptiness check, not a
	// version flag).
	if err := s.DeleteApp(context.Background(), db, db.Apps[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := len(db.Apps)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Apps) != want {
		t.Fatalf("re-seeded: %d apps, want %d", len(got.Apps), want)
	}
}

func TestLoad_NoReseedAfterFullClear(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Keep categories but remove every app: still "not empty".
	db.Apps = []model.App{}
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Apps) != 0 {
		t.Fatalf("apps re-seeded: %d", len(got.Apps))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := reorderFixture()
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Apps) != 4 || len(got.Categories) != 2 {
		t.Fatalf("unexpected state: %d apps / %d categories", len(got.Apps), len(got.Categories))
	}
	// Apps come back ordered by global order.
	for i, a := range got.Apps {
		if a.GlobalOrder != i {
			t.Fatalf("apps[%d].GlobalOrder = %d", i, a.GlobalOrder)
		}
	}
}

func TestLoad_ImportsLegacyDBJSONOnce(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
		"apps": [
			{"id":"x","name":"X","url":"https://x.example","icon":"Globe","categoryId":"cat1","order":5}
		],
		"categories": [
			{"id":"cat1","name":"Cat","icon":"Code","order":0}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "db.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write db.json: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Apps) != 1 || db.Apps[0].ID != "x" {
		t.Fatalf("legacy import failed: %+v", db.Apps)
	}
	// Seed data must not be mixed in.
	if len(db.Categories) != 1 {
		t.Fatalf("unexpected categories: %+v", db.Categories)
	}
}

func TestLoad_UpgradesLegacyOrderLayout(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
		"apps": [
			{"id":"x","name":"X","url":"https://x.example","icon":"Globe","categoryId":"cat1","order":5}
		],
		"categories": [
			{"id":"cat1","name":"Cat","icon":"Code","order":0}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "db.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write db.json: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, ok := db.FindApp("x")
	if !ok {
		t.Fatal("app x missing after upgrade")
	}
	if a.GlobalOrder != 5 {
		t.Fatalf("globalOrder = %d, want 5", a.GlobalOrder)
	}
	if got := a.CategoryOrder["cat1"]; got != 5 {
		t.Fatalf("categoryOrder[cat1] = %d, want 5", got)
	}
	if a.LegacyOrder != nil {
		t.Fatal("legacy order field must be absent after upgrade")
	}

	// The upgrade must be persisted, not recomputed every load.
	got, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	b, _ := got.FindApp("x")
	if b.LegacyOrder != nil || b.CategoryOrder["cat1"] != 5 {
		t.Fatalf("upgrade not persisted: %+v", b)
	}
}

func TestLoad_UpgradesLegacyRowsInSQLite(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	five := 5
	// Write rows still on the single-order layout straight into the table.
	apps := []model.App{{
		ID: "x", Name: "X", URL: "https://x.example", Icon: "Globe",
		CategoryID: "cat1", LegacyOrder: &five,
	}}
	if err := s.SaveApps(context.Background(), apps); err != nil {
		t.Fatalf("save legacy rows: %v", err)
	}

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, ok := db.FindApp("x")
	if !ok {
		t.Fatal("app x missing")
	}
	if a.GlobalOrder != 5 || a.CategoryOrder["cat1"] != 5 || a.LegacyOrder != nil {
		t.Fatalf("bad upgrade: %+v", a)
	}
}

func TestUpgradeLegacyOrders_InMemory(t *testing.T) {
	five := 5
	db := &DB{Apps: []model.App{{
		ID: "x", Name: "X", URL: "u", Icon: "i", CategoryID: "cat1",
		LegacyOrder: &five,
	}}}
	if !upgradeLegacyOrders(db) {
		t.Fatal("expected a change")
	}
	a := db.Apps[0]
	if a.GlobalOrder != 5 || a.CategoryOrder["cat1"] != 5 || a.LegacyOrder != nil {
		t.Fatalf("bad upgrade: %+v", a)
	}
	// Idempotent.
	if upgradeLegacyOrders(db) {
		t.Fatal("second upgrade must be a no-op")
	}
}

func TestDeleteAppsWhere_RestoresDensity(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := reorderFixture()
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := s.DeleteAppsWhere(context.Background(), db, func(a model.App) bool { return a.ID == "3" })
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := db.FindApp("3"); ok {
		t.Fatal("app 3 still present")
	}
	assertDense(t, db)
}
