package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// openLegacyDB creates a database shaped like a deployment from before
// per-user attribution existed: no user_id columns anywhere.
func openLegacyDB(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "legacy.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	stmts := []string{
		"CREATE TABLE weights (day TEXT PRIMARY KEY, weight REAL NOT NULL, created_at TIMESTAMP NOT NULL);",
		"CREATE TABLE quests (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, points INTEGER NOT NULL, icon TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '', created_at TIMESTAMP NOT NULL);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create legacy schema: %v", err)
		}
	}
	return &Store{sql: db, driver: "sqlite", log: newTestLogger()}
}

func TestUpsertWeightFallsBackOnLegacySchema(t *testing.T) {
	s := openLegacyDB(t)
	ctx := context.Background()

	// The scoped insert fails on the missing user_id column; the retry
	// must land without surfacing an error.
	if err := s.UpsertWeight(ctx, domain.UserJiji, "2026-08-30", 70.2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.scopingDisabled("weights") {
		t.Fatal("fallback must cache the missing capability")
	}

	// Same day again replaces the value, still unscoped.
	if err := s.UpsertWeight(ctx, domain.UserJiji, "2026-08-30", 70.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := s.ListWeights(ctx, domain.UserJiji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 1 || samples[0].Weight != 70.0 {
		t.Fatalf("expected one sample of 70.0, got %+v", samples)
	}
}

func TestCatalogInsertFallsBackOnLegacySchema(t *testing.T) {
	s := openLegacyDB(t)
	ctx := context.Background()

	created, err := s.Quests().InsertCatalog(ctx, domain.UserBaba, domain.CatalogItem{Title: "さんぽ", Points: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created.ID.Persisted() {
		t.Fatalf("expected a store-assigned id, got %v", created.ID)
	}
	items, err := s.Quests().ListCatalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "さんぽ" {
		t.Fatalf("expected the inserted quest, got %+v", items)
	}
}

func TestMigratedSchemaStaysScoped(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "taijyu.db"), newTestLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if err := s.UpsertWeight(ctx, domain.UserJiji, "2026-08-30", 70.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpsertWeight(ctx, domain.UserBaba, "2026-08-30", 52.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.scopingDisabled("weights") {
		t.Fatal("migrated schema must keep per-user scoping")
	}

	jiji, err := s.ListWeights(ctx, domain.UserJiji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jiji) != 1 || jiji[0].Weight != 70.0 {
		t.Fatalf("expected only jiji's sample, got %+v", jiji)
	}
}
