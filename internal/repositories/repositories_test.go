package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestCacheEntryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Upsert and GetByKey", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))
		entry := models.NewCacheEntry("flashcards:u1:song", []byte(`[{"front":"a"}]`), time.Hour)

		if err := repo.Upsert(ctx, entry); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}
		if entry.ID() == "" {
			t.Error("entry ID should be set after upsert")
		}

		got, err := repo.GetByKey(ctx, "flashcards:u1:song")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if string(got.Payload()) != `[{"front":"a"}]` {
			t.Errorf("unexpected payload %s", got.Payload())
		}
		if got.ExpiresAt().UnixMilli() != entry.ExpiresAt().UnixMilli() {
			t.Errorf("expected expiry %v, got %v", entry.ExpiresAt(), got.ExpiresAt())
		}
	})

	t.Run("Upsert replaces existing value", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))

		if err := repo.Upsert(ctx, models.NewCacheEntry("k", []byte("one"), time.Hour)); err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		if err := repo.Upsert(ctx, models.NewCacheEntry("k", []byte("two"), time.Hour)); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		got, err := repo.GetByKey(ctx, "k")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if string(got.Payload()) != "two" {
			t.Errorf("expected replaced payload, got %s", got.Payload())
		}

		if n, _ := repo.Count(ctx); n != 1 {
			t.Errorf("expected 1 row, got %d", n)
		}
	})

	t.Run("GetByKey NotFound", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))

		if _, err := repo.GetByKey(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Upsert ValidationError", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))

		if err := repo.Upsert(ctx, models.NewCacheEntry("", []byte("x"), time.Hour)); err == nil {
			t.Fatal("expected validation error for empty key")
		}
	})

	t.Run("DeleteByPrefix matches literally", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))

		for _, key := range []string{"flashcards:u1:a", "flashcards:u1:a:es", "flashcards:u10:a", "flashcards:u1_x:a", "flashcards:U1:a", "sentiment:u1:a"} {
			if err := repo.Upsert(ctx, models.NewCacheEntry(key, []byte("x"), time.Hour)); err != nil {
				t.Fatalf("upsert %s: %v", key, err)
			}
		}

		n, err := repo.DeleteByPrefix(ctx, "flashcards:u1:")
		if err != nil {
			t.Fatalf("failed to delete by prefix: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 deleted rows, got %d", n)
		}

		for _, key := range []string{"flashcards:u10:a", "flashcards:u1_x:a", "flashcards:U1:a", "sentiment:u1:a"} {
			if _, err := repo.GetByKey(ctx, key); err != nil {
				t.Errorf("expected %s to survive: %v", key, err)
			}
		}
	})

	t.Run("DeleteByKey", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))
		if err := repo.Upsert(ctx, models.NewCacheEntry("k", []byte("x"), time.Hour)); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		n, err := repo.DeleteByKey(ctx, "k")
		if err != nil || n != 1 {
			t.Fatalf("expected 1 deleted row, got %d (%v)", n, err)
		}
		if n, _ := repo.DeleteByKey(ctx, "k"); n != 0 {
			t.Errorf("expected no rows on second delete, got %d", n)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		repo := NewCacheEntryRepository(setupTestDB(t))

		stale := models.NewCacheEntry("stale", []byte("x"), time.Hour)
		stale.SetExpiresAt(time.Now().Add(-time.Minute))
		fresh := models.NewCacheEntry("fresh", []byte("x"), time.Hour)

		for _, e := range []*models.CacheEntry{stale, fresh} {
			if err := repo.Upsert(ctx, e); err != nil {
				t.Fatalf("upsert: %v", err)
			}
		}

		n, err := repo.DeleteExpired(ctx, time.Now())
		if err != nil {
			t.Fatalf("failed to delete expired: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 expired row, got %d", n)
		}
		if _, err := repo.GetByKey(ctx, "fresh"); err != nil {
			t.Errorf("fresh entry should remain: %v", err)
		}
	})
}

func TestTranslationRunRepository(t *testing.T) {
	newRun := func(user, song string) *models.TranslationRun {
		run := models.NewTranslationRun(user, song, "es")
		run.TotalLines, run.UniqueLines, run.Batches = 10, 6, 1
		return run
	}

	t.Run("Create and Get", func(t *testing.T) {
		repo := NewTranslationRunRepository(setupTestDB(t))
		run := newRun("u1", "Song")

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.UserID != "u1" || got.UniqueLines != 6 || got.SourceLanguage != "es" {
			t.Errorf("unexpected run %+v", got)
		}
	})

	t.Run("Create ValidationError", func(t *testing.T) {
		repo := NewTranslationRunRepository(setupTestDB(t))
		if err := repo.Create(newRun("", "Song")); err == nil {
			t.Fatal("expected validation error for empty user")
		}
	})

	t.Run("List filters by user", func(t *testing.T) {
		repo := NewTranslationRunRepository(setupTestDB(t))
		for _, r := range []*models.TranslationRun{newRun("u1", "A"), newRun("u1", "B"), newRun("u2", "A")} {
			if err := repo.RecordRun(r); err != nil {
				t.Fatalf("failed to record run: %v", err)
			}
		}

		runs, err := repo.List(map[string]any{"user_id": "u1"})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}

		runs, err = repo.List(map[string]any{"user_id": "u1", "song_title": "B"})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(runs) != 1 || runs[0].SongTitle != "B" {
			t.Errorf("expected only song B, got %+v", runs)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewTranslationRunRepository(setupTestDB(t))
		run := newRun("u1", "A")
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if err := repo.Delete(run.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(run.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(run.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}
