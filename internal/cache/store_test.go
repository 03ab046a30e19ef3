package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

type failingBackend struct {
	MemoryBackend
}

func (*failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (*failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("disk full")
}

var sampleCards = []models.Flashcard{
	{Front: "Te quiero", Back: "I love you"},
	{Front: "Adiós", Back: "Goodbye"},
}

func TestStoreFlashcards(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := NewStore(NewMemoryBackend(), Options{})

		if _, ok := store.GetFlashcards(ctx, "u1", "Song", ""); ok {
			t.Fatal("expected miss on empty store")
		}

		store.SetFlashcards(ctx, "u1", "Song", "", sampleCards)

		got, ok := store.GetFlashcards(ctx, "u1", "Song", "")
		if !ok {
			t.Fatal("expected hit after set")
		}
		if len(got) != 2 || got[0] != sampleCards[0] {
			t.Errorf("unexpected cards %+v", got)
		}

		if _, ok := store.GetFlashcards(ctx, "u1", "Song", "es"); ok {
			t.Error("language variants are separate entries")
		}
		if _, ok := store.GetFlashcards(ctx, "u2", "Song", ""); ok {
			t.Error("entries are per user")
		}
	})

	t.Run("backend errors are misses", func(t *testing.T) {
		store := NewStore(&failingBackend{}, Options{})

		store.SetFlashcards(ctx, "u1", "Song", "", sampleCards)
		if _, ok := store.GetFlashcards(ctx, "u1", "Song", ""); ok {
			t.Error("expected miss when backend fails")
		}
	})

	t.Run("undecodable payload is a miss", func(t *testing.T) {
		backend := NewMemoryBackend()
		store := NewStore(backend, Options{})

		if err := backend.Set(ctx, FlashcardKey("u1", "Song", "").String(), []byte("{not json"), time.Hour); err != nil {
			t.Fatalf("set: %v", err)
		}
		if _, ok := store.GetFlashcards(ctx, "u1", "Song", ""); ok {
			t.Error("expected miss for corrupt entry")
		}
	})

	t.Run("namespace ttl applies", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		store := NewStore(NewMemoryBackend().WithClock(clock.Now), Options{FlashcardTTL: time.Hour})

		store.SetFlashcards(ctx, "u1", "Song", "", sampleCards)
		store.SetSentiment(ctx, "u1", "Song", models.SentimentResult{Sentiment: "Positive"})

		clock.Advance(2 * time.Hour)

		if _, ok := store.GetFlashcards(ctx, "u1", "Song", ""); ok {
			t.Error("flashcards should expire after their ttl")
		}
		if _, ok := store.GetSentiment(ctx, "u1", "Song"); !ok {
			t.Error("sentiment should outlive flashcards")
		}
	})
}

func TestStoreInvalidation(t *testing.T) {
	ctx := context.Background()

	seed := func(store *Store) {
		for _, song := range []string{"Song", "Song 2", "Song:es"} {
			store.SetFlashcards(ctx, "u1", song, "", sampleCards)
			store.SetSentiment(ctx, "u1", song, models.SentimentResult{Sentiment: "Neutral"})
		}
		store.SetFlashcards(ctx, "u1", "Song", "es", sampleCards)
		store.SetFlashcards(ctx, "u1", "Song", "fr", sampleCards)
		store.SetFlashcards(ctx, "u2", "Song", "", sampleCards)
	}

	t.Run("InvalidateSong", func(t *testing.T) {
		store := NewStore(NewMemoryBackend(), Options{})
		seed(store)

		if err := store.InvalidateSong(ctx, "u1", "Song"); err != nil {
			t.Fatalf("invalidate: %v", err)
		}

		for _, lang := range []string{"", "es", "fr"} {
			if _, ok := store.GetFlashcards(ctx, "u1", "Song", lang); ok {
				t.Errorf("flashcards for language %q should be gone", lang)
			}
		}
		if _, ok := store.GetSentiment(ctx, "u1", "Song"); ok {
			t.Error("sentiment should be invalidated with the song")
		}

		for _, song := range []string{"Song 2", "Song:es"} {
			if _, ok := store.GetFlashcards(ctx, "u1", song, ""); !ok {
				t.Errorf("flashcards for %q should survive", song)
			}
		}
		if _, ok := store.GetFlashcards(ctx, "u2", "Song", ""); !ok {
			t.Error("other users should be untouched")
		}
	})

	t.Run("InvalidateUser", func(t *testing.T) {
		store := NewStore(NewMemoryBackend(), Options{})
		seed(store)

		n, err := store.InvalidateUser(ctx, "u1")
		if err != nil {
			t.Fatalf("invalidate user: %v", err)
		}
		if n != 8 {
			t.Errorf("expected 8 entries removed, got %d", n)
		}
		if _, ok := store.GetFlashcards(ctx, "u2", "Song", ""); !ok {
			t.Error("other users should be untouched")
		}
	})

	t.Run("identities are case sensitive", func(t *testing.T) {
		testBackends(t, func(t *testing.T, b Backend, clock *fakeClock) {
			store := NewStore(b, Options{})
			store.SetFlashcards(ctx, "Alice", "Song", "es", sampleCards)
			store.SetFlashcards(ctx, "alice", "song", "es", sampleCards)
			store.SetSentiment(ctx, "Alice", "Song", models.SentimentResult{Sentiment: "Neutral"})
			store.SetFlashcards(ctx, "Bob", "Song", "", sampleCards)
			store.SetFlashcards(ctx, "bob", "Song", "", sampleCards)

			if err := store.InvalidateSong(ctx, "alice", "song"); err != nil {
				t.Fatalf("invalidate: %v", err)
			}
			if _, ok := store.GetFlashcards(ctx, "alice", "song", "es"); ok {
				t.Error("alice/song should be invalidated")
			}
			if _, ok := store.GetFlashcards(ctx, "Alice", "Song", "es"); !ok {
				t.Error("Alice/Song flashcards should survive")
			}
			if _, ok := store.GetSentiment(ctx, "Alice", "Song"); !ok {
				t.Error("Alice/Song sentiment should survive")
			}

			n, err := store.InvalidateUser(ctx, "bob")
			if err != nil {
				t.Fatalf("invalidate user: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 entry removed, got %d", n)
			}
			if _, ok := store.GetFlashcards(ctx, "Bob", "Song", ""); !ok {
				t.Error("Bob should be untouched")
			}
		})
	})
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := Open(shared.CacheConfig{Backend: "memory"}, shared.DatabaseConfig{}, nil)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		if _, ok := store.Backend().(*MemoryBackend); !ok {
			t.Errorf("expected memory backend, got %T", store.Backend())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		dbCfg := shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1}
		store, err := Open(shared.CacheConfig{Backend: "sqlite"}, dbCfg, nil)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		store.SetFlashcards(context.Background(), "u1", "Song", "", sampleCards)
		if _, ok := store.GetFlashcards(context.Background(), "u1", "Song", ""); !ok {
			t.Error("expected hit from sqlite store")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(shared.CacheConfig{Backend: "redis"}, shared.DatabaseConfig{}, nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
