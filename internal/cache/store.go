package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	DefaultFlashcardTTL = 24 * time.Hour
	DefaultSentimentTTL = 7 * 24 * time.Hour

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Options configures a [Store].
type Options struct {
	FlashcardTTL time.Duration
	SentimentTTL time.Duration
	Logger       *log.Logger
}

// Store reads and writes typed pipeline results through a [Backend].
type Store struct {
	backend      Backend
	flashcardTTL time.Duration
	sentimentTTL time.Duration
	logger       *log.Logger
}

// NewStore wraps backend. Zero TTLs fall back to the namespace defaults.
func NewStore(backend Backend, opts Options) *Store {
	s := &Store{
		backend:      backend,
		flashcardTTL: opts.FlashcardTTL,
		sentimentTTL: opts.SentimentTTL,
		logger:       opts.Logger,
	}
	if s.flashcardTTL <= 0 {
		s.flashcardTTL = DefaultFlashcardTTL
	}
	if s.sentimentTTL <= 0 {
		s.sentimentTTL = DefaultSentimentTTL
	}
	if s.logger == nil {
		s.logger = shared.DiscardLogger()
	}
	return s
}

// Open creates a [Store] on the backend named in cfg. The sqlite backend opens and migrates
// the database described by dbCfg and closes it with the store.
func Open(cfg shared.CacheConfig, dbCfg shared.DatabaseConfig, logger *log.Logger) (*Store, error) {
	opts := Options{FlashcardTTL: cfg.FlashcardTTL.Duration, SentimentTTL: cfg.SentimentTTL.Duration, Logger: logger}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMemory:
		return NewStore(NewMemoryBackend(), opts), nil
	case BackendSQLite, "":
		db, err := shared.OpenDatabase(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache database: %w", err)
		}
		backend := NewSQLiteBackend(db)
		backend.closer = db.Close
		return NewStore(backend, opts), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// GetFlashcards returns cached flashcards for the song, or false on a miss.
func (s *Store) GetFlashcards(ctx context.Context, userID, songTitle, language string) ([]models.Flashcard, bool) {
	return getJSON[[]models.Flashcard](ctx, s, FlashcardKey(userID, songTitle, language))
}

// SetFlashcards caches flashcards for the song, replacing any previous value.
func (s *Store) SetFlashcards(ctx context.Context, userID, songTitle, language string, cards []models.Flashcard) {
	setJSON(ctx, s, FlashcardKey(userID, songTitle, language), cards, s.flashcardTTL)
}

// GetSentiment returns the cached sentiment for the song, or false on a miss.
func (s *Store) GetSentiment(ctx context.Context, userID, songTitle string) (models.SentimentResult, bool) {
	return getJSON[models.SentimentResult](ctx, s, SentimentKey(userID, songTitle))
}

// SetSentiment caches the sentiment for the song, replacing any previous value.
func (s *Store) SetSentiment(ctx context.Context, userID, songTitle string, result models.SentimentResult) {
	setJSON(ctx, s, SentimentKey(userID, songTitle), result, s.sentimentTTL)
}

// InvalidateSong removes the song's flashcards in every language and its sentiment.
func (s *Store) InvalidateSong(ctx context.Context, userID, songTitle string) error {
	flashcards := FlashcardKey(userID, songTitle, "")
	sentiment := SentimentKey(userID, songTitle)

	if err := s.backend.Delete(ctx, flashcards.String()); err != nil {
		return fmt.Errorf("failed to invalidate flashcards: %w", err)
	}
	variants, err := s.backend.DeletePrefix(ctx, flashcards.VariantPrefix())
	if err != nil {
		return fmt.Errorf("failed to invalidate flashcard variants: %w", err)
	}
	if err := s.backend.Delete(ctx, sentiment.String()); err != nil {
		return fmt.Errorf("failed to invalidate sentiment: %w", err)
	}

	s.logger.Info("invalidated song", "user", userID, "song", songTitle, "language_variants", variants)
	return nil
}

// InvalidateUser removes every cached result for userID.
func (s *Store) InvalidateUser(ctx context.Context, userID string) (int, error) {
	total := 0
	for _, ns := range []string{NamespaceFlashcards, NamespaceSentiment} {
		n, err := s.backend.DeletePrefix(ctx, UserPrefix(ns, userID))
		if err != nil {
			return total, fmt.Errorf("failed to invalidate %s for user: %w", ns, err)
		}
		total += n
	}

	s.logger.Info("invalidated user", "user", userID, "entries", total)
	return total, nil
}

// Purge removes expired entries from the backend.
func (s *Store) Purge(ctx context.Context) (int, error) {
	n, err := s.backend.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return n, nil
}

func getJSON[T any](ctx context.Context, s *Store, key Key) (T, bool) {
	var value T

	data, ok, err := s.backend.Get(ctx, key.String())
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss", "key", key.String(), "err", err)
		return value, false
	}
	if !ok {
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("cache entry undecodable, treating as miss", "key", key.String(), "err", err)
		var zero T
		return zero, false
	}
	return value, true
}

func setJSON(ctx context.Context, s *Store, key Key, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key.String(), "err", err)
		return
	}
	if err := s.backend.Set(ctx, key.String(), data, ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key.String(), "err", err)
	}
}
