package models

import (
	"fmt"
	"strings"
	"time"
)

// CacheEntry is a persisted pipeline result keyed by its cache key string.
type CacheEntry struct {
	base
	key       string
	payload   []byte
	expiresAt time.Time
}

// NewCacheEntry creates a [CacheEntry] that expires after ttl.
func NewCacheEntry(key string, payload []byte, ttl time.Duration) *CacheEntry {
	b := newBase()
	return &CacheEntry{base: b, key: key, payload: payload, expiresAt: b.createdAt.Add(ttl)}
}

func (e *CacheEntry) Key() string { return e.key }
func (e *CacheEntry) Payload() []byte { return e.payload }
func (e *CacheEntry) ExpiresAt() time.Time { return e.expiresAt }
func (e *CacheEntry) SetExpiresAt(t time.Time) { e.expiresAt = t }

// Expired reports whether the entry is no longer valid at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Validate checks that the entry has a key and a payload.
func (e *CacheEntry) Validate() error {
	if strings.TrimSpace(e.key) == "" {
		return fmt.Errorf("cache entry key is required")
	}
	if len(e.payload) == 0 {
		return fmt.Errorf("cache entry payload is required")
	}
	return nil
}

// TranslationRun records how one flashcard generation used the translation service.
type TranslationRun struct {
	base
	UserID         string
	SongTitle      string
	SourceLanguage string
	TotalLines     int
	UniqueLines    int
	Batches        int
	FailedBatches  int
}

// NewTranslationRun creates a [TranslationRun] for the given song.
func NewTranslationRun(userID, songTitle, sourceLanguage string) *TranslationRun {
	return &TranslationRun{base: newBase(), UserID: userID, SongTitle: songTitle, SourceLanguage: sourceLanguage}
}

// Validate checks identity fields and counter consistency.
func (r *TranslationRun) Validate() error {
	if r.UserID == "" || r.SongTitle == "" {
		return fmt.Errorf("translation run requires user and song title")
	}
	if r.UniqueLines > r.TotalLines {
		return fmt.Errorf("unique lines (%d) exceed total lines (%d)", r.UniqueLines, r.TotalLines)
	}
	if r.FailedBatches > r.Batches {
		return fmt.Errorf("failed batches (%d) exceed batches (%d)", r.FailedBatches, r.Batches)
	}
	return nil
}
