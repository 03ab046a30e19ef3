package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/repositories"
)

// SQLiteBackend is a [Backend] persisted in the cache_entries table.
type SQLiteBackend struct {
	repo   *repositories.CacheEntryRepository
	closer func() error
	now    func() time.Time
}

// NewSQLiteBackend creates a backend on an open, migrated database. The caller keeps ownership of db.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{repo: repositories.NewCacheEntryRepository(db), now: time.Now}
}

// WithClock replaces the backend's time source.
func (b *SQLiteBackend) WithClock(now func() time.Time) *SQLiteBackend {
	b.now = now
	return b
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := b.repo.GetByKey(ctx, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry.Expired(b.now()) {
		return nil, false, nil
	}
	return entry.Payload(), true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := models.NewCacheEntry(key, value, ttl)
	entry.SetExpiresAt(b.now().Add(ttl))
	return b.repo.Upsert(ctx, entry)
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	_, err := b.repo.DeleteByKey(ctx, key)
	return err
}

func (b *SQLiteBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	n, err := b.repo.DeleteByPrefix(ctx, prefix)
	return int(n), err
}

func (b *SQLiteBackend) Purge(ctx context.Context) (int, error) {
	n, err := b.repo.DeleteExpired(ctx, b.now())
	return int(n), err
}

// Close closes the database when the backend opened it itself.
func (b *SQLiteBackend) Close() error {
	if b.closer != nil {
		return b.closer()
	}
	return nil
}
