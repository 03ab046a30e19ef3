package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// CacheEntryRepository persists [models.CacheEntry] rows keyed by cache key.
type CacheEntryRepository struct {
	db *sql.DB
}

// NewCacheEntryRepository creates a new [CacheEntryRepository] with the given database connection
func NewCacheEntryRepository(db *sql.DB) *CacheEntryRepository {
	return &CacheEntryRepository{db: db}
}

// Upsert inserts entry or fully replaces the payload and expiry of the row with the same key.
func (r *CacheEntryRepository) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if entry.ID() == "" {
		entry.SetID(shared.GenerateID())
	}

	query := `
		INSERT INTO cache_entries (id, cache_key, payload, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID(), entry.Key(), string(entry.Payload()), toMillis(entry.ExpiresAt()), entry.CreatedAt(), entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// GetByKey retrieves the entry stored under key, expired or not.
func (r *CacheEntryRepository) GetByKey(ctx context.Context, key string) (*models.CacheEntry, error) {
	query := `
		SELECT id, cache_key, payload, expires_at, created_at, updated_at
		FROM cache_entries
		WHERE cache_key = ?
	`

	var (
		id        string
		cacheKey  string
		payload   string
		expiresAt int64
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, query, key).Scan(&id, &cacheKey, &payload, &expiresAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cache key %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entry: %w", err)
	}

	entry := models.NewCacheEntry(cacheKey, []byte(payload), 0)
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	entry.SetExpiresAt(fromMillis(expiresAt))
	return entry, nil
}

// DeleteByKey removes the entry stored under key and reports how many rows were deleted.
func (r *CacheEntryRepository) DeleteByKey(ctx context.Context, key string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE cache_key = ?", key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByPrefix removes every entry whose key starts with prefix, compared byte for byte.
func (r *CacheEntryRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	query := "DELETE FROM cache_entries WHERE substr(cache_key, 1, length(?)) = ?"
	result, err := r.db.ExecContext(ctx, query, prefix, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries by prefix: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpired removes entries that expired at or before now.
func (r *CacheEntryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of stored entries, including expired ones.
func (r *CacheEntryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
