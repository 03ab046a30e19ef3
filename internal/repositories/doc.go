// Package repositories implements SQLite persistence for cached pipeline results and translation audit records.
//
// Key Implementations:
//   - [CacheEntryRepository] : Keyed cache rows with expiry, prefix deletion and purge of expired rows
//   - [TranslationRunRepository] : Per-invocation record of translation service usage
//
// Expiry timestamps are stored as unix milliseconds so they compare as integers in SQL.
package repositories
