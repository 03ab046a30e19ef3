// Package cache stores pipeline results per user, song and language.
//
// A [Store] wraps a [Backend] and never lets backend trouble reach the caller: read errors are
// logged and reported as misses, write errors are logged and dropped. Two backends are provided,
// [MemoryBackend] for single-process use and [SQLiteBackend] for persistence across runs.
package cache
