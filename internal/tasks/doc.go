// Package tasks runs the lyric flashcard and sentiment pipelines with real-time progress reporting.
//
// # Core Operations
//
// [Engine] exposes four operations:
//
//  1. [Engine.GetFlashcards] : lyrics → flashcards
//     - Serves a cached deck for (user, song, language) when present
//     - Fetches and normalizes lyrics, resolving the source language unless forced
//     - Translates each distinct line once in paced batches, then assembles cards
//     - Adds kana readings for Japanese lyrics and caches the result
//
//  2. [Engine.GetSentiment] : flashcards → mood
//     - Serves a cached result for (user, song) when present
//     - Classifies the distinct translated lines; failures yield the fixed fallback
//
//  3. [Engine.Invalidate] and [Engine.InvalidateUser] : drop cached results for a song or a user
//
//  4. [Engine.BulkGenerate] : many songs through a bounded worker pool, written to disk
//
// # Progress Reporting
//
// Requests carry an optional channel for progress updates. The [ProgressUpdate] struct contains
// phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Degradation
//
// Cache failures are logged and treated as misses. Transient translation failures become
// placeholder backs and transient classifier failures become the fallback sentiment.
// Only missing input and rejected credentials are returned as errors.
package tasks
