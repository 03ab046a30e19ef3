// Package models defines domain entities and persistence interfaces for the lyrx flashcard and sentiment pipeline.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Request-scoped values that flow through the pipeline
//   - [LyricLine] : A normalized, non-empty lyric line with its position
//   - [Flashcard] : An original line paired with its English translation
//   - [SentimentResult] : Mood summary of a song with its top emotions
//   - [EmotionLabel] : Raw label/score pair returned by an emotion classifier
//
// 2. Persistent Entities: Database-backed models with timestamps and validation
//   - [CacheEntry] : A cached, JSON-encoded pipeline result with an expiry
//   - [TranslationRun] : Audit record of one translation invocation
//
// Persistent entities implement the Model interface. The Repository[T] interface defines standard CRUD operations for database access.
package models
