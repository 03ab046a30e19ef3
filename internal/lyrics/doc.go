// Package lyrics turns scraped song lyrics into bilingual flashcards.
//
// The pipeline runs in four steps:
//   - [Normalize] strips bracketed annotations and splits lyrics into indexed [models.LyricLine] values
//   - [Detector] guesses the source language from a sample of unique lines
//   - [BatchTranslator] translates each distinct line once, in rate-limited batches
//   - [Assemble] pairs lines with translations and filters unusable cards
//
// [ReadingAnnotator] optionally adds kana readings to Japanese cards.
package lyrics
