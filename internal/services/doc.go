// Package services implements the external capabilities the lyric pipeline consumes.
//
// # Translation
//
// [TranslateClient] talks to a LibreTranslate-compatible API and implements [lyrics.Translator].
// Requests carry an api_key, or an OAuth2 client-credentials bearer token when a token URL is configured.
// Token refreshes go through [RetryingTokenSource] so a flaky token endpoint gets the same backoff as the API.
//
// # Emotion Classification
//
// [EmotionClient] calls a Hugging Face inference endpoint and implements [sentiment.Classifier].
// A missing API token is reported as a client error without any network call.
//
// # Lyrics Sources
//
// [PageLyricsSource] fetches a web page and extracts its main text with go-readability.
// [FileLyricsSource] reads lyrics from disk. [NewLyricsSource] routes URLs to the former and paths to the latter.
//
// # Error Handling
//
// Every HTTP boundary converts responses into [retry.Failure] values:
//   - 429 : [retry.RateLimited], retried honoring Retry-After
//   - 5xx : [retry.ServerError], retried
//   - other 4xx : [retry.ClientError], not retried
//   - network errors and timeouts : [retry.Transport], retried
package services
