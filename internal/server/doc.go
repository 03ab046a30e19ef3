// Package server provides HTTP routing, middleware, and the JSON API over the flashcard pipeline.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with a per-path method table,
// so one path can serve several methods and unknown methods get 405 with an Allow header.
//
// # Middleware
//
//   - [RequestIDMiddleware] tags each request (and response) with an X-Request-ID
//   - [LoggingMiddleware] logs method, path, status and duration through charmbracelet/log
//   - [RecoverMiddleware] converts handler panics into JSON 500 responses
//
// # API
//
// [API] exposes a [Pipeline] (normally tasks.Engine) as JSON endpoints for flashcards, sentiment,
// and cache invalidation. [StatusFor] maps pipeline errors to status codes: input errors are 400,
// missing lyrics 404 and rejected upstream credentials 502. Degraded results (placeholder
// translations, fallback sentiment) are ordinary 200 responses.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
