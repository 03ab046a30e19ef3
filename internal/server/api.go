package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
)

// Pipeline is the flashcard and sentiment engine served by the API.
//
// Implemented by [tasks.Engine].
type Pipeline interface {
	GetFlashcards(ctx context.Context, req tasks.FlashcardRequest) ([]models.Flashcard, error)
	GetSentiment(ctx context.Context, req tasks.SentimentRequest) (models.SentimentResult, error)
	Invalidate(ctx context.Context, userID, songTitle string) error
	InvalidateUser(ctx context.Context, userID string) error
}

// API serves the pipeline as JSON over HTTP.
//
//	GET    /health
//	GET    /flashcards?user=&song=&lyrics=[&language=][&format=json|csv|markdown|txt]
//	GET    /sentiment?user=&song=[&artist=][&lyrics=&language=]
//	DELETE /cache?user=[&song=]
type API struct {
	pipeline Pipeline
	logger   *log.Logger
}

// NewAPI creates an [API] for pipeline.
func NewAPI(pipeline Pipeline, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &API{pipeline: pipeline, logger: logger}
}

// Register adds the API routes to router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(a.health))
	router.Handle(http.MethodGet, "/flashcards", http.HandlerFunc(a.flashcards))
	router.Handle(http.MethodGet, "/sentiment", http.HandlerFunc(a.sentiment))
	router.Handle(http.MethodDelete, "/cache", http.HandlerFunc(a.invalidate))
}

// NewHandler builds a router with request id, logging and recovery middleware and the API routes.
func NewHandler(pipeline Pipeline, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	router := NewBasicRouter()
	router.Use(RequestIDMiddleware(), LoggingMiddleware(logger), RecoverMiddleware(logger))
	NewAPI(pipeline, logger).Register(router)
	return router
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) flashcards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := formatter.ParseFormat(q.Get("format"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	req := tasks.FlashcardRequest{
		UserID:    q.Get("user"),
		SongTitle: q.Get("song"),
		LyricsRef: q.Get("lyrics"),
		Language:  q.Get("language"),
	}
	cards, err := a.pipeline.GetFlashcards(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	deck := &models.Deck{
		UserID:    req.UserID,
		SongTitle: req.SongTitle,
		Language:  strings.ToLower(req.Language),
		Cards:     cards,
	}
	if format == formatter.FormatJSON {
		writeJSON(w, http.StatusOK, deck)
		return
	}

	data, err := formatter.Export(deck, format)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) sentiment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := a.pipeline.GetSentiment(r.Context(), tasks.SentimentRequest{
		UserID:    q.Get("user"),
		SongTitle: q.Get("song"),
		Artist:    q.Get("artist"),
		LyricsRef: q.Get("lyrics"),
		Language:  q.Get("language"),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) invalidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user, song := q.Get("user"), q.Get("song")

	var err error
	scope := "song"
	if song == "" {
		scope = "user"
		err = a.pipeline.InvalidateUser(r.Context(), user)
	} else {
		err = a.pipeline.Invalidate(r.Context(), user, song)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"invalidated": scope, "user": user, "song": song})
}

// fail maps err to a status code and writes it as a JSON error.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request error", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	writeError(w, status, err.Error())
}

// StatusFor returns the HTTP status for a pipeline error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, lyrics.ErrEmptyLyrics):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrLyricsNotFound):
		return http.StatusNotFound
	case errors.Is(err, lyrics.ErrTranslationRejected),
		errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f formatter.Format) string {
	switch f {
	case formatter.FormatCSV:
		return "text/csv; charset=utf-8"
	case formatter.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case formatter.FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
