package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/cache"
	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/sentiment"
	"github.com/desertthunder/lyrx/internal/shared"
)

// LyricsSource provides the raw lyric text for an opaque reference (URL, file path, ...).
type LyricsSource interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// RunRecorder persists translation accounting for a generated deck.
//
// Implemented by repositories.TranslationRunRepository.
type RunRecorder interface {
	RecordRun(run *models.TranslationRun) error
}

// FlashcardRequest identifies the song whose lyrics become flashcards.
type FlashcardRequest struct {
	UserID    string
	SongTitle string
	LyricsRef string
	Language  string                // optional source language override
	Progress  chan<- ProgressUpdate // optional
}

// SentimentRequest identifies the song whose mood is analyzed.
//
// Flashcards supplies the translated lines. When empty and LyricsRef is set, the
// flashcards are generated (or read from cache) first.
type SentimentRequest struct {
	UserID     string
	SongTitle  string
	Artist     string
	Flashcards []models.Flashcard
	LyricsRef  string
	Language   string
	Progress   chan<- ProgressUpdate
}

// Options holds the optional collaborators and tuning of an [Engine].
type Options struct {
	Batch     lyrics.BatchOptions
	Sentiment sentiment.Options
	Readings  lyrics.ReadingLoader // nil disables Japanese readings
	Runs      RunRecorder          // nil disables run accounting
	Logger    *log.Logger
}

// Engine runs the flashcard and sentiment pipelines against injected services and cache.
type Engine struct {
	source     LyricsSource
	store      *cache.Store
	translator lyrics.Translator
	analyzer   *sentiment.Analyzer
	detector   *lyrics.Detector
	readings   lyrics.ReadingLoader
	runs       RunRecorder
	batch      lyrics.BatchOptions
	logger     *log.Logger
}

// NewEngine creates an [Engine]. A nil store caches in memory.
func NewEngine(source LyricsSource, store *cache.Store, translator lyrics.Translator, classifier sentiment.Classifier, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	if store == nil {
		store = cache.NewStore(cache.NewMemoryBackend(), cache.Options{Logger: logger})
	}
	if opts.Sentiment.Logger == nil {
		opts.Sentiment.Logger = logger
	}

	return &Engine{
		source:     source,
		store:      store,
		translator: translator,
		analyzer:   sentiment.NewAnalyzer(classifier, opts.Sentiment),
		detector:   lyrics.NewDetector(),
		readings:   opts.Readings,
		runs:       opts.Runs,
		batch:      opts.Batch,
		logger:     logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// GetFlashcards returns the flashcards for a song, serving the cache first.
//
// Repeated calls with the same user, song and language return the cached deck without
// contacting the translation service until the song is invalidated or the entry expires.
func (e *Engine) GetFlashcards(ctx context.Context, req FlashcardRequest) ([]models.Flashcard, error) {
	if req.UserID == "" || req.SongTitle == "" {
		return nil, fmt.Errorf("%w: user id and song title are required", shared.ErrMissingArgument)
	}

	override := cacheLanguage(req.Language)
	logger := shared.WithLogger(e.logger, "request_id", shared.GenerateID(), "user", req.UserID, "song", req.SongTitle)

	if cards, ok := e.store.GetFlashcards(ctx, req.UserID, req.SongTitle, override); ok {
		logger.Debug("flashcard cache hit", "cards", len(cards))
		e.sendProgress(req.Progress, cacheHitUpdate(Assemble, req.SongTitle))
		return cards, nil
	}

	if req.LyricsRef == "" {
		return nil, fmt.Errorf("%w: lyrics reference is required", shared.ErrMissingArgument)
	}

	e.sendProgress(req.Progress, fetchLyricsUpdate(req.LyricsRef))
	raw, err := e.source.Fetch(ctx, req.LyricsRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lyrics: %w", err)
	}

	lines, err := lyrics.Normalize(raw)
	if err != nil {
		return nil, err
	}
	e.sendProgress(req.Progress, normalizeUpdate(len(lines)))

	language := e.detector.ResolveLanguage(override, lyrics.NewUniqueLineTable(lines).Texts())
	e.sendProgress(req.Progress, detectLanguageUpdate(language, override != ""))
	logger.Info("generating flashcards", "lines", len(lines), "language", language)

	opts := e.batch
	opts.Logger = logger
	opts.OnBatch = func(done, total int) {
		e.sendProgress(req.Progress, translateBatchUpdate(done, total))
	}

	translated, err := lyrics.NewBatchTranslator(e.translator, opts).Translate(ctx, lines, language)
	if err != nil {
		return nil, err
	}

	cards, stats := lyrics.Assemble(lines, translated.Translations)
	stats.Log(logger)
	e.sendProgress(req.Progress, assembleUpdate(len(cards)))

	if language == lyrics.ReadingLanguage && e.readings != nil {
		if annotator, err := e.readings(); err != nil {
			logger.Warn("japanese readings unavailable", "error", err)
		} else {
			cards = annotator.Annotate(cards)
			e.sendProgress(req.Progress, annotateUpdate(len(cards)))
		}
	}

	e.recordRun(logger, req, language, translated)
	e.store.SetFlashcards(ctx, req.UserID, req.SongTitle, override, cards)
	return cards, nil
}

// GetSentiment returns the mood of a song, serving the cache first.
//
// Classifier failures never surface as errors: the fixed fallback result is returned
// but not cached, so the next request classifies again.
func (e *Engine) GetSentiment(ctx context.Context, req SentimentRequest) (models.SentimentResult, error) {
	if req.UserID == "" || req.SongTitle == "" {
		return models.SentimentResult{}, fmt.Errorf("%w: user id and song title are required", shared.ErrMissingArgument)
	}

	logger := shared.WithLogger(e.logger, "request_id", shared.GenerateID(), "user", req.UserID, "song", req.SongTitle)

	if result, ok := e.store.GetSentiment(ctx, req.UserID, req.SongTitle); ok {
		logger.Debug("sentiment cache hit", "sentiment", result.Sentiment)
		e.sendProgress(req.Progress, cacheHitUpdate(AnalyzeSentiment, req.SongTitle))
		return result, nil
	}

	cards := req.Flashcards
	if len(cards) == 0 {
		if req.LyricsRef == "" {
			return models.SentimentResult{}, fmt.Errorf("%w: flashcards or lyrics reference are required", shared.ErrMissingArgument)
		}

		var err error
		cards, err = e.GetFlashcards(ctx, FlashcardRequest{
			UserID:    req.UserID,
			SongTitle: req.SongTitle,
			LyricsRef: req.LyricsRef,
			Language:  req.Language,
			Progress:  req.Progress,
		})
		if err != nil {
			return models.SentimentResult{}, err
		}
	}

	e.sendProgress(req.Progress, analyzeUpdate(req.SongTitle))
	result := e.analyzer.Analyze(ctx, sentiment.TextFromFlashcards(cards))
	if err := ctx.Err(); err != nil {
		return models.SentimentResult{}, err
	}

	logger.Info("analyzed sentiment", "artist", req.Artist, "sentiment", result.Sentiment, "primary", result.PrimaryEmotion, "fallback", result.Fallback)
	if !result.Fallback {
		e.store.SetSentiment(ctx, req.UserID, req.SongTitle, result)
	}
	return result, nil
}

// Invalidate removes cached flashcards in every language variant, and the sentiment, for a song.
func (e *Engine) Invalidate(ctx context.Context, userID, songTitle string) error {
	if userID == "" || songTitle == "" {
		return fmt.Errorf("%w: user id and song title are required", shared.ErrMissingArgument)
	}
	return e.store.InvalidateSong(ctx, userID, songTitle)
}

// InvalidateUser removes every cached result for a user.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrMissingArgument)
	}
	_, err := e.store.InvalidateUser(ctx, userID)
	return err
}

// recordRun stores translation accounting. Failures are logged only.
func (e *Engine) recordRun(logger *log.Logger, req FlashcardRequest, language string, result *lyrics.TranslationResult) {
	if e.runs == nil {
		return
	}

	run := models.NewTranslationRun(req.UserID, req.SongTitle, language)
	run.TotalLines = result.Table.Positions()
	run.UniqueLines = result.Table.Len()
	run.Batches = result.Batches
	run.FailedBatches = result.FailedBatches

	if err := e.runs.RecordRun(run); err != nil {
		logger.Warn("failed to record translation run", "err", err)
	}
}

// cacheLanguage normalizes a language override for cache keys; "auto" means no override.
func cacheLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == lyrics.DefaultLanguage {
		return ""
	}
	return language
}
