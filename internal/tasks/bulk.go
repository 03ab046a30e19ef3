package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// BulkSong is one entry of a bulk generation manifest.
type BulkSong struct {
	Title     string `json:"title" toml:"title"`
	Artist    string `json:"artist,omitempty" toml:"artist"`
	LyricsRef string `json:"lyrics" toml:"lyrics"`
	Language  string `json:"language,omitempty" toml:"language"`
}

// BulkOpts contains configuration for bulk flashcard generation.
type BulkOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: lyrx_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 3)
	RateLimit  float64          // Songs started per second (default: 2)
	Sentiment  bool             // Also analyze and export each song's mood
}

// BulkSongResult is the outcome for one song.
type BulkSongResult struct {
	Title     string `json:"title"`
	Artist    string `json:"artist,omitempty"`
	Cards     int    `json:"cards"`
	File      string `json:"file,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BulkResult summarizes a bulk run.
type BulkResult struct {
	UserID          string           `json:"userId"`
	TotalSongs      int              `json:"totalSongs"`
	Duplicates      int              `json:"duplicates"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	OutputDirectory string           `json:"outputDirectory"`
	ManifestPath    string           `json:"-"`
	Results         []BulkSongResult `json:"results"`
}

// BulkGenerate generates and exports flashcards for many songs concurrently with rate limiting and progress tracking.
//
// Songs are deduplicated by normalized title and artist. Each song still runs the
// sequential single-song pipeline; only songs run in parallel. Failures are recorded per song
// and a manifest summarizing the run is written to the output directory.
func (e *Engine) BulkGenerate(ctx context.Context, prog chan<- ProgressUpdate, userID string, songs []BulkSong, opts BulkOpts) (*BulkResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrMissingArgument)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("lyrx_export_%d", time.Now().Unix())
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	unique := dedupeSongs(songs)
	result := &BulkResult{
		UserID:          userID,
		TotalSongs:      len(unique),
		Duplicates:      len(songs) - len(unique),
		OutputDirectory: opts.OutputDir,
		Results:         make([]BulkSongResult, 0, len(unique)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan BulkSong, len(unique))
	results := make(chan BulkSongResult, len(unique))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.bulkWorker(ctx, &wg, userID, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, bulkStartedUpdate(len(unique)))
		for _, song := range unique {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- song
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			e.sendProgress(prog, bulkCompletedUpdate(completed, len(unique), res.Title, res.Cards))
		} else {
			result.Failed++
			e.sendProgress(prog, bulkFailedUpdate(completed, len(unique), res.Title, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("generation completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// bulkWorker is a worker goroutine that generates decks from the jobs channel.
func (e *Engine) bulkWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	userID string,
	jobs <-chan BulkSong,
	results chan<- BulkSongResult,
	opts BulkOpts,
) {
	defer wg.Done()

	for song := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.generateSong(ctx, userID, song, opts)
	}
}

// generateSong runs the pipeline for a single song and writes its deck.
func (e *Engine) generateSong(ctx context.Context, userID string, song BulkSong, opts BulkOpts) BulkSongResult {
	result := BulkSongResult{Title: song.Title, Artist: song.Artist}

	cards, err := e.GetFlashcards(ctx, FlashcardRequest{
		UserID:    userID,
		SongTitle: song.Title,
		LyricsRef: song.LyricsRef,
		Language:  song.Language,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Cards = len(cards)

	deck := &models.Deck{
		UserID:    userID,
		SongTitle: song.Title,
		Artist:    song.Artist,
		Language:  cacheLanguage(song.Language),
		Cards:     cards,
	}

	if opts.Sentiment {
		mood, err := e.GetSentiment(ctx, SentimentRequest{
			UserID:     userID,
			SongTitle:  song.Title,
			Artist:     song.Artist,
			Flashcards: cards,
		})
		if err != nil {
			result.Error = err.Error()
			return result
		}
		deck.Sentiment = &mood
		result.Sentiment = mood.Sentiment
	}

	path, err := formatter.WriteDeck(deck, opts.Format, opts.OutputDir)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.File = path
	result.Success = true
	return result
}

// dedupeSongs keeps the first occurrence of each normalized title and artist.
func dedupeSongs(songs []BulkSong) []BulkSong {
	seen := make(map[string]bool, len(songs))
	unique := make([]BulkSong, 0, len(songs))
	for _, song := range songs {
		key := shared.NormalizeSongKey(song.Title, song.Artist)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, song)
	}
	return unique
}
