package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/cache"
	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/sentiment"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The engine and cache are built on first use so commands like setup never touch the network or database.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	store      *cache.Store
	engine     *tasks.Engine
	closers    []func() error

	// remoteOnly limits lyrics refs to http(s) URLs. Set by serve before the engine is built.
	remoteOnly bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store and Engine are normally left nil and built from Config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Store      *cache.Store
	Engine     *tasks.Engine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		engine:     opts.Engine,
	}
}

// SetLogger replaces the runner's logger. The engine must not be built yet for it to pick up the change.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the cache and database handles opened by the runner.
func (r *Runner) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warn("failed to close resource", "error", err)
		}
	}
	r.closers = nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, flashcardsCommand, sentimentCommand, studyCommand, languagesCommand, cacheCommand, bulkCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: r.config.Pipeline.MaxAttempts,
		BaseDelay:   r.config.Pipeline.BaseDelay.Duration,
		Logger:      r.logger,
	}
}

// cacheStore returns the runner's cache store, opening the configured backend on first use.
func (r *Runner) cacheStore() (*cache.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := cache.Open(r.config.Cache, r.config.Database, r.logger)
	if err != nil {
		return nil, err
	}
	r.store = store
	r.closers = append(r.closers, store.Close)
	return store, nil
}

// pipeline returns the flashcard engine, wiring the configured services on first use.
func (r *Runner) pipeline(ctx context.Context) (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	store, err := r.cacheStore()
	if err != nil {
		return nil, err
	}

	cfg := r.config
	policy := r.policy()
	timeout := cfg.Pipeline.RequestTimeout.Duration

	translator := services.NewTranslateClient(ctx, cfg.Credentials.Translate, timeout, policy, r.logger)
	classifier := services.NewEmotionClient(cfg.Credentials.Emotion, timeout)
	page := services.NewPageLyricsSource(timeout, policy)
	source := services.NewLyricsSource(page)
	if r.remoteOnly {
		source = services.NewRemoteLyricsSource(page)
	}

	opts := tasks.Options{
		Batch: lyrics.BatchOptions{
			BatchSize:         cfg.Pipeline.BatchSize,
			RequestsPerSecond: cfg.Pipeline.RequestsPerSecond,
			Policy:            policy,
			Logger:            r.logger,
		},
		Sentiment: sentiment.Options{
			MaxInputChars: cfg.Pipeline.MaxSentimentChars,
			Policy:        policy,
			Logger:        r.logger,
		},
		Readings: lyrics.LazyReadingAnnotator(),
		Logger:   r.logger,
	}

	if cfg.Database.Path != "" {
		db, err := shared.OpenDatabase(cfg.Database)
		if err != nil {
			r.logger.Warn("translation runs will not be recorded", "error", err)
		} else {
			r.closers = append(r.closers, db.Close)
			opts.Runs = repositories.NewTranslationRunRepository(db)
		}
	}

	r.engine = tasks.NewEngine(source, store, translator, classifier, opts)
	return r.engine, nil
}

// logProgress logs pipeline progress until updates is closed, then closes the returned channel.
func (r *Runner) logProgress(updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			switch update.Phase {
			case tasks.Translate, tasks.Bulk:
				r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()
	return done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
