package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	// TranslationPlaceholder stands in for lines the translation service could not translate.
	TranslationPlaceholder = "(translation unavailable)"
	DefaultBatchSize       = 25
)

// ErrTranslationRejected is returned when the translation service refuses a request,
// e.g. because of bad credentials. It is not retried.
var ErrTranslationRejected = fmt.Errorf("translation request rejected")

// Translator translates a batch of lines to English, returning one result per input line.
type Translator interface {
	TranslateBatch(ctx context.Context, lines []string, sourceLang string) ([]string, error)
}

// BatchOptions configures a [BatchTranslator].
type BatchOptions struct {
	BatchSize         int
	RequestsPerSecond float64
	Policy            retry.Policy
	Logger            *log.Logger
	// OnBatch is called after each batch with the number of completed and total batches.
	OnBatch func(done, total int)
}

func (o BatchOptions) effectiveBatchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o BatchOptions) effectiveLimit() rate.Limit {
	if o.RequestsPerSecond > 0 {
		return rate.Limit(o.RequestsPerSecond)
	}
	return rate.Inf
}

// TranslationResult holds per-position translations and batch accounting.
type TranslationResult struct {
	Translations  []string
	Table         *UniqueLineTable
	Batches       int
	FailedBatches int
}

// BatchTranslator translates each distinct lyric line once, in sequential batches.
type BatchTranslator struct {
	client  Translator
	opts    BatchOptions
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewBatchTranslator creates a [BatchTranslator] that paces batches with a token bucket.
func NewBatchTranslator(client Translator, opts BatchOptions) *BatchTranslator {
	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	if opts.Policy.Logger == nil {
		opts.Policy.Logger = logger
	}

	return &BatchTranslator{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(opts.effectiveLimit(), 1),
		logger:  logger,
	}
}

// Translate returns one translation per line, in line order.
//
// Lines with identical text share one translation. A batch that still fails after retries
// yields [TranslationPlaceholder] for each of its lines; a rejected request aborts with
// [ErrTranslationRejected].
func (b *BatchTranslator) Translate(ctx context.Context, lines []models.LyricLine, sourceLang string) (*TranslationResult, error) {
	table := NewUniqueLineTable(lines)
	batches := splitBatches(table.Texts(), b.opts.effectiveBatchSize())

	result := &TranslationResult{Table: table, Batches: len(batches)}
	byID := make([]string, 0, table.Len())

	for i, batch := range batches {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for batch %d/%d: %w", i+1, len(batches), err)
		}

		translated, err := b.translateBatch(ctx, batch, sourceLang)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case isRejected(err):
			return nil, fmt.Errorf("%w: batch %d/%d: %w", ErrTranslationRejected, i+1, len(batches), err)
		default:
			b.logger.Warn("translation batch failed, using placeholders", "batch", i+1, "batches", len(batches), "lines", len(batch), "err", err)
			result.FailedBatches++
			translated = placeholders(len(batch))
		}

		byID = append(byID, translated...)

		if b.opts.OnBatch != nil {
			b.opts.OnBatch(i+1, len(batches))
		}
	}

	result.Translations = table.Expand(byID)
	return result, nil
}

// translateBatch calls the service through the retry policy and aligns the response to batch.
func (b *BatchTranslator) translateBatch(ctx context.Context, batch []string, sourceLang string) ([]string, error) {
	if allBlank(batch) {
		return make([]string, len(batch)), nil
	}

	got, err := retry.DoValue(ctx, b.opts.Policy, func(ctx context.Context) ([]string, error) {
		return b.client.TranslateBatch(ctx, batch, sourceLang)
	})
	if err != nil {
		return nil, err
	}

	if len(got) != len(batch) {
		b.logger.Warn("translation count mismatch", "expected", len(batch), "got", len(got))
	}

	out := make([]string, len(batch))
	for i := range batch {
		if i < len(got) && strings.TrimSpace(got[i]) != "" {
			out[i] = strings.TrimSpace(got[i])
		} else {
			out[i] = TranslationPlaceholder
		}
	}
	return out, nil
}

func isRejected(err error) bool {
	kind, ok := retry.KindOf(err)
	return ok && kind == retry.ClientError && !errors.Is(err, retry.ErrExhausted)
}

func splitBatches(texts []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}
	return batches
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = TranslationPlaceholder
	}
	return out
}

func allBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
