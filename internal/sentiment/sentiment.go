// Package sentiment summarizes the mood of a song from its translated lyrics.
package sentiment

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	DefaultMaxInputChars = 1000
	truncationSuffix     = "..."
	neutralLabel         = "neutral"
	neutralKeepThreshold = 0.7
	maxEmotions          = 3
	sentenceSeparator    = ". "
)

// Classifier scores text against a set of emotion labels.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]models.EmotionLabel, error)
}

// Options configures an [Analyzer].
type Options struct {
	MaxInputChars int
	Policy        retry.Policy
	Logger        *log.Logger
}

// Analyzer turns classifier output into a [models.SentimentResult].
type Analyzer struct {
	classifier Classifier
	maxChars   int
	policy     retry.Policy
	logger     *log.Logger
}

// NewAnalyzer creates an [Analyzer]. A zero policy retries three times from a one second delay.
func NewAnalyzer(classifier Classifier, opts Options) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		maxChars:   opts.MaxInputChars,
		policy:     opts.Policy,
		logger:     opts.Logger,
	}
	if a.maxChars <= 0 {
		a.maxChars = DefaultMaxInputChars
	}
	if a.policy.MaxAttempts <= 0 {
		a.policy.MaxAttempts = retry.DefaultMaxAttempts
	}
	if a.policy.BaseDelay <= 0 {
		a.policy.BaseDelay = retry.DefaultBaseDelay
	}
	if a.logger == nil {
		a.logger = shared.DiscardLogger()
	}
	if a.policy.Logger == nil {
		a.policy.Logger = a.logger
	}
	return a
}

// Analyze classifies text and maps the strongest emotion to a sentiment bucket.
//
// It never fails: empty input, exhausted retries, rejected requests and empty classifier
// output all produce [Fallback].
func (a *Analyzer) Analyze(ctx context.Context, text string) models.SentimentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback()
	}

	input := Truncate(text, a.maxChars)

	labels, err := retry.DoValue(ctx, a.policy, func(ctx context.Context) ([]models.EmotionLabel, error) {
		return a.classifier.Classify(ctx, input)
	})
	if err != nil {
		a.logger.Warn("emotion classification failed, using fallback", "err", err)
		return Fallback()
	}

	ranked := Rank(labels)
	if len(ranked) == 0 {
		a.logger.Warn("emotion classifier returned no usable labels, using fallback")
		return Fallback()
	}

	return Summarize(ranked)
}

// Rank normalizes labels, drops a weak neutral and sorts by descending score.
//
// Neutral is kept when it is the only label or scores above 0.7.
func Rank(labels []models.EmotionLabel) []models.EmotionLabel {
	ranked := make([]models.EmotionLabel, 0, len(labels))
	for _, l := range labels {
		label := strings.ToLower(strings.TrimSpace(l.Label))
		if label == "" {
			continue
		}
		ranked = append(ranked, models.EmotionLabel{Label: label, Score: l.Score})
	}

	if len(ranked) > 1 {
		ranked = slices.DeleteFunc(ranked, func(l models.EmotionLabel) bool {
			return l.Label == neutralLabel && l.Score <= neutralKeepThreshold
		})
	}

	slices.SortStableFunc(ranked, func(x, y models.EmotionLabel) int {
		return cmp.Compare(y.Score, x.Score)
	})
	return ranked
}

// Summarize builds a result from labels already ordered by [Rank].
func Summarize(ranked []models.EmotionLabel) models.SentimentResult {
	primary := ranked[0]
	bucket := BucketFor(primary.Label)

	top := ranked[:min(maxEmotions, len(ranked))]
	emotions := make([]models.EmotionScore, len(top))
	for i, l := range top {
		emotions[i] = models.EmotionScore{Emotion: l.Label, Score: formatScore(l.Score)}
	}

	return models.SentimentResult{
		Sentiment:      bucket.Name,
		Emoji:          bucket.Emoji,
		Score:          formatScore(bucket.Score),
		Emotions:       emotions,
		PrimaryEmotion: primary.Label,
		EmotionScore:   formatScore(primary.Score),
	}
}

// Fallback is the fixed result used when classification is unavailable.
func Fallback() models.SentimentResult {
	return models.SentimentResult{
		Sentiment:      Neutral.Name,
		Emoji:          Neutral.Emoji,
		Score:          "0.50",
		Emotions:       []models.EmotionScore{},
		PrimaryEmotion: "Unknown",
		EmotionScore:   "0.00",
		Fallback:       true,
	}
}

// Truncate shortens text to maxChars runes followed by "...".
func Truncate(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + truncationSuffix
}

// TextFromFlashcards joins the distinct translated sides of cards into sentences, skipping placeholders.
func TextFromFlashcards(cards []models.Flashcard) string {
	backs := slices.DeleteFunc(lyrics.UniqueStrings(models.Backs(cards)), func(s string) bool {
		return s == lyrics.TranslationPlaceholder
	})
	return strings.Join(backs, sentenceSeparator)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
