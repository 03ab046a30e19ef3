package sentiment

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/retry"
	tu "github.com/desertthunder/lyrx/internal/testing"
)

func instantPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("maps primary emotion to bucket", func(t *testing.T) {
		mock := &tu.MockClassifier{Labels: []models.EmotionLabel{
			{Label: "neutral", Score: 0.30},
			{Label: "sadness", Score: 0.45},
			{Label: "joy", Score: 0.15},
			{Label: "fear", Score: 0.10},
		}}
		a := NewAnalyzer(mock, Options{Policy: instantPolicy()})

		got := a.Analyze(ctx, "I miss you")

		want := models.SentimentResult{
			Sentiment: "Very Negative",
			Emoji:     "😢",
			Score:     "0.10",
			Emotions: []models.EmotionScore{
				{Emotion: "sadness", Score: "0.45"},
				{Emotion: "joy", Score: "0.15"},
				{Emotion: "fear", Score: "0.10"},
			},
			PrimaryEmotion: "sadness",
			EmotionScore:   "0.45",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("retries transient failures", func(t *testing.T) {
		busy := &retry.Failure{Kind: retry.RateLimited, Status: http.StatusTooManyRequests, Err: errors.New("busy")}
		mock := &tu.MockClassifier{
			Errs:   []error{busy, busy},
			Labels: []models.EmotionLabel{{Label: "joy", Score: 0.8}},
		}
		a := NewAnalyzer(mock, Options{Policy: instantPolicy()})

		got := a.Analyze(ctx, "happy")
		if got.Fallback || got.Sentiment != "Very Positive" {
			t.Errorf("expected classified result, got %+v", got)
		}
		if mock.CallCount() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.CallCount())
		}
	})

	fallbackCases := []struct {
		name      string
		text      string
		mock      *tu.MockClassifier
		wantCalls int
	}{
		{
			name:      "empty text",
			text:      "   ",
			mock:      &tu.MockClassifier{},
			wantCalls: 0,
		},
		{
			name: "exhausted retries",
			text: "lyrics",
			mock: &tu.MockClassifier{Errs: []error{
				&retry.Failure{Kind: retry.ServerError},
				&retry.Failure{Kind: retry.ServerError},
				&retry.Failure{Kind: retry.ServerError},
			}},
			wantCalls: 3,
		},
		{
			name:      "missing credential",
			text:      "lyrics",
			mock:      &tu.MockClassifier{Errs: []error{&retry.Failure{Kind: retry.ClientError, Status: http.StatusUnauthorized}}},
			wantCalls: 1,
		},
		{
			name:      "empty label list",
			text:      "lyrics",
			mock:      &tu.MockClassifier{},
			wantCalls: 1,
		},
	}

	for _, tt := range fallbackCases {
		t.Run("fallback on "+tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.mock, Options{Policy: instantPolicy()})

			got := a.Analyze(ctx, tt.text)
			if !reflect.DeepEqual(got, Fallback()) {
				t.Errorf("expected fallback, got %+v", got)
			}
			if tt.mock.CallCount() != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, tt.mock.CallCount())
			}
		})
	}

	t.Run("truncates long input", func(t *testing.T) {
		mock := &tu.MockClassifier{Labels: []models.EmotionLabel{{Label: "joy", Score: 1}}}
		a := NewAnalyzer(mock, Options{MaxInputChars: 10, Policy: instantPolicy()})

		a.Analyze(ctx, strings.Repeat("ñ", 25))
		if mock.Inputs[0] != strings.Repeat("ñ", 10)+"..." {
			t.Errorf("unexpected classifier input %q", mock.Inputs[0])
		}
	})
}

func TestFallbackIsDeterministic(t *testing.T) {
	a, b := Fallback(), Fallback()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("fallback should not vary")
	}
	if a.Sentiment != "Neutral" || a.Emoji != "😐" || a.Score != "0.50" || a.PrimaryEmotion != "Unknown" || a.EmotionScore != "0.00" {
		t.Errorf("unexpected fallback %+v", a)
	}
	if a.Emotions == nil || len(a.Emotions) != 0 || !a.Fallback {
		t.Errorf("expected empty emotions and fallback flag, got %+v", a)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		labels []models.EmotionLabel
		want   []string
	}{
		{
			name:   "weak neutral dropped",
			labels: []models.EmotionLabel{{Label: "neutral", Score: 0.6}, {Label: "joy", Score: 0.3}},
			want:   []string{"joy"},
		},
		{
			name:   "strong neutral kept",
			labels: []models.EmotionLabel{{Label: "joy", Score: 0.1}, {Label: "Neutral", Score: 0.75}},
			want:   []string{"neutral", "joy"},
		},
		{
			name:   "only neutral kept",
			labels: []models.EmotionLabel{{Label: "neutral", Score: 0.2}},
			want:   []string{"neutral"},
		},
		{
			name:   "sorted descending",
			labels: []models.EmotionLabel{{Label: "fear", Score: 0.1}, {Label: "anger", Score: 0.5}, {Label: "joy", Score: 0.3}},
			want:   []string{"anger", "joy", "fear"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range Rank(tt.labels) {
				got = append(got, l.Label)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		emotion string
		want    Bucket
	}{
		{emotion: "joy", want: VeryPositive},
		{emotion: "surprise", want: Positive},
		{emotion: "neutral", want: Neutral},
		{emotion: "fear", want: Negative},
		{emotion: "anger", want: VeryNegative},
		{emotion: "bewilderment", want: Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.emotion, func(t *testing.T) {
			if got := BucketFor(tt.emotion); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("short text should be unchanged, got %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
}

func TestTextFromFlashcards(t *testing.T) {
	cards := []models.Flashcard{
		{Front: "Te quiero", Back: "I love you"},
		{Front: "Te quiero", Back: "I love you"},
		{Front: "???", Back: lyrics.TranslationPlaceholder},
		{Front: "Adiós", Back: "Goodbye"},
	}

	if got := TextFromFlashcards(cards); got != "I love you. Goodbye" {
		t.Errorf("got %q", got)
	}
}
