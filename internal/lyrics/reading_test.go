package lyrics

import (
	"testing"

	"github.com/desertthunder/lyrx/internal/models"
)

func TestReadingAnnotator(t *testing.T) {
	a, err := NewReadingAnnotator()
	if err != nil {
		t.Fatalf("failed to create annotator: %v", err)
	}

	t.Run("kanji gets a katakana reading", func(t *testing.T) {
		if got := a.Reading("猫"); got != "ネコ" {
			t.Errorf("expected ネコ, got %q", got)
		}
	})

	t.Run("latin text has no reading", func(t *testing.T) {
		if got := a.Reading("hello"); got != "" {
			t.Errorf("expected no reading, got %q", got)
		}
	})

	t.Run("Annotate", func(t *testing.T) {
		cards := a.Annotate([]models.Flashcard{{Front: "猫", Back: "cat"}})
		if cards[0].Reading != "ネコ" {
			t.Errorf("expected reading on card, got %+v", cards[0])
		}
	})
}

func TestLazyReadingAnnotator(t *testing.T) {
	load := LazyReadingAnnotator()

	first, err := load()
	if err != nil {
		t.Fatalf("failed to load annotator: %v", err)
	}
	second, err := load()
	if err != nil {
		t.Fatalf("failed to load annotator: %v", err)
	}
	if first != second {
		t.Error("expected the same annotator on every call")
	}
}
