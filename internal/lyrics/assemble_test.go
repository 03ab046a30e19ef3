package lyrics

import (
	"testing"

	"github.com/desertthunder/lyrx/internal/models"
)

func TestAssemble(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		cards, stats := Assemble(
			lyricLines("Te quiero", "Te quiero", "Adiós"),
			[]string{"I love you", "I love you", "Goodbye"},
		)

		want := []models.Flashcard{
			{Front: "Te quiero", Back: "I love you"},
			{Front: "Te quiero", Back: "I love you"},
			{Front: "Adiós", Back: "Goodbye"},
		}
		if len(cards) != len(want) {
			t.Fatalf("expected %d cards, got %d", len(want), len(cards))
		}
		for i := range want {
			if cards[i] != want[i] {
				t.Errorf("card %d: got %+v, want %+v", i, cards[i], want[i])
			}
		}
		if stats.Kept != 3 || stats.Total != 3 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("filters and flags", func(t *testing.T) {
		lines := lyricLines("Hola", "Oh oh oh", "Coro", "Vamos", "Baila")
		translations := []string{"Hello ¶", "Oh oh oh", "[Chorus]", "", "Dance  |  with me"}

		cards, stats := Assemble(lines, translations)

		if len(cards) != 3 {
			t.Fatalf("expected 3 cards, got %d: %+v", len(cards), cards)
		}
		if cards[0].Back != "Hello" {
			t.Errorf("expected glyph stripped, got %q", cards[0].Back)
		}
		if !cards[1].IsIdentical {
			t.Error("expected identical card to be flagged")
		}
		if cards[2].Back != "Dance with me" {
			t.Errorf("expected whitespace collapsed, got %q", cards[2].Back)
		}

		if stats.RemovedEmpty != 1 || stats.RemovedAnnotation != 1 || stats.Identical != 1 || stats.Kept != 3 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("missing translations are dropped", func(t *testing.T) {
		cards, stats := Assemble(lyricLines("a", "b"), []string{"A"})
		if len(cards) != 1 || stats.RemovedEmpty != 1 {
			t.Errorf("expected 1 card and 1 removal, got %d / %+v", len(cards), stats)
		}
	})

	t.Run("placeholder backs are kept", func(t *testing.T) {
		cards, _ := Assemble(lyricLines("a"), []string{TranslationPlaceholder})
		if len(cards) != 1 || cards[0].Back != TranslationPlaceholder {
			t.Errorf("expected placeholder card, got %+v", cards)
		}
	})
}

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "plain", want: "plain"},
		{in: "§ one ‖ two ¦ three", want: "one two three"},
		{in: "  spaced\t out  ", want: "spaced out"},
		{in: "|¶", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanTranslation(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
