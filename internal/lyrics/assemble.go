package lyrics

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/models"
)

// artifactReplacer removes separator glyphs that translation services leave behind.
var artifactReplacer = strings.NewReplacer("|", " ", "¦", " ", "‖", " ", "¶", " ", "§", " ")

// AssembleStats counts what [Assemble] kept and removed.
type AssembleStats struct {
	Total             int
	Kept              int
	RemovedEmpty      int
	RemovedAnnotation int
	Identical         int
}

// Log writes the stats as structured fields.
func (s AssembleStats) Log(logger *log.Logger) {
	logger.Info("assembled flashcards",
		"total", s.Total,
		"kept", s.Kept,
		"removed_empty", s.RemovedEmpty,
		"removed_annotation", s.RemovedAnnotation,
		"identical", s.Identical,
	)
}

// Assemble pairs each line with the translation at the same position.
//
// Backs are cleaned of artifact glyphs and extra whitespace. Cards whose front or back
// is empty or only a bracketed annotation are dropped. Cards whose front equals the back
// are kept and flagged IsIdentical.
func Assemble(lines []models.LyricLine, translations []string) ([]models.Flashcard, AssembleStats) {
	stats := AssembleStats{Total: len(lines)}
	cards := make([]models.Flashcard, 0, len(lines))

	for i, line := range lines {
		front := strings.TrimSpace(line.Text)

		var back string
		if i < len(translations) {
			back = CleanTranslation(translations[i])
		}

		if front == "" || back == "" {
			stats.RemovedEmpty++
			continue
		}
		if IsAnnotationOnly(front) || IsAnnotationOnly(back) {
			stats.RemovedAnnotation++
			continue
		}

		card := models.Flashcard{Front: front, Back: back, IsIdentical: front == back}
		if card.IsIdentical {
			stats.Identical++
		}
		cards = append(cards, card)
	}

	stats.Kept = len(cards)
	return cards, stats
}

// CleanTranslation strips artifact glyphs and collapses whitespace.
func CleanTranslation(text string) string {
	return strings.Join(strings.Fields(artifactReplacer.Replace(text)), " ")
}
