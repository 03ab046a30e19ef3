package lyrics

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/desertthunder/lyrx/internal/models"
)

// ReadingLanguage is the source language that gets kana readings.
const ReadingLanguage = "ja"

// ReadingAnnotator adds katakana readings to Japanese flashcard fronts.
type ReadingAnnotator struct {
	t *tokenizer.Tokenizer
}

// NewReadingAnnotator loads the IPA dictionary tokenizer.
func NewReadingAnnotator() (*ReadingAnnotator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &ReadingAnnotator{t: t}, nil
}

// ReadingLoader returns a shared [ReadingAnnotator], loading the dictionary on first use.
type ReadingLoader func() (*ReadingAnnotator, error)

// LazyReadingAnnotator defers [NewReadingAnnotator] until the loader is first called.
// Later calls return the same annotator or error.
func LazyReadingAnnotator() ReadingLoader {
	return sync.OnceValues(NewReadingAnnotator)
}

// Reading returns the katakana reading of text.
//
// Tokens without a dictionary reading keep their surface form. Returns "" when the
// reading adds nothing over the original text.
func (a *ReadingAnnotator) Reading(text string) string {
	var b strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			b.WriteString(token.Surface)
			continue
		}

		// IPA features: 7 is the reading.
		features := token.Features()
		if len(features) > 7 && features[7] != "*" {
			b.WriteString(features[7])
		} else {
			b.WriteString(token.Surface)
		}
	}

	reading := strings.TrimSpace(b.String())
	if reading == strings.TrimSpace(text) {
		return ""
	}
	return reading
}

// Annotate sets Reading on each card in place and returns cards.
func (a *ReadingAnnotator) Annotate(cards []models.Flashcard) []models.Flashcard {
	for i := range cards {
		cards[i].Reading = a.Reading(cards[i].Front)
	}
	return cards
}
