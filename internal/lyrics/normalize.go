package lyrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
)

// ErrEmptyLyrics is returned when no lyric lines remain after normalization.
var ErrEmptyLyrics = fmt.Errorf("lyrics contain no usable lines")

// annotationPattern matches section markers such as [Chorus] or "[Verse 2: Artist]",
// optionally wrapped in straight or curly quotes. An annotation never spans a line break.
var annotationPattern = regexp.MustCompile(`["'“”‘’]?\[[^\]\r\n]*\]["'“”‘’]?`)

var lineBreakPattern = regexp.MustCompile(`\r\n|\n|\r`)

// Normalize removes bracketed annotations, splits raw lyrics into lines,
// trims each line and drops empty ones.
func Normalize(raw string) ([]models.LyricLine, error) {
	cleaned := annotationPattern.ReplaceAllString(raw, "")

	var lines []models.LyricLine
	for _, part := range lineBreakPattern.Split(cleaned, -1) {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		lines = append(lines, models.LyricLine{Index: len(lines), Text: text})
	}

	if len(lines) == 0 {
		return nil, ErrEmptyLyrics
	}
	return lines, nil
}

// IsAnnotationOnly reports whether text consists only of bracketed annotations.
func IsAnnotationOnly(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || !strings.Contains(text, "[") {
		return false
	}
	return strings.TrimSpace(annotationPattern.ReplaceAllString(text, "")) == ""
}
