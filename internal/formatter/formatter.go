// package formatter provides functions to export flashcard decks to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

var slugPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// ParseFormat resolves a user supplied format name. Empty input selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv", "anki":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// ExportToJSON converts a Deck to indented JSON
func ExportToJSON(deck *models.Deck) ([]byte, error) {
	return shared.MarshalJSON(deck, true)
}

// ExportToCSV converts a Deck to CSV with columns: Front, Back, Reading, Tags
//
// The layout imports directly into Anki as a basic note type; tags hold the song slug and language.
func ExportToCSV(deck *models.Deck) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Front", "Back", "Reading", "Tags"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	tags := Slug(deck.SongTitle)
	if deck.Language != "" {
		tags += " lang::" + deck.Language
	}

	for _, card := range deck.Cards {
		record := []string{card.Front, card.Back, card.Reading, tags}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Deck to a Markdown table, preceded by the song's mood when known
func ExportToMarkdown(deck *models.Deck) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", deck.SongTitle))
	if deck.Artist != "" {
		buf.WriteString(fmt.Sprintf("**Artist**: %s\n", deck.Artist))
	}
	if deck.Language != "" {
		buf.WriteString(fmt.Sprintf("**Language**: %s\n", deck.Language))
	}
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(deck.Cards)))

	if s := deck.Sentiment; s != nil {
		buf.WriteString(fmt.Sprintf("**Mood**: %s %s (%s)", s.Emoji, s.Sentiment, s.Score))
		if s.PrimaryEmotion != "" {
			buf.WriteString(fmt.Sprintf(", mostly %s (%s)", s.PrimaryEmotion, s.EmotionScore))
		}
		buf.WriteString("\n\n")
	}

	buf.WriteString("## Cards\n\n")
	buf.WriteString("| # | Lyric | Translation |\n")
	buf.WriteString("|---|-------|-------------|\n")
	for i, card := range deck.Cards {
		front := escapeCell(card.Front)
		if card.Reading != "" {
			front += fmt.Sprintf(" <br> _%s_", escapeCell(card.Reading))
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, front, escapeCell(card.Back)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Deck to plain text format
func ExportToText(deck *models.Deck) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Song: %s\n", deck.SongTitle))
	if deck.Artist != "" {
		buf.WriteString(fmt.Sprintf("Artist: %s\n", deck.Artist))
	}
	buf.WriteString(fmt.Sprintf("Cards: %d\n\n", len(deck.Cards)))

	for i, card := range deck.Cards {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, card.Front))
		if card.Reading != "" {
			buf.WriteString(fmt.Sprintf("   (%s)\n", card.Reading))
		}
		buf.WriteString(fmt.Sprintf("   %s\n", card.Back))
	}

	return buf.Bytes(), nil
}

// Export renders a Deck in the given format.
func Export(deck *models.Deck, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(deck)
	case FormatMarkdown:
		return ExportToMarkdown(deck)
	case FormatText:
		return ExportToText(deck)
	default:
		return ExportToJSON(deck)
	}
}

// WriteDeck exports a deck into dir, naming the file after the song slug.
//
// Returns the path of the written file.
func WriteDeck(deck *models.Deck, format Format, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := Export(deck, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	name := Slug(deck.SongTitle)
	if deck.Language != "" {
		name += "." + deck.Language
	}
	path := filepath.Join(dir, name+format.Extension())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Slug lowercases s and joins its letter and digit runs with "-". Returns "untitled" when nothing remains.
func Slug(s string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
