package lyrics

import (
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
)

// UniqueLineTable maps every lyric position to a compact id for its distinct text.
//
// Texts are compared after trimming and are case-sensitive. Ids are assigned in first-occurrence order.
type UniqueLineTable struct {
	texts     []string
	ids       map[string]int
	positions []int
}

// NewUniqueLineTable builds the table for lines in their original order.
func NewUniqueLineTable(lines []models.LyricLine) *UniqueLineTable {
	t := &UniqueLineTable{
		ids:       make(map[string]int, len(lines)),
		positions: make([]int, len(lines)),
	}

	for i, line := range lines {
		text := strings.TrimSpace(line.Text)
		id, ok := t.ids[text]
		if !ok {
			id = len(t.texts)
			t.ids[text] = id
			t.texts = append(t.texts, text)
		}
		t.positions[i] = id
	}

	return t
}

// Len returns the number of distinct texts.
func (t *UniqueLineTable) Len() int { return len(t.texts) }

// Positions returns the number of lines the table covers.
func (t *UniqueLineTable) Positions() int { return len(t.positions) }

// Texts returns the distinct texts in id order.
func (t *UniqueLineTable) Texts() []string {
	out := make([]string, len(t.texts))
	copy(out, t.texts)
	return out
}

// IDAt returns the unique id for the line at position.
func (t *UniqueLineTable) IDAt(position int) int { return t.positions[position] }

// Text returns the canonical text for id.
func (t *UniqueLineTable) Text(id int) string { return t.texts[id] }

// Expand maps per-id values back onto every position.
//
// Ids without a value get an empty string.
func (t *UniqueLineTable) Expand(byID []string) []string {
	out := make([]string, len(t.positions))
	for pos, id := range t.positions {
		if id < len(byID) {
			out[pos] = byID[id]
		}
	}
	return out
}

// UniqueStrings returns the distinct trimmed, non-empty values of items in first-occurrence order.
func UniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
