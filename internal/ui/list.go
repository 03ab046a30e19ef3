package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/lyrx/internal/models"
)

var (
	_ list.Item = cardItem{}
)

// cardItem wraps [models.Flashcard] to implement [list.Item].
type cardItem struct {
	index int
	card  models.Flashcard
}

func (i cardItem) FilterValue() string { return i.card.Front + " " + i.card.Back }
func (i cardItem) Title() string       { return fmt.Sprintf("%d. %s", i.index+1, i.card.Front) }
func (i cardItem) Description() string {
	desc := i.card.Back
	if i.card.Reading != "" {
		desc = fmt.Sprintf("%s • %s", i.card.Reading, desc)
	}
	if i.card.IsIdentical {
		desc += " (same as original)"
	}
	return desc
}

func cardItems(cards []models.Flashcard) []list.Item {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = cardItem{index: i, card: c}
	}
	return items
}
