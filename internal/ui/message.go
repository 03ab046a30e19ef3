package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgDeckLoaded
)

type deckLoaded struct {
	cards     []models.Flashcard
	sentiment *models.SentimentResult
	err       error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// deckLoadedMsg is the constructor for [MsgDeckLoaded]
func deckLoadedMsg(cards []models.Flashcard, sentiment *models.SentimentResult, err error) Msg {
	return Msg{
		kind: MsgDeckLoaded,
		data: deckLoaded{cards: cards, sentiment: sentiment, err: err},
	}
}
