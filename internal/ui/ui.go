package ui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/tasks"
)

const cardWidth = 48

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	StudyView
	CardListView
	ResultView
)

// Pipeline generates the deck and its mood. Implemented by [tasks.Engine].
type Pipeline interface {
	GetFlashcards(ctx context.Context, req tasks.FlashcardRequest) ([]models.Flashcard, error)
	GetSentiment(ctx context.Context, req tasks.SentimentRequest) (models.SentimentResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       Pipeline
	request      tasks.FlashcardRequest
	artist       string
	width        int
	height       int
	deck         []models.Flashcard
	queue        []int
	pos          int
	flipped      bool
	known        int
	missed       []int
	sentiment    *models.SentimentResult
	cardList     list.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model that generates the deck for req through engine.
func NewModel(ctx context.Context, engine Pipeline, req tasks.FlashcardRequest, artist string) *Model {
	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		engine:  engine,
		request: req,
		artist:  artist,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// NewDeckModel creates a TUI model that studies an already generated deck.
func NewDeckModel(ctx context.Context, deck *models.Deck) *Model {
	m := NewModel(ctx, nil, tasks.FlashcardRequest{UserID: deck.UserID, SongTitle: deck.SongTitle}, deck.Artist)
	m.loadDeck(deck.Cards, deck.Sentiment)
	return m
}

// Init starts deck generation unless the deck was supplied.
func (m *Model) Init() tea.Cmd {
	if m.view != LoadingView {
		return nil
	}
	return m.startGeneration()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view != LoadingView {
			m.cardList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && m.view != CardListView {
			return m, tea.Quit
		}
		switch m.view {
		case LoadingView:
			return m, nil
		case StudyView:
			return m.handleStudyKeys(msg)
		case CardListView:
			return m.handleListKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgDeckLoaded:
			data := msg.data.(deckLoaded)
			m.progressChan = nil
			m.doneChan = nil
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.loadDeck(data.cards, data.sentiment)
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case StudyView:
		return m.renderStudy()
	case CardListView:
		return m.renderCardList()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// Known returns how many cards were marked as known in the current round.
func (m *Model) Known() int { return m.known }

// Missed returns how many cards were marked for another pass in the current round.
func (m *Model) Missed() int { return len(m.missed) }

func (m *Model) loadDeck(cards []models.Flashcard, sentiment *models.SentimentResult) {
	m.deck = cards
	m.sentiment = sentiment
	m.cardList = list.New(cardItems(cards), list.NewDefaultDelegate(), 0, 0)
	m.cardList.Title = m.request.SongTitle
	if m.width > 0 {
		m.cardList.SetSize(m.width-4, m.height-8)
	}

	queue := make([]int, len(cards))
	for i := range queue {
		queue[i] = i
	}
	m.startRound(queue)
}

func (m *Model) startRound(queue []int) {
	m.queue = queue
	m.pos = 0
	m.flipped = false
	m.known = 0
	m.missed = nil
	m.view = StudyView
	if len(queue) == 0 {
		m.view = ResultView
	}
}

func (m *Model) handleStudyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.flip):
		m.flipped = !m.flipped
	case key.Matches(msg, m.keys.yes):
		m.known++
		m.advance()
	case key.Matches(msg, m.keys.no):
		m.missed = append(m.missed, m.queue[m.pos])
		m.advance()
	case key.Matches(msg, m.keys.prev):
		if m.pos > 0 {
			m.pos--
			m.flipped = false
			m.unmark(m.queue[m.pos])
		}
	case key.Matches(msg, m.keys.shuffle):
		rest := m.queue[m.pos:]
		rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		m.flipped = false
	case key.Matches(msg, m.keys.list):
		m.view = CardListView
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cardList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.list):
			m.view = StudyView
			if m.pos >= len(m.queue) {
				m.view = ResultView
			}
			return m, nil
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.cardList, cmd = m.cardList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.restart):
		if len(m.missed) > 0 {
			m.startRound(append([]int(nil), m.missed...))
		} else {
			m.startRound(m.fullQueue())
		}
	case key.Matches(msg, m.keys.list):
		m.view = CardListView
	}
	return m, nil
}

func (m *Model) advance() {
	m.pos++
	m.flipped = false
	if m.pos >= len(m.queue) {
		m.view = ResultView
	}
}

// unmark reverts the verdict for a card when stepping back to it.
func (m *Model) unmark(card int) {
	for i := len(m.missed) - 1; i >= 0; i-- {
		if m.missed[i] == card {
			m.missed = append(m.missed[:i], m.missed[i+1:]...)
			return
		}
	}
	if m.known > 0 {
		m.known--
	}
}

func (m *Model) fullQueue() []int {
	queue := make([]int, len(m.deck))
	for i := range queue {
		queue[i] = i
	}
	return queue
}

func (m *Model) startGeneration() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	req := m.request
	req.Progress = progress

	go func() {
		defer close(progress)

		cards, err := m.engine.GetFlashcards(m.ctx, req)
		if err != nil {
			done <- deckLoadedMsg(nil, nil, err)
			return
		}

		var mood *models.SentimentResult
		result, err := m.engine.GetSentiment(m.ctx, tasks.SentimentRequest{
			UserID:     req.UserID,
			SongTitle:  req.SongTitle,
			Artist:     m.artist,
			Flashcards: cards,
			Progress:   progress,
		})
		if err == nil {
			mood = &result
		}
		done <- deckLoadedMsg(cards, mood, nil)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render(fmt.Sprintf("Preparing '%s'", m.request.SongTitle))

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLyrics:
		phase = "Fetching lyrics..."
	case tasks.Translate:
		phase = fmt.Sprintf("Translating (%d/%d batches)", m.progress.Step, m.progress.Total)
	case tasks.AnalyzeSentiment:
		phase = "Reading the mood..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderStudy() string {
	card := m.deck[m.queue[m.pos]]
	header := styles.title.Render(fmt.Sprintf("%s  %d/%d", m.request.SongTitle, m.pos+1, len(m.queue)))

	face := card.Front
	if m.flipped {
		face = card.Back
		if card.Reading != "" {
			face = styles.reading.Render(card.Reading) + "\n\n" + face
		}
		if card.IsIdentical {
			face += "\n" + styles.help.Render("(same as original)")
		}
	}
	body := styles.card.Render(face)

	score := fmt.Sprintf("%s  %s",
		styles.ok.Render(fmt.Sprintf("✓ %d", m.known)),
		styles.warn.Render(fmt.Sprintf("↺ %d", len(m.missed))),
	)

	helpKeys := []key.Binding{m.keys.flip, m.keys.yes, m.keys.no, m.keys.prev, m.keys.list, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", score, "", helpView)
}

func (m *Model) renderCardList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.cardList.View(), helpView)
}

func (m *Model) renderResult() string {
	var b strings.Builder

	if len(m.deck) == 0 {
		b.WriteString(styles.warn.Render("No flashcards for this song"))
	} else {
		b.WriteString(styles.ok.Render("✓ Round complete!"))
		b.WriteString(fmt.Sprintf("\n\nKnown: %d/%d\nAgain: %d", m.known, len(m.queue), len(m.missed)))
	}

	if s := m.sentiment; s != nil {
		b.WriteString(fmt.Sprintf("\n\nMood: %s %s (%s)", s.Emoji, s.Sentiment, s.Score))
		if s.Fallback {
			b.WriteString(styles.help.Render("  (mood unavailable)"))
		}
		for _, e := range s.Emotions {
			b.WriteString(fmt.Sprintf("\n  • %s %s", e.Emotion, e.Score))
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.list, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", b.String(), helpView)
}
