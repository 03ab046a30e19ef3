package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Study launches the flashcard TUI, either for an exported deck or for a song generated on the fly.
func (r *Runner) Study(ctx context.Context, cmd *cli.Command) error {
	model, err := r.studyModel(ctx, cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	r.writePlain("Known %d, again %d\n", model.Known(), model.Missed())
	return nil
}

func (r *Runner) studyModel(ctx context.Context, cmd *cli.Command) (*ui.Model, error) {
	if path := cmd.String("deck"); path != "" {
		deck, err := loadDeck(path)
		if err != nil {
			return nil, err
		}
		return ui.NewDeckModel(ctx, deck), nil
	}

	if cmd.String("song") == "" || cmd.String("lyrics") == "" {
		return nil, fmt.Errorf("%w: --song and --lyrics, or --deck", shared.ErrMissingArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lyrx-tui.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	return ui.NewModel(ctx, engine, tasks.FlashcardRequest{
		UserID:    cmd.String("user"),
		SongTitle: cmd.String("song"),
		LyricsRef: cmd.String("lyrics"),
		Language:  cmd.String("language"),
	}, cmd.String("artist")), nil
}

// loadDeck reads a deck exported in JSON format.
func loadDeck(path string) (*models.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}

	var deck models.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON deck: %v", shared.ErrInvalidInput, path, err)
	}
	if deck.SongTitle == "" {
		deck.SongTitle = path
	}
	return &deck, nil
}
