package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// buildDeck runs the flashcard pipeline for the command's song flags and, when withSentiment is set, its mood.
func (r *Runner) buildDeck(ctx context.Context, cmd *cli.Command, withSentiment bool) (*models.Deck, error) {
	engine, err := r.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	req := tasks.FlashcardRequest{
		UserID:    cmd.String("user"),
		SongTitle: cmd.String("song"),
		LyricsRef: cmd.String("lyrics"),
		Language:  cmd.String("language"),
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.logProgress(progress)
	req.Progress = progress

	deck := &models.Deck{
		UserID:    req.UserID,
		SongTitle: req.SongTitle,
		Artist:    cmd.String("artist"),
		Language:  deckLanguage(req.Language),
	}

	deck.Cards, err = engine.GetFlashcards(ctx, req)
	if err == nil && withSentiment {
		var mood models.SentimentResult
		mood, err = engine.GetSentiment(ctx, tasks.SentimentRequest{
			UserID:     req.UserID,
			SongTitle:  req.SongTitle,
			Artist:     deck.Artist,
			Flashcards: deck.Cards,
			Progress:   progress,
		})
		deck.Sentiment = &mood
	}

	close(progress)
	<-done

	if err != nil {
		return nil, err
	}
	return deck, nil
}

func deckLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "auto" {
		return ""
	}
	return lang
}

// Flashcards generates a song's deck and writes it to stdout or the output directory.
func (r *Runner) Flashcards(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	deck, err := r.buildDeck(ctx, cmd, cmd.Bool("sentiment"))
	if err != nil {
		return err
	}

	if dir := cmd.String("output"); dir != "" {
		path, err := formatter.WriteDeck(deck, format, dir)
		if err != nil {
			return err
		}
		r.logger.Info("deck written", "path", path, "cards", len(deck.Cards))
		r.writePlain("%s %d cards written to %s\n", ui.OK("✓"), len(deck.Cards), path)
		return nil
	}

	data, err := formatter.Export(deck, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if format == formatter.FormatJSON {
		return r.writePlain("\n")
	}
	return nil
}

// Sentiment analyzes a song's mood from its translated lyrics.
func (r *Runner) Sentiment(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.logProgress(progress)

	result, err := engine.GetSentiment(ctx, tasks.SentimentRequest{
		UserID:    cmd.String("user"),
		SongTitle: cmd.String("song"),
		Artist:    cmd.String("artist"),
		LyricsRef: cmd.String("lyrics"),
		Language:  cmd.String("language"),
		Progress:  progress,
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader(cmd.String("song"))
	r.writePlain("%s %s (%s)\n", result.Emoji, result.Sentiment, result.Score)
	if result.Fallback {
		r.writePlain("%s\n", ui.Warn("Emotion analysis unavailable, showing neutral fallback"))
		return nil
	}
	r.writePlain("Primary emotion: %s (%s)\n", result.PrimaryEmotion, result.EmotionScore)
	for _, e := range result.Emotions {
		r.writePlain("  • %-10s %s\n", e.Emotion, e.Score)
	}
	return nil
}

// Languages lists the source languages the translation service accepts.
func (r *Runner) Languages(ctx context.Context, cmd *cli.Command) error {
	client := services.NewTranslateClient(ctx, r.config.Credentials.Translate, r.config.Pipeline.RequestTimeout.Duration, r.policy(), r.logger)

	languages, err := client.Languages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(languages, true)
	}

	r.writePlainHeader(fmt.Sprintf("%d languages", len(languages)))
	for _, lang := range languages {
		r.writePlain("%-6s %s\n", lang.Code, lang.Name)
	}
	return nil
}
