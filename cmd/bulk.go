package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// songList is the on-disk shape of a bulk song list.
//
//	[[songs]]
//	title = "Te Quiero"
//	artist = "Someone"
//	lyrics = "https://example.com/te-quiero"
//	language = "es"
type songList struct {
	Songs []tasks.BulkSong `json:"songs" toml:"songs"`
}

// loadSongs reads a song list from a TOML file, or a JSON file holding either a list or {"songs": [...]}.
func loadSongs(path string) ([]tasks.BulkSong, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read song list: %w", err)
	}

	var list songList
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &list.Songs)
		} else {
			err = json.Unmarshal(data, &list)
		}
	} else {
		err = toml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: song list %s: %v", shared.ErrInvalidInput, path, err)
	}

	if len(list.Songs) == 0 {
		return nil, fmt.Errorf("%w: song list %s is empty", shared.ErrInvalidInput, path)
	}
	return list.Songs, nil
}

// Bulk generates and exports decks for every song in a song list.
func (r *Runner) Bulk(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("songs")
	if path == "" {
		return fmt.Errorf("%w: song list path", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	songs, err := loadSongs(path)
	if err != nil {
		return err
	}

	engine, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.logProgress(progress)

	result, err := engine.BulkGenerate(ctx, progress, cmd.String("user"), songs, tasks.BulkOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Sentiment:  cmd.Bool("sentiment"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Bulk Export Complete")
	r.writePlain("Songs: %d (%d duplicates skipped)\n", result.TotalSongs, result.Duplicates)
	r.writePlain("Succeeded: %s\n", ui.OK(fmt.Sprintf("%d", result.Successful)))
	if result.Failed > 0 {
		r.writePlain("Failed: %s\n", ui.Warn(fmt.Sprintf("%d", result.Failed)))
		for _, song := range result.Results {
			if !song.Success {
				r.writePlain("  • %s: %s\n", song.Title, ui.Muted(song.Error))
			}
		}
	}
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
