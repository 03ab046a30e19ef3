package main

import (
	"github.com/urfave/cli/v3"
)

const defaultUser = "local"

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User the cache entries belong to",
		Value:   defaultUser,
		Sources: cli.EnvVars("LYRX_USER"),
	}
}

func songFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "song",
		Aliases:  []string{"s"},
		Usage:    "Song title",
		Required: required,
	}
}

func lyricsFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "lyrics",
		Aliases:  []string{"l"},
		Usage:    "Lyrics page URL or local file path",
		Required: required,
	}
}

func languageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "language",
		Usage: "Source language code, or auto to detect",
		Value: "auto",
	}
}

func artistFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "artist",
		Aliases: []string{"a"},
		Usage:   "Artist name",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: json, csv (anki), markdown or txt",
		Value:   "json",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:  "config",
				Usage: "Write a config file from defaults and the given credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "translate-url", Usage: "Translation API URL"},
					&cli.StringFlag{Name: "translate-key", Usage: "Translation API key"},
					&cli.StringFlag{Name: "emotion-token", Usage: "Emotion API token"},
					&cli.StringFlag{Name: "cache", Usage: "Cache backend (memory or sqlite)"},
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

func flashcardsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "flashcards",
		Aliases: []string{"cards"},
		Usage:   "Generate translated flashcards for a song",
		Flags: []cli.Flag{
			userFlag(),
			songFlag(true),
			lyricsFlag(true),
			artistFlag(),
			languageFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write the deck to (default: stdout)",
			},
			&cli.BoolFlag{
				Name:  "sentiment",
				Usage: "Include the song's mood in the deck",
			},
		},
		Action: r.Flashcards,
	}
}

func sentimentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sentiment",
		Aliases: []string{"mood"},
		Usage:   "Analyze the emotional tone of a song",
		Flags: []cli.Flag{
			userFlag(),
			songFlag(true),
			lyricsFlag(true),
			artistFlag(),
			languageFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Sentiment,
	}
}

func studyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "study",
		Aliases: []string{"tui", "ui"},
		Usage:   "Study a song's flashcards in the terminal",
		Flags: []cli.Flag{
			userFlag(),
			songFlag(false),
			lyricsFlag(false),
			artistFlag(),
			languageFlag(),
			&cli.StringFlag{
				Name:  "deck",
				Usage: "Study an exported JSON deck instead of generating one",
			},
		},
		Action: r.Study,
	}
}

func languagesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List languages supported by the translation service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Languages,
	}
}

// cacheCommand handles cache invalidation and maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage cached flashcards and sentiment",
		Commands: []*cli.Command{
			{
				Name:   "invalidate",
				Usage:  "Drop cached flashcards and sentiment for one song",
				Flags:  []cli.Flag{userFlag(), songFlag(true)},
				Action: r.CacheInvalidate,
			},
			{
				Name:   "clear",
				Usage:  "Drop every cache entry for a user",
				Flags:  []cli.Flag{userFlag()},
				Action: r.CacheClear,
			},
			{
				Name:   "purge",
				Usage:  "Remove expired cache entries",
				Action: r.CachePurge,
			},
		},
	}
}

func bulkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk",
		Usage: "Generate flashcard decks for every song in a TOML or JSON list",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "songs",
			},
		},
		Flags: []cli.Flag{
			userFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: lyrx_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of songs processed concurrently (max 10)",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Songs started per second",
				Value: 2,
			},
			&cli.BoolFlag{
				Name:  "sentiment",
				Usage: "Include each song's mood in its deck",
			},
		},
		Action: r.Bulk,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the flashcard API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
		},
		Action: r.Serve,
	}
}
