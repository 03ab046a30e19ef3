package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/lyrx/internal/cache"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// loadOrCreateConfig reads the config at path, creating it from the embedded template when missing.
func (r *Runner) loadOrCreateConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			return shared.DefaultConfig()
		}
		return config
	}

	r.logger.Info("config file not found, creating from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("failed to create config file, using defaults", "error", err)
		return shared.DefaultConfig()
	}

	r.logger.Info("config file created", "path", path)
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load created config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadOrCreateConfig(cmd.String("config"))

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to read migration versions: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("%s %s (%d migrations applied)\n", ui.OK("✓"), config.Database.Path, len(versions))
	return nil
}

// SetupRollback rolls back the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config := r.loadOrCreateConfig(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.writePlain("%s rolled back latest migration in %s\n", ui.OK("✓"), config.Database.Path)
	return nil
}

// SetupConfig writes a config file from the defaults, filling in any credentials passed as flags.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%w: %s already exists, pass --force to overwrite", shared.ErrInvalidArgument, path)
	}

	config := shared.DefaultConfig()
	if v := cmd.String("translate-url"); v != "" {
		config.Credentials.Translate.URL = v
	}
	if v := cmd.String("translate-key"); v != "" {
		config.Credentials.Translate.APIKey = v
	}
	if v := cmd.String("emotion-token"); v != "" {
		config.Credentials.Emotion.APIToken = v
	}
	if v := cmd.String("cache"); v != "" {
		backend := strings.ToLower(v)
		if backend != cache.BackendMemory && backend != cache.BackendSQLite {
			return fmt.Errorf("%w: cache backend %q", shared.ErrInvalidFlag, v)
		}
		config.Cache.Backend = backend
	}

	if err := shared.SaveConfig(path, config); err != nil {
		return err
	}

	r.config = config
	r.logger.Info("config written", "path", path)
	r.writePlain("%s config written to %s\n", ui.OK("✓"), path)
	return nil
}
