package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// CacheInvalidate drops the cached flashcards (every language) and sentiment for one song.
func (r *Runner) CacheInvalidate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.cacheStore()
	if err != nil {
		return err
	}

	user, song := cmd.String("user"), cmd.String("song")
	if err := store.InvalidateSong(ctx, user, song); err != nil {
		return err
	}

	r.writePlain("%s cache cleared for '%s'\n", ui.OK("✓"), song)
	return nil
}

// CacheClear drops every cache entry belonging to a user.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.cacheStore()
	if err != nil {
		return err
	}

	user := cmd.String("user")
	if user == "" {
		return fmt.Errorf("%w: user is required", shared.ErrMissingArgument)
	}

	n, err := store.InvalidateUser(ctx, user)
	if err != nil {
		return err
	}

	r.writePlain("%s removed %d entries for %s\n", ui.OK("✓"), n, user)
	return nil
}

// CachePurge removes expired entries from the cache backend.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	store, err := r.cacheStore()
	if err != nil {
		return err
	}

	n, err := store.Purge(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s purged %d expired entries\n", ui.OK("✓"), n)
	return nil
}
