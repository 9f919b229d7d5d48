package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bluesky21/spotify/internal/formatter"
	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/shared"
	"github.com/bluesky21/spotify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Create resolves seeds, fetches recommendations and builds the playlist.
//
// Artist names come from --artists followed by positional arguments; with none, saved tracks seed the run.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("playlist")
	if name == "" {
		return fmt.Errorf("%w: --playlist is required", shared.ErrMissingArgument)
	}

	artists := append(cmd.StringSlice("artists"), cmd.Args().Slice()...)
	strategy := tasks.NewSeedStrategy(artists)
	if err := strategy.Validate(); err != nil {
		return err
	}
	useJSON := cmd.Bool("json")

	config, creds, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}

	provider, release, err := r.connect(ctx, config, creds)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			r.logger.Warn("failed to release provider", "error", err)
		}
	}()

	r.logger.Info("creating playlist", "name", name, "seed_kind", strategy.Kind(), "provider", provider.Name())

	opts := tasks.RunOptions{
		Name:   name,
		Public: cmd.Bool("public"),
		Params: models.RecommendParams{Country: config.Constants.Country},
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	result, runErr := tasks.NewPlaylistEngine(provider, r.logger).Run(ctx, strategy, opts, progress)
	close(progress)

	for update := range progress {
		if !useJSON {
			r.writeStatus("%s", r.palette.Progress(update))
		}
	}

	report := formatter.Report{
		Playlist:    result.Playlist,
		Description: result.Description,
		Seeds:       result.Seeds,
		Tracks:      result.Tracks,
	}

	if path := cmd.String("export"); path != "" && len(result.Tracks) > 0 {
		format, err := formatter.WriteExport(report, path)
		if err != nil {
			r.logger.Warn("export failed", "path", path, "error", err)
		} else {
			r.writeStatus("%s", r.palette.OK(fmt.Sprintf("Exported %d tracks as %s to %s", len(result.Tracks), format, path)))
		}
	}

	if runErr != nil {
		r.writeStatus("%s", r.palette.Err(fmt.Sprintf("Run stopped at %s", result.State)))
		if result.Playlist != nil {
			r.writeStatus("%s", r.palette.Warn(fmt.Sprintf("Playlist %q (%s) was created but its tracks were not added", result.Playlist.Name, result.Playlist.ID)))
		}
		if errors.Is(runErr, shared.ErrTokenExpired) {
			return fmt.Errorf("%w; run 'spotseed auth login' to sign in again", runErr)
		}
		return runErr
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writeStatus("%s", r.palette.OK(fmt.Sprintf("Created playlist %q with %d tracks", result.Playlist.Name, len(result.Tracks))))
	if result.Playlist.URL != "" {
		r.writeStatus("%s", r.palette.Help(result.Playlist.URL))
	}
	return r.writePlain("%s", formatter.Summary(report))
}
