package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bluesky21/spotify/internal/shared"
	"github.com/urfave/cli/v3"
)

const credsTemplate = `# Spotify application credentials from https://developer.spotify.com/dashboard
# SPOTIFY_ID and SPOTIFY_SECRET override these values.
client_id = ""
client_secret = ""
`

// Setup writes the config and credentials templates when missing and initializes the token cache.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlainln("Created %s", configPath)
	} else {
		r.logger.Info("using existing config file", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}

	credsPath := config.CredentialsPath()
	if _, err := os.Stat(credsPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(credsPath, []byte(credsTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write credentials template: %w", err)
		}
		r.writePlainln("Created %s; fill in client_id and client_secret", credsPath)
	}

	r.logger.Info("initializing token cache", "path", config.CachePath())
	db, err := shared.OpenTokenCache(config.CachePath())
	if err != nil {
		return fmt.Errorf("failed to initialize token cache: %w", err)
	}
	defer db.Close()

	return r.writePlainln("%s", r.palette.OK(fmt.Sprintf("Token cache ready at %s", config.CachePath())))
}
