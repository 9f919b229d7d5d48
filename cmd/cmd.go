// submodule cmd contains command definitions
package main

import (
	"context"
	"fmt"

	"github.com/bluesky21/spotify/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func configFlag(local bool) cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
		Local:   local,
	}
}

// createFlags are shared by the root command (where they must stay local) and create.
func createFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "playlist",
			Aliases: []string{"p"},
			Usage:   "Name of the playlist to create",
			Local:   local,
		},
		&cli.StringSliceFlag{
			Name:    "artists",
			Aliases: []string{"a"},
			Usage:   "Artist name to seed from (repeatable, one name per value); saved tracks are used when omitted",
			Local:   local,
		},
		&cli.BoolFlag{
			Name:  "public",
			Usage: "Make the playlist public",
			Local: local,
		},
		configFlag(local),
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the run result as JSON",
			Local: local,
		},
		&cli.StringFlag{
			Name:  "export",
			Usage: "Write the recommended tracks to `FILE` (.csv, .md or text)",
			Local: local,
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
			Value: "warn",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Shortcut for --log-level debug",
		},
	}
}

// app builds the root command. Without a subcommand it behaves like create.
//
// Slice flags are not split on commas so that an artist name like "Tyler, The Creator" stays whole.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:                      "spotseed",
		Usage:                     "Build a Spotify playlist from recommendations seeded by artists or your saved tracks",
		ArgsUsage:                 "[artist...]",
		Version:                   "0.1.0",
		Flags:                     append(globalFlags(), createFlags(true)...),
		Before:                    r.configureLogging,
		Action:                    r.Create,
		Commands:                  r.register(),
		DisableSliceFlagSeparator: true,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){createCommand, authCommand, setupCommand} {
		commands = append(commands, fn(r))
	}
	return commands
}

// configureLogging applies --log-level and --verbose before any action runs.
func (r *Runner) configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
		return ctx, nil
	}

	level, err := shared.ParseLogLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:                      "create",
		Usage:                     "Create a playlist from recommendations",
		ArgsUsage:                 "[artist...]",
		DisableSliceFlagSeparator: true,
		Flags:                     createFlags(false),
		Action:                    r.Create,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify in the browser and cache the token",
				Flags:  []cli.Flag{configFlag(false)},
				Action: r.AuthLogin,
			},
			{
				Name:   "verify",
				Usage:  "Check the client ID and secret with a client-credentials grant",
				Flags:  []cli.Flag{configFlag(false)},
				Action: r.AuthVerify,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token",
				Flags:  []cli.Flag{configFlag(false)},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token",
				Flags:  []cli.Flag{configFlag(false)},
				Action: r.AuthLogout,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write config.toml and creds.toml templates and initialize the token cache",
		Flags:  []cli.Flag{configFlag(false)},
		Action: r.Setup,
	}
}

// loadSettings reads the configuration and credentials named by --config. Both must load before any network call.
func (r *Runner) loadSettings(cmd *cli.Command) (*shared.Config, *shared.Credentials, error) {
	config := r.config
	if config == nil {
		var err error
		if config, err = shared.LoadConfig(cmd.String("config")); err != nil {
			return nil, nil, err
		}
	}

	creds, err := shared.LoadCredentials(config.CredentialsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return config, creds, nil
}
