package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bluesky21/spotify/internal/services"
	"github.com/bluesky21/spotify/internal/shared"
	"github.com/bluesky21/spotify/internal/ui"
	"github.com/charmbracelet/log"
)

// Connector returns an authenticated provider and a function releasing what it opened.
type Connector func(ctx context.Context, config *shared.Config, creds *shared.Credentials) (services.Provider, func() error, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	status      io.Writer
	palette     *ui.Palette
	connect     Connector
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config, when set, is used instead of loading --config. Output receives results; Status receives progress and prompts.
type RunnerOpts struct {
	Config      *shared.Config
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Status      io.Writer
	Connect     Connector
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Status == nil {
		opts.Status = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		status:      opts.Status,
		palette:     ui.NewPalette(opts.Status),
		connect:     opts.Connect,
		openBrowser: opts.OpenBrowser,
	}
	if r.connect == nil {
		r.connect = r.connectSpotify
	}
	return r
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

// writeStatus prints a line to the status writer. Failures are logged, never returned.
func (r *Runner) writeStatus(format string, args ...any) {
	if _, err := fmt.Fprintf(r.status, format+"\n", args...); err != nil {
		r.logger.Debug("failed to write status", "error", err)
	}
}
