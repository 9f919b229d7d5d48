package tasks

import (
	"context"
	"fmt"

	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/services"
	"github.com/bluesky21/spotify/internal/shared"
	"github.com/charmbracelet/log"
)

// State is the furthest point a run has reached.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	SeedResolved
	RecommendationsFetched
	PlaylistCreated
	TracksAdded
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case SeedResolved:
		return "seed_resolved"
	case RecommendationsFetched:
		return "recommendations_fetched"
	case PlaylistCreated:
		return "playlist_created"
	case TracksAdded:
		return "tracks_added"
	default:
		return "unknown"
	}
}

// RunOptions are the per-run inputs read from the command line and configuration.
type RunOptions struct {
	Name   string                 // Playlist name, required
	Public bool                   // Playlist visibility
	Params models.RecommendParams // Base recommendation parameters
}

// RunResult holds everything a run produced up to the state it reached.
type RunResult struct {
	RunID       string           `json:"run_id"`
	State       State            `json:"-"`
	StateName   string           `json:"state"`
	User        *models.User     `json:"user,omitempty"`
	Seeds       models.SeedSet   `json:"seeds"`
	Description string           `json:"description"`
	Tracks      []models.Track   `json:"tracks"`
	Playlist    *models.Playlist `json:"playlist,omitempty"`
}

func (r *RunResult) advance(s State) {
	r.State = s
	r.StateName = s.String()
}

// PlaylistEngine sequences a seeded playlist build against a [services.Provider].
type PlaylistEngine struct {
	provider services.Provider
	logger   *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. A nil logger falls back to [shared.NewLogger].
func NewPlaylistEngine(provider services.Provider, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistEngine{provider: provider, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run authenticates, resolves seeds with strategy, fetches recommendations, creates the playlist and adds the tracks.
//
// On failure the returned result holds the state reached and whatever was produced; a playlist created before
// a failed add is kept and reported, never deleted.
func (e *PlaylistEngine) Run(ctx context.Context, strategy SeedStrategy, opts RunOptions, progress chan<- ProgressUpdate) (*RunResult, error) {
	result := &RunResult{RunID: shared.GenerateID()}
	result.advance(Unauthenticated)

	if opts.Name == "" {
		return result, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	if strategy == nil {
		return result, fmt.Errorf("%w: seed strategy", shared.ErrMissingArgument)
	}
	if err := strategy.Validate(); err != nil {
		return result, err
	}

	logger := shared.WithLogger(e.logger, "run_id", result.RunID, "seed_kind", strategy.Kind())
	result.Description = strategy.Description()

	user, err := e.provider.CurrentUser(ctx)
	if err != nil {
		return result, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil || user.ID == "" {
		return result, fmt.Errorf("authenticate: %w: provider returned no user", shared.ErrNotAuthenticated)
	}
	result.User = user
	result.advance(Authenticated)
	logger.Debug("authenticated", "user", user.ID)
	e.sendProgress(progress, authenticatedUpdate(user))

	seeds, err := strategy.Resolve(ctx, e.provider)
	if err != nil {
		return result, fmt.Errorf("resolve seeds: %w", err)
	}
	result.Seeds = seeds
	result.advance(SeedResolved)
	logger.Debug("seeds resolved", "ids", seeds.IDs)
	e.sendProgress(progress, seedsResolvedUpdate(seeds))

	tracks, err := e.Recommend(ctx, seeds, opts.Params)
	if err != nil {
		return result, err
	}
	result.Tracks = tracks
	result.advance(RecommendationsFetched)
	logger.Debug("recommendations fetched", "count", len(tracks))
	e.sendProgress(progress, recommendationsUpdate(tracks))

	playlist, err := e.BuildPlaylist(ctx, user.ID, opts.Name, opts.Public, result.Description, models.TrackIDs(tracks))
	if playlist != nil {
		result.Playlist = playlist
		result.advance(PlaylistCreated)
		e.sendProgress(progress, createPlaylistUpdate(playlist))
	}
	if err != nil {
		if playlist != nil {
			logger.Warn("playlist left without tracks", "playlist", playlist.ID, "error", err)
		}
		return result, err
	}

	result.advance(TracksAdded)
	logger.Info("playlist built", "playlist", playlist.ID, "tracks", playlist.TrackCount)
	e.sendProgress(progress, addTracksUpdate(playlist, playlist.TrackCount))

	return result, nil
}

// Recommend makes a single recommendation request and returns the tracks in provider order.
func (e *PlaylistEngine) Recommend(ctx context.Context, seeds models.SeedSet, params models.RecommendParams) ([]models.Track, error) {
	tracks, err := e.provider.Recommend(ctx, seeds, params)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return tracks, nil
}

// BuildPlaylist creates the playlist under userID and appends trackIDs in one call.
//
// When adding fails the created playlist is still returned alongside the error.
func (e *PlaylistEngine) BuildPlaylist(ctx context.Context, userID, name string, public bool, description string, trackIDs []string) (*models.Playlist, error) {
	playlist, err := e.provider.CreatePlaylist(ctx, userID, models.Playlist{
		Name:        name,
		Description: description,
		Public:      public,
	})
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	if err := e.provider.AddItems(ctx, playlist.ID, trackIDs); err != nil {
		return playlist, fmt.Errorf("add items to playlist %s: %w", playlist.ID, err)
	}

	playlist.TrackCount = len(trackIDs)
	return playlist, nil
}
