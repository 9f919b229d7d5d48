package services

import (
	"context"

	"github.com/bluesky21/spotify/internal/models"
)

// Provider is the capability set the playlist workflow needs from a music service.
type Provider interface {
	// CurrentUser returns the authenticated account. Playlists are created under it.
	CurrentUser(ctx context.Context) (*models.User, error)

	// Search runs a track search for query and returns results in provider rank order.
	// An empty slice (not an error) is returned when nothing matched.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// SavedTracks returns up to limit of the user's saved tracks, most recently saved first.
	SavedTracks(ctx context.Context, limit int) ([]models.Track, error)

	// Recommend requests recommendations for seeds with the base params.
	Recommend(ctx context.Context, seeds models.SeedSet, params models.RecommendParams) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist for userID from the Name, Description and Public fields of playlist.
	CreatePlaylist(ctx context.Context, userID string, playlist models.Playlist) (*models.Playlist, error)

	// AddItems appends trackIDs, in order, to the playlist.
	AddItems(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
