package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/services"
	"github.com/bluesky21/spotify/internal/shared"
)

// MaxSavedSeeds caps how many saved tracks seed a recommendation request.
const MaxSavedSeeds = 5

// SeedStrategy derives the seed set for a run and describes it for the playlist.
type SeedStrategy interface {
	Kind() models.SeedKind
	Description() string
	// Validate checks the input without calling the provider.
	Validate() error
	Resolve(ctx context.Context, provider services.Provider) (models.SeedSet, error)
}

// NewSeedStrategy picks [ArtistSeeds] when any non-blank artist name is given, [SavedTrackSeeds] otherwise.
func NewSeedStrategy(artists []string) SeedStrategy {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return SavedTrackSeeds{Limit: MaxSavedSeeds}
	}
	return ArtistSeeds{Names: names}
}

// ArtistSeeds resolves each artist name to the primary artist of the top track search result.
type ArtistSeeds struct {
	Names []string
}

func (s ArtistSeeds) Kind() models.SeedKind { return models.ArtistSeedKind }

func (s ArtistSeeds) Description() string {
	return "Seeded using recommendations from " + strings.Join(s.Names, ", ")
}

// Validate rejects an empty name list and more names than a recommendation request accepts.
func (s ArtistSeeds) Validate() error {
	if len(s.Names) == 0 {
		return fmt.Errorf("%w: at least one artist name", shared.ErrMissingArgument)
	}
	if len(s.Names) > services.MaxSeeds {
		return fmt.Errorf("%w: %d artists given, at most %d allowed", shared.ErrInvalidArgument, len(s.Names), services.MaxSeeds)
	}
	return nil
}

// Resolve searches for every name in order. A name with no result, or whose top result has no artist,
// fails the whole resolution with [shared.ErrArtistNotFound].
func (s ArtistSeeds) Resolve(ctx context.Context, provider services.Provider) (models.SeedSet, error) {
	set := models.SeedSet{Kind: models.ArtistSeedKind}
	if err := s.Validate(); err != nil {
		return set, err
	}

	set.IDs = make([]string, 0, len(s.Names))
	set.Artists = make([]models.ArtistSeed, 0, len(s.Names))

	for _, name := range s.Names {
		results, err := provider.Search(ctx, name)
		if err != nil {
			return set, fmt.Errorf("search %q: %w", name, err)
		}
		if len(results) == 0 {
			return set, fmt.Errorf("%w: no search results for %q", shared.ErrArtistNotFound, name)
		}

		artist, ok := results[0].PrimaryArtist()
		if !ok || artist.ID == "" {
			return set, fmt.Errorf("%w: top result for %q has no artist", shared.ErrArtistNotFound, name)
		}

		set.IDs = append(set.IDs, artist.ID)
		set.Artists = append(set.Artists, models.ArtistSeed{Name: name, ID: artist.ID})
	}

	return set, nil
}

// SavedTrackSeeds uses the user's most recently saved tracks.
//
// Limit defaults to and is clamped at [MaxSavedSeeds].
type SavedTrackSeeds struct {
	Limit int
}

func (s SavedTrackSeeds) Kind() models.SeedKind { return models.TrackSeedKind }

func (s SavedTrackSeeds) Validate() error { return nil }

func (s SavedTrackSeeds) Description() string {
	return "Seeded using latest saved songs"
}

func (s SavedTrackSeeds) limit() int {
	if s.Limit <= 0 || s.Limit > MaxSavedSeeds {
		return MaxSavedSeeds
	}
	return s.Limit
}

// Resolve takes the first IDs of the saved tracks, most recent first.
func (s SavedTrackSeeds) Resolve(ctx context.Context, provider services.Provider) (models.SeedSet, error) {
	set := models.SeedSet{Kind: models.TrackSeedKind}
	limit := s.limit()

	tracks, err := provider.SavedTracks(ctx, limit)
	if err != nil {
		return set, fmt.Errorf("saved tracks: %w", err)
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	set.IDs = models.TrackIDs(tracks)
	if len(set.IDs) == 0 {
		return set, fmt.Errorf("%w: no saved tracks to seed from", shared.ErrNotFound)
	}
	return set, nil
}
