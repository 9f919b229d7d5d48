package tasks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/shared"
	tu "github.com/bluesky21/spotify/internal/testing"
	"github.com/charmbracelet/log"
)

func newTestEngine(provider *tu.MockProvider) *PlaylistEngine {
	return NewPlaylistEngine(provider, log.New(io.Discard))
}

func endToEndProvider() *tu.MockProvider {
	return &tu.MockProvider{
		User: &models.User{ID: "user-1", DisplayName: "Tester"},
		SearchResults: map[string][]models.Track{
			"Artist A": {tu.Track("s1", "Hit", "id1", "Artist A")},
			"Artist B": {tu.Track("s2", "Hit", "id2", "Artist B")},
		},
		Recommendations: []models.Track{
			tu.Track("t1", "One", "x", "X"),
			tu.Track("t2", "Two", "y", "Y"),
			tu.Track("t3", "Three", "z", "Z"),
		},
	}
}

// userlessProvider answers CurrentUser with neither a user nor an error.
type userlessProvider struct {
	*tu.MockProvider
}

func (p userlessProvider) CurrentUser(ctx context.Context) (*models.User, error) {
	p.Calls = append(p.Calls, "CurrentUser")
	return nil, nil
}

func TestPlaylistEngineRun(t *testing.T) {
	t.Run("artist seeds end to end", func(t *testing.T) {
		provider := endToEndProvider()
		progress := make(chan ProgressUpdate, 10)

		result, err := newTestEngine(provider).Run(context.Background(),
			NewSeedStrategy([]string{"Artist A", "Artist B"}),
			RunOptions{Name: "Mix", Params: models.RecommendParams{Country: "US"}},
			progress,
		)
		close(progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.State != TracksAdded {
			t.Errorf("expected TracksAdded, got %v", result.State)
		}
		if strings.Join(provider.RecommendSeeds.IDs, ",") != "id1,id2" {
			t.Errorf("expected seeds id1,id2 got %v", provider.RecommendSeeds.IDs)
		}
		if provider.RecommendParams.Country != "US" {
			t.Errorf("expected country US, got %q", provider.RecommendParams.Country)
		}
		if provider.CreateRequest.Description != "Seeded using recommendations from Artist A, Artist B" {
			t.Errorf("unexpected description %q", provider.CreateRequest.Description)
		}
		if provider.CreatedFor != "user-1" || provider.CreateRequest.Name != "Mix" || provider.CreateRequest.Public {
			t.Errorf("unexpected create request %q %+v", provider.CreatedFor, provider.CreateRequest)
		}
		if strings.Join(provider.AddedTrackIDs, ",") != "t1,t2,t3" {
			t.Errorf("expected add-items with t1,t2,t3 got %v", provider.AddedTrackIDs)
		}
		if provider.AddedPlaylistID != "playlist-1" {
			t.Errorf("expected items added to playlist-1, got %s", provider.AddedPlaylistID)
		}
		if result.Playlist == nil || result.Playlist.TrackCount != 3 {
			t.Errorf("expected playlist with 3 tracks, got %+v", result.Playlist)
		}
		if result.RunID == "" {
			t.Error("expected run id")
		}

		var phases []string
		for u := range progress {
			phases = append(phases, u.Phase.String())
		}
		want := "authenticate,resolve_seeds,fetch_recommendations,create_playlist,add_tracks"
		if got := strings.Join(phases, ","); got != want {
			t.Errorf("expected phases %s, got %s", want, got)
		}
	})

	t.Run("saved track seeds", func(t *testing.T) {
		provider := endToEndProvider()
		provider.Saved = []models.Track{tu.Track("r1", "1", "a", "A"), tu.Track("r2", "2", "a", "A")}

		result, err := newTestEngine(provider).Run(context.Background(), NewSeedStrategy(nil), RunOptions{Name: "Mix", Public: true}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if provider.Called("Search") {
			t.Error("expected no search in saved-tracks mode")
		}
		if provider.RecommendSeeds.Kind != models.TrackSeedKind || strings.Join(provider.RecommendSeeds.IDs, ",") != "r1,r2" {
			t.Errorf("unexpected seeds %+v", provider.RecommendSeeds)
		}
		if result.Description != "Seeded using latest saved songs" {
			t.Errorf("unexpected description %q", result.Description)
		}
		if !provider.CreateRequest.Public {
			t.Error("expected public playlist")
		}
	})

	t.Run("missing artist creates nothing", func(t *testing.T) {
		provider := endToEndProvider()

		result, err := newTestEngine(provider).Run(context.Background(),
			NewSeedStrategy([]string{"Artist A", "Unknown"}), RunOptions{Name: "Mix"}, nil)
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Fatalf("expected ErrArtistNotFound, got %v", err)
		}
		if result.State != Authenticated {
			t.Errorf("expected Authenticated, got %v", result.State)
		}
		if provider.Called("Recommend") || provider.Called("CreatePlaylist") || provider.Called("AddItems") {
			t.Errorf("expected no calls after seed failure, got %v", provider.Calls)
		}
	})

	t.Run("add items failure keeps playlist", func(t *testing.T) {
		provider := endToEndProvider()
		provider.AddErr = shared.ErrAPIRequest

		result, err := newTestEngine(provider).Run(context.Background(),
			NewSeedStrategy([]string{"Artist A"}), RunOptions{Name: "Mix"}, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if result.State != PlaylistCreated {
			t.Errorf("expected PlaylistCreated, got %v", result.State)
		}
		if result.Playlist == nil || result.Playlist.ID != "playlist-1" {
			t.Errorf("expected created playlist in result, got %+v", result.Playlist)
		}
		if !strings.Contains(err.Error(), "playlist-1") {
			t.Errorf("expected playlist id in error, got %v", err)
		}
	})

	stepFailures := []struct {
		name  string
		setup func(*tu.MockProvider)
		state State
		step  string
	}{
		{"current user", func(p *tu.MockProvider) { p.UserErr = shared.ErrTokenExpired }, Unauthenticated, "authenticate"},
		{"recommend", func(p *tu.MockProvider) { p.RecommendErr = shared.ErrAPIRequest }, SeedResolved, "recommend"},
		{"create playlist", func(p *tu.MockProvider) { p.CreateErr = shared.ErrAPIRequest }, RecommendationsFetched, "create playlist"},
	}

	for _, tt := range stepFailures {
		t.Run(tt.name+" failure", func(t *testing.T) {
			provider := endToEndProvider()
			tt.setup(provider)

			result, err := newTestEngine(provider).Run(context.Background(),
				NewSeedStrategy([]string{"Artist A"}), RunOptions{Name: "Mix"}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.step) {
				t.Errorf("expected error prefixed with %q, got %v", tt.step, err)
			}
			if result.State != tt.state {
				t.Errorf("expected state %v, got %v", tt.state, result.State)
			}
			if provider.Called("AddItems") {
				t.Error("expected no add-items call")
			}
		})
	}

	t.Run("requires playlist name", func(t *testing.T) {
		provider := endToEndProvider()

		_, err := newTestEngine(provider).Run(context.Background(), NewSeedStrategy(nil), RunOptions{}, nil)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if len(provider.Calls) != 0 {
			t.Errorf("expected no provider calls, got %v", provider.Calls)
		}
	})

	t.Run("missing user is not authenticated", func(t *testing.T) {
		provider := endToEndProvider()

		result, err := NewPlaylistEngine(userlessProvider{provider}, log.New(io.Discard)).Run(context.Background(),
			NewSeedStrategy([]string{"Artist A"}), RunOptions{Name: "Mix"}, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if result.State != Unauthenticated {
			t.Errorf("expected Unauthenticated, got %v", result.State)
		}
		if provider.Called("Search") || provider.Called("CreatePlaylist") {
			t.Errorf("expected no further calls, got %v", provider.Calls)
		}
	})

	t.Run("too many artists fails before any call", func(t *testing.T) {
		provider := endToEndProvider()

		_, err := newTestEngine(provider).Run(context.Background(),
			NewSeedStrategy([]string{"A", "B", "C", "D", "E", "F"}), RunOptions{Name: "Mix"}, nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(provider.Calls) != 0 {
			t.Errorf("expected no provider calls, got %v", provider.Calls)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 1)

		_, err := newTestEngine(endToEndProvider()).Run(context.Background(),
			NewSeedStrategy([]string{"Artist A"}), RunOptions{Name: "Mix"}, progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(progress) != 1 {
			t.Errorf("expected one buffered update, got %d", len(progress))
		}
	})
}

func TestBuildPlaylist(t *testing.T) {
	t.Run("adds exactly the given ids in order", func(t *testing.T) {
		provider := &tu.MockProvider{}
		ids := []string{"k3", "k1", "k2", "k1"}

		pl, err := newTestEngine(provider).BuildPlaylist(context.Background(), "user-1", "Mix", false, "desc", ids)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Join(provider.AddedTrackIDs, ",") != "k3,k1,k2,k1" {
			t.Errorf("unexpected ids %v", provider.AddedTrackIDs)
		}
		if pl.TrackCount != 4 {
			t.Errorf("expected track count 4, got %d", pl.TrackCount)
		}
	})

	t.Run("create failure returns no playlist", func(t *testing.T) {
		provider := &tu.MockProvider{CreateErr: shared.ErrAPIRequest}

		pl, err := newTestEngine(provider).BuildPlaylist(context.Background(), "user-1", "Mix", false, "desc", []string{"a"})
		if pl != nil || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected nil playlist and ErrAPIRequest, got %v, %v", pl, err)
		}
		if provider.Called("AddItems") {
			t.Error("expected no add-items call")
		}
	})
}

func TestStateString(t *testing.T) {
	if TracksAdded.String() != "tracks_added" || State(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
}
