// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/bluesky21/spotify/internal/models"
)

// MockProvider is a test double for [services.Provider].
//
// Canned responses and errors are set as fields; every call is recorded in order.
type MockProvider struct {
	User            *models.User
	SearchResults   map[string][]models.Track
	Saved           []models.Track
	Recommendations []models.Track
	Created         *models.Playlist

	UserErr      error
	SearchErr    error
	SavedErr     error
	RecommendErr error
	CreateErr    error
	AddErr       error

	Calls           []string
	Searches        []string
	SavedLimit      int
	RecommendSeeds  models.SeedSet
	RecommendParams models.RecommendParams
	CreatedFor      string
	CreateRequest   models.Playlist
	AddedPlaylistID string
	AddedTrackIDs   []string
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) CurrentUser(ctx context.Context) (*models.User, error) {
	m.Calls = append(m.Calls, "CurrentUser")
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	if m.User == nil {
		return &models.User{ID: "user-1", DisplayName: "Test User"}, nil
	}
	return m.User, nil
}

func (m *MockProvider) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.Calls = append(m.Calls, "Search")
	m.Searches = append(m.Searches, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if tracks, ok := m.SearchResults[query]; ok {
		return tracks, nil
	}
	return []models.Track{}, nil
}

func (m *MockProvider) SavedTracks(ctx context.Context, limit int) ([]models.Track, error) {
	m.Calls = append(m.Calls, "SavedTracks")
	m.SavedLimit = limit
	if m.SavedErr != nil {
		return nil, m.SavedErr
	}
	return m.Saved, nil
}

func (m *MockProvider) Recommend(ctx context.Context, seeds models.SeedSet, params models.RecommendParams) ([]models.Track, error) {
	m.Calls = append(m.Calls, "Recommend")
	m.RecommendSeeds = seeds
	m.RecommendParams = params
	if m.RecommendErr != nil {
		return nil, m.RecommendErr
	}
	return m.Recommendations, nil
}

func (m *MockProvider) CreatePlaylist(ctx context.Context, userID string, playlist models.Playlist) (*models.Playlist, error) {
	m.Calls = append(m.Calls, "CreatePlaylist")
	m.CreatedFor = userID
	m.CreateRequest = playlist
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created != nil {
		return m.Created, nil
	}
	created := playlist
	created.ID = "playlist-1"
	return &created, nil
}

func (m *MockProvider) AddItems(ctx context.Context, playlistID string, trackIDs []string) error {
	m.Calls = append(m.Calls, "AddItems")
	m.AddedPlaylistID = playlistID
	m.AddedTrackIDs = trackIDs
	return m.AddErr
}

// Called reports whether method was invoked at least once.
func (m *MockProvider) Called(method string) bool {
	for _, c := range m.Calls {
		if c == method {
			return true
		}
	}
	return false
}

// Track builds a track credited to a single artist.
func Track(id, name, artistID, artistName string) models.Track {
	return models.Track{ID: id, Name: name, Artists: []models.Artist{{ID: artistID, Name: artistName}}}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.response, m.err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
