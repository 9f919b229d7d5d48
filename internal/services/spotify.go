// Spotify API implementation of [Provider]
//
// Requests go through [spotify.Client]; https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// MaxSeeds is the most seed values the recommendation endpoint accepts.
const MaxSeeds = 5

// DefaultScopes are requested when the configuration does not list any.
var DefaultScopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserReadPrivate,
}

// SpotifyService implements the [Provider] interface for Spotify API interactions.
// Uses [oauth2] for authentication and [spotify.Client] for requests.
type SpotifyService struct {
	config         *oauth2.Config
	apiURL         string
	httpClient     *http.Client
	client         *spotify.Client
	token          *oauth2.Token
	onTokenRefresh func(*oauth2.Token)
}

// Option configures a [SpotifyService].
type Option func(*SpotifyService)

// WithHTTPClient sets the base HTTP client used for API and token requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) {
		s.httpClient = c
	}
}

// NewSpotifyService creates a new Spotify service from the configuration and the application credentials.
func NewSpotifyService(config *shared.Config, creds *shared.Credentials, opts ...Option) (*SpotifyService, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: client_id and client_secret", shared.ErrMissingCredentials)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if config == nil {
		config = shared.DefaultConfig()
	}

	scopes := config.Constants.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	authURL, tokenURL := config.Endpoints.Auth, config.Endpoints.OAuth
	if authURL == "" {
		authURL = spotifyauth.AuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	apiURL := config.Constants.APIURL
	if apiURL != "" && !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  config.Constants.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		apiURL:     apiURL,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// ClientID returns the application client ID. It keys the token cache.
func (s *SpotifyService) ClientID() string {
	return s.config.ClientID
}

// Scopes returns the scopes requested at login.
func (s *SpotifyService) Scopes() []string {
	return s.config.Scopes
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token using the service's HTTP client.
func (s *SpotifyService) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	token, err := s.config.Exchange(s.withHTTPClient(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// SetTokenRefreshCallback registers fn to receive every new token the client obtains, including the first one.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate builds the API client around token. Expired tokens are refreshed on first use when they carry a refresh token.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: missing access or refresh token", shared.ErrNotAuthenticated)
	}

	ctx = s.withHTTPClient(ctx)
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.notifyRefresh,
	}

	var opts []spotify.ClientOption
	if s.apiURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.apiURL))
	}

	s.token = token
	s.client = spotify.New(oauth2.NewClient(ctx, source), opts...)
	return nil
}

// VerifyCredentials requests a client-credentials token to check the client ID/secret pair.
//
// A rejection by the token endpoint is reported as [shared.ErrAuthFailed] with the HTTP status.
func (s *SpotifyService) VerifyCredentials(ctx context.Context) error {
	cc := &clientcredentials.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		TokenURL:     s.config.Endpoint.TokenURL,
	}

	token, err := cc.Token(s.withHTTPClient(ctx))
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			return fmt.Errorf("%w: token endpoint returned status %d", shared.ErrAuthFailed, rErr.Response.StatusCode)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}
	return nil
}

func (s *SpotifyService) notifyRefresh(token *oauth2.Token) {
	s.token = token
	if s.onTokenRefresh != nil {
		s.onTokenRefresh(token)
	}
}

func (s *SpotifyService) withHTTPClient(ctx context.Context) context.Context {
	if s.httpClient == nil || s.httpClient == http.DefaultClient {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return s.client, nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, wrapError("current user", err)
	}

	return &models.User{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// Search runs a track search and returns the results in rank order.
func (s *SpotifyService) Search(ctx context.Context, query string) ([]models.Track, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	result, err := c.Search(ctx, query, spotify.SearchTypeTrack)
	if err != nil {
		return nil, wrapError("search", err)
	}

	tracks := []models.Track{}
	if result.Tracks == nil {
		return tracks, nil
	}

	for _, t := range result.Tracks.Tracks {
		tracks = append(tracks, fromFullTrack(t))
	}
	return tracks, nil
}

// SavedTracks retrieves up to limit (1-50, default 20) of the user's saved tracks, most recent first.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit int) ([]models.Track, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	page, err := c.CurrentUsersTracks(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, wrapError("saved tracks", err)
	}

	tracks := make([]models.Track, 0, len(page.Tracks))
	for _, st := range page.Tracks {
		tracks = append(tracks, fromFullTrack(st.FullTrack))
	}
	return tracks, nil
}

// Recommend requests recommendations seeded by artists or tracks, restricted to params.Country.
func (s *SpotifyService) Recommend(ctx context.Context, set models.SeedSet, params models.RecommendParams) ([]models.Track, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: at least one seed is required", shared.ErrInvalidInput)
	}
	if set.Len() > MaxSeeds {
		return nil, fmt.Errorf("%w: %d seeds given, at most %d allowed", shared.ErrInvalidArgument, set.Len(), MaxSeeds)
	}

	var seeds spotify.Seeds
	switch set.Kind {
	case models.ArtistSeedKind:
		seeds.Artists = toIDs(set.IDs)
	case models.TrackSeedKind:
		seeds.Tracks = toIDs(set.IDs)
	default:
		return nil, fmt.Errorf("%w: seed kind %v", shared.ErrInvalidInput, set.Kind)
	}

	var opts []spotify.RequestOption
	if params.Country != "" {
		opts = append(opts, spotify.Market(params.Country))
	}

	recs, err := c.GetRecommendations(ctx, seeds, spotify.NewTrackAttributes(), opts...)
	if err != nil {
		return nil, wrapError("recommendations", err)
	}

	tracks := make([]models.Track, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		tracks = append(tracks, fromSimpleTrack(t))
	}
	return tracks, nil
}

// CreatePlaylist creates an empty, non-collaborative playlist under userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID string, playlist models.Playlist) (*models.Playlist, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	created, err := c.CreatePlaylistForUser(ctx, userID, playlist.Name, playlist.Description, playlist.Public, false)
	if err != nil {
		return nil, wrapError("create playlist", err)
	}

	return &models.Playlist{
		ID:          string(created.ID),
		Name:        created.Name,
		Description: created.Description,
		Public:      created.IsPublic,
		URL:         created.ExternalURLs["spotify"],
	}, nil
}

// AddItems appends tracks to a playlist in one request.
func (s *SpotifyService) AddItems(ctx context.Context, playlistID string, trackIDs []string) error {
	c, err := s.api()
	if err != nil {
		return err
	}

	if len(trackIDs) == 0 {
		return nil
	}

	if _, err := c.AddTracksToPlaylist(ctx, spotify.ID(playlistID), toIDs(trackIDs)...); err != nil {
		return wrapError("add items", err)
	}
	return nil
}

// wrapError maps client errors onto the shared sentinels. A 401 means the token is no longer usable.
func wrapError(op string, err error) error {
	var status int
	var message string

	var spErr spotify.Error
	var spErrPtr *spotify.Error
	switch {
	case errors.As(err, &spErr):
		status, message = spErr.Status, spErr.Message
	case errors.As(err, &spErrPtr):
		status, message = spErrPtr.Status, spErrPtr.Message
	default:
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return fmt.Errorf("%w: %s: token refresh failed: %v", shared.ErrTokenExpired, op, err)
		}
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}

	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: %s", shared.ErrTokenExpired, op, message)
	}
	return fmt.Errorf("%w: %s: status %d: %s", shared.ErrAPIRequest, op, status, message)
}

func toIDs(ids []string) []spotify.ID {
	out := make([]spotify.ID, len(ids))
	for i, id := range ids {
		out[i] = spotify.ID(id)
	}
	return out
}

func fromSimpleTrack(t spotify.SimpleTrack) models.Track {
	artists := make([]models.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, models.Artist{ID: string(a.ID), Name: a.Name})
	}
	return models.Track{ID: string(t.ID), Name: t.Name, Artists: artists}
}

func fromFullTrack(t spotify.FullTrack) models.Track {
	track := fromSimpleTrack(t.SimpleTrack)
	track.Album = t.Album.Name
	return track
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and invokes callback whenever the access token changes.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		// a failing callback must not fail the request that triggered the refresh
		func() {
			defer func() { _ = recover() }()
			r.callback(token)
		}()
	}

	return token, nil
}
