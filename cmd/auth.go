package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bluesky21/spotify/internal/repositories"
	"github.com/bluesky21/spotify/internal/server"
	"github.com/bluesky21/spotify/internal/services"
	"github.com/bluesky21/spotify/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func (r *Runner) newSpotifyService(config *shared.Config, creds *shared.Credentials) (*services.SpotifyService, error) {
	svc, err := services.NewSpotifyService(config, creds, services.WithHTTPClient(r.httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return svc, nil
}

func (r *Runner) openTokenCache(config *shared.Config) (*sql.DB, *repositories.TokenRepository, error) {
	db, err := shared.OpenTokenCache(config.CachePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token cache: %w", err)
	}
	return db, repositories.NewTokenRepository(db), nil
}

// coversScopes reports whether a cached grant includes every wanted scope. An unknown grant is trusted.
func coversScopes(have, want []string) bool {
	if len(have) == 0 {
		return true
	}
	for _, s := range want {
		if !slices.Contains(have, s) {
			return false
		}
	}
	return true
}

// connectSpotify is the default [Connector]: a cached token when one covers the configured scopes, otherwise an
// interactive login. Refreshed tokens are written back to the cache.
func (r *Runner) connectSpotify(ctx context.Context, config *shared.Config, creds *shared.Credentials) (services.Provider, func() error, error) {
	svc, err := r.newSpotifyService(config, creds)
	if err != nil {
		return nil, nil, err
	}

	db, repo, err := r.openTokenCache(config)
	if err != nil {
		return nil, nil, err
	}

	token, err := r.cachedOrLogin(ctx, config, svc, repo)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	clientID, scopes := svc.ClientID(), svc.Scopes()
	svc.SetTokenRefreshCallback(func(t *oauth2.Token) {
		if err := repo.Save(context.Background(), clientID, t, scopes); err != nil {
			r.logger.Warn("failed to cache refreshed token", "error", err)
		}
	})

	if err := svc.Authenticate(ctx, token); err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, db.Close, nil
}

func (r *Runner) cachedOrLogin(ctx context.Context, config *shared.Config, svc *services.SpotifyService, repo *repositories.TokenRepository) (*oauth2.Token, error) {
	cached, err := repo.Get(ctx, svc.ClientID())
	switch {
	case err == nil && coversScopes(cached.Scopes, svc.Scopes()):
		r.logger.Debug("using cached token", "user", cached.UserID, "expiry", cached.Token.Expiry)
		return cached.Token, nil
	case err == nil:
		r.logger.Info("cached token lacks configured scopes, signing in again")
	case errors.Is(err, shared.ErrNoToken):
		r.logger.Info("no cached token, signing in")
	default:
		return nil, err
	}

	token, err := r.login(ctx, config, svc)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, svc.ClientID(), token, svc.Scopes()); err != nil {
		return nil, fmt.Errorf("failed to cache token: %w", err)
	}
	return token, nil
}

// login runs the authorization code flow through a local callback server on the redirect URI.
func (r *Runner) login(ctx context.Context, config *shared.Config, svc *services.SpotifyService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	addr, err := config.CallbackAddr()
	if err != nil {
		return nil, err
	}

	authURL := svc.GetAuthURL(state)
	callback := &server.CallbackServer{
		Addr:    addr,
		Handler: server.NewOAuthHandler(svc, state, config.CallbackPath()),
		Logger:  r.logger,
	}

	return callback.Wait(ctx, func(string) {
		r.writeStatus("%s", r.palette.Title("Spotify authorization"))
		r.writeStatus("→ Opening browser...")
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err)
			r.writeStatus("%s", r.palette.Warn("Could not open browser automatically."))
			r.writeStatus("Please open this URL in your browser:\n%s\n", r.palette.Help(authURL))
		}
		r.writeStatus("→ Waiting for authorization (%s timeout)...", server.DefaultCallbackTimeout)
	})
}

// AuthLogin always runs the interactive login and replaces the cached token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config, creds, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}

	svc, err := r.newSpotifyService(config, creds)
	if err != nil {
		return err
	}

	db, repo, err := r.openTokenCache(config)
	if err != nil {
		return err
	}
	defer db.Close()

	token, err := r.login(ctx, config, svc)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, svc.ClientID(), token, svc.Scopes()); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}

	if err := svc.Authenticate(ctx, token); err != nil {
		return err
	}
	user, err := svc.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := repo.SetUser(ctx, svc.ClientID(), user.ID); err != nil {
		r.logger.Warn("failed to record token owner", "error", err)
	}

	r.writeStatus("%s", r.palette.OK("Authorization successful"))
	return r.writePlainln("Signed in as %s (%s); token cached in %s", user.DisplayName, user.ID, config.CachePath())
}

// AuthVerify checks the client ID and secret without user interaction.
func (r *Runner) AuthVerify(ctx context.Context, cmd *cli.Command) error {
	config, creds, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}

	svc, err := r.newSpotifyService(config, creds)
	if err != nil {
		return err
	}

	if err := svc.VerifyCredentials(ctx); err != nil {
		return err
	}
	return r.writePlainln("%s", r.palette.OK("Client credentials accepted"))
}

// AuthStatus prints what the token cache holds for the configured client.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config, creds, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}

	db, repo, err := r.openTokenCache(config)
	if err != nil {
		return err
	}
	defer db.Close()

	cached, err := repo.Get(ctx, creds.ClientID)
	if errors.Is(err, shared.ErrNoToken) {
		return r.writePlainln("No cached token; run 'spotseed auth login'")
	}
	if err != nil {
		return err
	}

	r.writePlainln("Client: %s", cached.ClientID)
	if cached.UserID != "" {
		r.writePlainln("User: %s", cached.UserID)
	}
	if len(cached.Scopes) > 0 {
		r.writePlainln("Scopes: %v", cached.Scopes)
	}
	switch expiry := cached.Token.Expiry; {
	case expiry.IsZero():
		r.writePlainln("Expires: never")
	case expiry.Before(time.Now()):
		r.writePlainln("Expired: %s (refreshed on next use)", expiry.Local().Format(time.RFC3339))
	default:
		r.writePlainln("Expires: %s", expiry.Local().Format(time.RFC3339))
	}
	return r.writePlainln("Updated: %s", cached.UpdatedAt.Local().Format(time.RFC3339))
}

// AuthLogout deletes the cached token for the configured client.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	config, creds, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}

	db, repo, err := r.openTokenCache(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Delete(ctx, creds.ClientID); err != nil {
		if errors.Is(err, shared.ErrNoToken) {
			return r.writePlainln("No cached token to remove")
		}
		return err
	}
	return r.writePlainln("%s", r.palette.OK("Cached token removed"))
}
