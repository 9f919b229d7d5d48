package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluesky21/spotify/internal/shared"
	"golang.org/x/oauth2"
)

// CachedToken is a token row plus the account it was issued for.
type CachedToken struct {
	ClientID  string
	UserID    string
	Scopes    []string
	Token     *oauth2.Token
	UpdatedAt time.Time
}

// TokenRepository persists OAuth tokens keyed by client ID.
type TokenRepository struct {
	db Execer
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db Execer) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save inserts or replaces the token for clientID.
func (r *TokenRepository) Save(ctx context.Context, clientID string, token *oauth2.Token, scopes []string) error {
	if clientID == "" {
		return fmt.Errorf("%w: client ID is required", shared.ErrInvalidInput)
	}
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: token has no access token", shared.ErrInvalidInput)
	}

	var expiry sql.NullTime
	if !token.Expiry.IsZero() {
		expiry = sql.NullTime{Time: token.Expiry.UTC(), Valid: true}
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	query := `
		INSERT INTO oauth_tokens (client_id, access_token, refresh_token, token_type, expiry, scopes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN oauth_tokens.refresh_token ELSE excluded.refresh_token END,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			scopes = CASE WHEN excluded.scopes = '' THEN oauth_tokens.scopes ELSE excluded.scopes END,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		clientID, token.AccessToken, token.RefreshToken, tokenType, expiry, strings.Join(scopes, " "), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Get retrieves the cached token for clientID. Returns [shared.ErrNoToken] when none is stored.
func (r *TokenRepository) Get(ctx context.Context, clientID string) (*CachedToken, error) {
	query := `
		SELECT access_token, refresh_token, token_type, expiry, scopes, user_id, updated_at
		FROM oauth_tokens
		WHERE client_id = ?
	`

	var (
		access, refresh, tokenType string
		scopes, userID             string
		expiry                     sql.NullTime
		updatedAt                  time.Time
	)

	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&access, &refresh, &tokenType, &expiry, &scopes, &userID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for client %s", shared.ErrNoToken, clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
	}
	if expiry.Valid {
		token.Expiry = expiry.Time
	}

	return &CachedToken{
		ClientID:  clientID,
		UserID:    userID,
		Scopes:    strings.Fields(scopes),
		Token:     token,
		UpdatedAt: updatedAt,
	}, nil
}

// SetUser records the provider account the cached token belongs to.
func (r *TokenRepository) SetUser(ctx context.Context, clientID, userID string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE oauth_tokens SET user_id = ? WHERE client_id = ?", userID, clientID)
	if err != nil {
		return fmt.Errorf("failed to update token user: %w", err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w for client %s", shared.ErrNoToken, clientID)
	}
	return nil
}

// Delete removes the cached token for clientID. Deleting a missing token returns [shared.ErrNoToken].
func (r *TokenRepository) Delete(ctx context.Context, clientID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM oauth_tokens WHERE client_id = ?", clientID)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w for client %s", shared.ErrNoToken, clientID)
	}
	return nil
}
