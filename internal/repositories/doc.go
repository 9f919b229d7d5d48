// Package repositories provides the SQLite persistence used by the CLI.
//
// The only stored data is the OAuth token cache: [TokenRepository] keeps the token from the last interactive login,
// keyed by client ID, so later runs can skip the browser. Playlists, seeds and recommendations are never stored.
package repositories
