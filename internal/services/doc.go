// Package services defines the [Provider] interface for music streaming providers and implements it for Spotify.
//
// # Provider Interface
//
// The playlist workflow only talks to [Provider]: current user, track search, saved tracks, recommendations,
// playlist creation and bulk track insertion. Tests substitute a mock.
//
// # Spotify Implementation
//
// [SpotifyService] wraps a [spotify.Client] built on an [oauth2] HTTP client.
//
// The [oauth2.Config] endpoint and scopes come from configuration. The client refreshes expired access tokens with
// the refresh token, and [SpotifyService.SetTokenRefreshCallback] reports each new token so the CLI can update the
// token cache.
//
// [SpotifyService.VerifyCredentials] runs the client-credentials grant to check the client ID/secret pair without
// a user login.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : provider answered 401, reauthorization needed
//   - [shared.ErrAPIRequest] : any other failed provider call
//   - [shared.ErrAuthFailed] : token endpoint rejected the credentials
package services
