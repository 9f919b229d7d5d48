// Package server provides the local HTTP plumbing for the OAuth2 authorization code flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [RequestLogger] is the stock middleware; it logs each request with the status written.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter (CSRF protection), exchanges the authorization code for a token,
// and sends the result through a channel. It only processes one callback.
//
// # Callback Server
//
// [CallbackServer] listens on the host:port taken from the configured redirect URI, serves the handler,
// and returns the first result or an error once its timeout (two minutes by default) elapses.
package server
