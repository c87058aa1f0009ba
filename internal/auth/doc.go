// Package auth implements the OAuth2 authorization-code flow with PKCE
// against the Spotify accounts service.
//
// # Components
//
// [Flow] drives the handshake: it builds the authorization redirect with a
// fresh code challenge and anti-forgery state, and exchanges the callback
// code for a credential bundle.
//
// [Manager] owns the bundle afterwards: it hands out a bearer token that is
// valid for at least [RefreshMargin], refreshing through the token endpoint
// on demand. Concurrent callers that hit the refresh window share a single
// in-flight refresh request.
//
// # Persistence
//
// Both depend on a [Store], a small durable key/value capability. The
// credential bundle is serialized as one value so its access token, refresh
// token, and expiry are always replaced as a unit. [MemoryStore] is the
// in-process implementation; a SQLite-backed one lives in
// internal/repositories.
//
// # Failure taxonomy
//
// Every failure is surfaced as a sentinel or typed error
// ([ErrNotAuthenticated], [ErrMissingVerifier], [AuthorizationDeniedError],
// [ExchangeError], [RefreshError], ...) so callers can decide between
// restarting authorization, retrying, or reporting. Nothing in this package
// retries on its own: an authorization code is single-use and a rejected
// refresh leaves the stored bundle untouched.
package auth
