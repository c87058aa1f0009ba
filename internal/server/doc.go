// Package server provides the HTTP plumbing for the local OAuth callback.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] terminates the authorization-code + PKCE handshake.
// When the user runs `vinyl auth login`, a temporary HTTP server starts on
// the configured host and port, the provider redirects back to /callback,
// and the handler delegates the query parameters to auth.Flow.Complete.
// The outcome is delivered exactly once over a buffered channel and the
// server shuts down.
//
// The handler processes only the first request: authorization codes and
// PKCE verifiers are single-use, so replays are rejected with 400 instead
// of re-exchanged.
package server
