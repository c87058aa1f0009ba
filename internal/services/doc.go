// Package services implements the authenticated Spotify Web API client.
//
// # Request Gateway
//
// [SpotifyClient] wraps every outbound call to the resource API with a
// bearer token obtained from a [TokenSource] (satisfied by auth.Manager).
// Non-success responses become a typed [*APIError] carrying the HTTP
// status and resource path, so callers can classify transient failures
// (rate limits, server errors) against permanent ones (not found,
// forbidden) without string matching.
//
// A 401 from the resource API is surfaced as an [*APIError] like any
// other: the credential manager's expiry margin already guards against
// sending a token it believes valid, so the gateway never forces a
// re-authentication and silently retries.
//
// # Endpoints
//
// Typed wrappers cover the album library (/me/albums, /albums/{id}), the
// player (/me/player/*), and the user profile (/me), based on
// https://developer.spotify.com/documentation/web-api/reference/
package services
