package auth

import "fmt"

var (
	// ErrNotAuthenticated means there is no usable credential bundle and
	// nothing to refresh. The caller must restart the authorization flow.
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// ErrMalformedCallback means the provider redirect carried neither an
	// authorization code nor an error parameter.
	ErrMalformedCallback = fmt.Errorf("callback missing authorization code")

	// ErrMissingVerifier means no PKCE verifier was found in the store:
	// either the session was lost or the callback is a replay.
	ErrMissingVerifier = fmt.Errorf("no code verifier in store")

	// ErrStateMismatch means the state parameter on the callback does not
	// match the one issued with the authorization request.
	ErrStateMismatch = fmt.Errorf("state parameter mismatch")
)

// AuthorizationDeniedError is returned when the provider redirect carries an
// error parameter: the user or provider declined the authorization request.
// Terminal for this attempt.
type AuthorizationDeniedError struct {
	Reason string
}

func (e *AuthorizationDeniedError) Error() string {
	return fmt.Sprintf("authorization denied: %s", e.Reason)
}

// ExchangeError is returned when the token endpoint rejects a code exchange.
// Authorization codes are single-use, so this is never retried with the
// same code.
type ExchangeError struct {
	StatusCode int
	Message    string
}

func (e *ExchangeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("code exchange rejected: status %d", e.StatusCode)
	}
	return fmt.Sprintf("code exchange rejected: status %d: %s", e.StatusCode, e.Message)
}

// RefreshError is returned when the token endpoint rejects a refresh
// request, e.g. for a revoked refresh token. The stale bundle is left in
// the store; clearing it is the caller's decision.
type RefreshError struct {
	StatusCode int
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected: status %d", e.StatusCode)
}
