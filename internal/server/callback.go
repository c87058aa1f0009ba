package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/vinyl/internal/auth"
)

// CallbackResult contains the outcome of the authorization handshake.
type CallbackResult struct {
	Credentials *auth.Credentials
	err         error
}

func (r *CallbackResult) Error() error {
	return r.err
}

// CallbackHandler consumes the OAuth redirect for the PKCE flow.
// Implements the [Handler] interface for registration with a [Router].
//
// Only the first request is processed; the authorization code and the
// stored verifier are both single-use, so a second hit is rejected rather
// than re-exchanged.
type CallbackHandler struct {
	flow        *auth.Flow
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler delegating to the given flow.
func NewCallbackHandler(flow *auth.Flow) *CallbackHandler {
	return &CallbackHandler{
		flow:       flow,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the provider's redirect: it hands the query parameters
// to the flow, delivers the result through the result channel, and renders
// a minimal page telling the user to return to the terminal.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	creds, err := h.flow.Complete(r.Context(), r.URL.Query())
	if err != nil {
		h.send(CallbackResult{err: err})
		h.renderFailure(w, err)
		return
	}

	h.send(CallbackResult{Credentials: creds})
	h.renderSuccess(w)
}

// send delivers the result through the channel (only once).
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the handshake outcome.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *CallbackHandler) renderSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackPage("✓ Authorization Successful", "You can close this window and return to the terminal."))
}

func (h *CallbackHandler) renderFailure(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprint(w, callbackPage("✗ Authorization Failed", err.Error()))
}

func callbackPage(title, message string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <title>vinyl</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, title, message)
}
