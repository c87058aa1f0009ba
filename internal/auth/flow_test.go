package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testConfig(tokenURL string) Config {
	return Config{
		ClientID:    "test_client_id",
		RedirectURI: "http://127.0.0.1:3000/callback",
		AuthURL:     "https://accounts.example.com/authorize",
		TokenURL:    tokenURL,
	}
}

// tokenServer fakes the provider token endpoint. Each request's form is
// recorded for assertion.
func tokenServer(t *testing.T, status int, body string) (*httptest.Server, *[]url.Values) {
	t.Helper()

	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		requests = append(requests, r.PostForm)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestFlowBegin(t *testing.T) {
	store := NewMemoryStore()
	flow := NewFlow(testConfig(""), store, nil, nil)

	authURL, err := flow.Begin()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("expected a valid URL, got %v", err)
	}

	t.Run("Persists Handshake", func(t *testing.T) {
		verifier, ok, _ := store.Get(KeyVerifier)
		if !ok || len(verifier) != verifierLength {
			t.Errorf("expected a %d character verifier, got %q", verifierLength, verifier)
		}

		state, ok, _ := store.Get(KeyState)
		if !ok || len(state) != stateLength {
			t.Errorf("expected a %d character state, got %q", stateLength, state)
		}
	})

	t.Run("Authorization URL Parameters", func(t *testing.T) {
		query := parsed.Query()
		verifier, _, _ := store.Get(KeyVerifier)
		state, _, _ := store.Get(KeyState)

		cases := []struct {
			param string
			want  string
		}{
			{"client_id", "test_client_id"},
			{"response_type", "code"},
			{"redirect_uri", "http://127.0.0.1:3000/callback"},
			{"code_challenge_method", "S256"},
			{"code_challenge", CodeChallenge(verifier)},
			{"state", state},
			{"scope", strings.Join(DefaultScopes, " ")},
		}

		for _, c := range cases {
			if got := query.Get(c.param); got != c.want {
				t.Errorf("expected %s=%q, got %q", c.param, c.want, got)
			}
		}
	})

	t.Run("Overwrites Prior Handshake", func(t *testing.T) {
		before, _, _ := store.Get(KeyVerifier)

		if _, err := flow.Begin(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		after, _, _ := store.Get(KeyVerifier)
		if before == after {
			t.Error("expected a fresh verifier for a fresh attempt")
		}
	})
}

func TestFlowComplete(t *testing.T) {
	ctx := context.Background()

	beginFlow := func(t *testing.T, tokenURL string) (*Flow, *MemoryStore, url.Values) {
		t.Helper()

		store := NewMemoryStore()
		flow := NewFlow(testConfig(tokenURL), store, nil, nil)
		if _, err := flow.Begin(); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}

		state, _, _ := store.Get(KeyState)
		return flow, store, url.Values{"code": {"auth_code"}, "state": {state}}
	}

	t.Run("Success", func(t *testing.T) {
		srv, requests := tokenServer(t, http.StatusOK,
			`{"access_token": "new_access", "token_type": "Bearer", "expires_in": 3600, "refresh_token": "new_refresh"}`)
		flow, store, query := beginFlow(t, srv.URL)
		verifier, _, _ := store.Get(KeyVerifier)

		before := time.Now()
		creds, err := flow.Complete(ctx, query)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if creds.AccessToken != "new_access" || creds.RefreshToken != "new_refresh" {
			t.Errorf("unexpected bundle %+v", creds)
		}
		if creds.ExpiresAt.Before(before.Add(59 * time.Minute)) {
			t.Errorf("expected an absolute expiry about an hour out, got %v", creds.ExpiresAt)
		}

		if len(*requests) != 1 {
			t.Fatalf("expected one token request, got %d", len(*requests))
		}
		form := (*requests)[0]
		if form.Get("grant_type") != "authorization_code" {
			t.Errorf("expected authorization_code grant, got %q", form.Get("grant_type"))
		}
		if form.Get("code") != "auth_code" {
			t.Errorf("expected code auth_code, got %q", form.Get("code"))
		}
		if form.Get("code_verifier") != verifier {
			t.Errorf("expected the stored verifier, got %q", form.Get("code_verifier"))
		}

		loaded, err := LoadCredentials(store)
		if err != nil || loaded == nil {
			t.Fatalf("expected a persisted bundle, got %v (%v)", loaded, err)
		}

		if _, ok, _ := store.Get(KeyVerifier); ok {
			t.Error("expected verifier to be cleared after completion")
		}
		if _, ok, _ := store.Get(KeyState); ok {
			t.Error("expected state to be cleared after completion")
		}
	})

	t.Run("Provider Denied", func(t *testing.T) {
		flow, store, _ := beginFlow(t, "")

		_, err := flow.Complete(ctx, url.Values{"error": {"access_denied"}})

		var denied *AuthorizationDeniedError
		if !errors.As(err, &denied) {
			t.Fatalf("expected AuthorizationDeniedError, got %v", err)
		}
		if denied.Reason != "access_denied" {
			t.Errorf("expected reason access_denied, got %q", denied.Reason)
		}

		if _, ok, _ := store.Get(KeyVerifier); ok {
			t.Error("expected verifier to be cleared after denial")
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		flow, _, query := beginFlow(t, "")
		query.Set("state", "forged")

		if _, err := flow.Complete(ctx, query); !errors.Is(err, ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch, got %v", err)
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		flow, _, query := beginFlow(t, "")
		query.Del("code")

		if _, err := flow.Complete(ctx, query); !errors.Is(err, ErrMalformedCallback) {
			t.Errorf("expected ErrMalformedCallback, got %v", err)
		}
	})

	t.Run("Missing Verifier", func(t *testing.T) {
		flow, store, query := beginFlow(t, "")
		store.Remove(KeyVerifier)

		if _, err := flow.Complete(ctx, query); !errors.Is(err, ErrMissingVerifier) {
			t.Errorf("expected ErrMissingVerifier, got %v", err)
		}
	})

	t.Run("Exchange Rejected", func(t *testing.T) {
		srv, _ := tokenServer(t, http.StatusBadRequest,
			`{"error": "invalid_grant", "error_description": "Invalid authorization code"}`)
		flow, store, query := beginFlow(t, srv.URL)

		_, err := flow.Complete(ctx, query)

		var exchange *ExchangeError
		if !errors.As(err, &exchange) {
			t.Fatalf("expected ExchangeError, got %v", err)
		}
		if exchange.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", exchange.StatusCode)
		}
		if !strings.Contains(exchange.Message, "Invalid authorization code") {
			t.Errorf("expected the provider description, got %q", exchange.Message)
		}

		if creds, _ := LoadCredentials(store); creds != nil {
			t.Error("expected no bundle after a rejected exchange")
		}
	})

	t.Run("Verifier Never Reused", func(t *testing.T) {
		srv, _ := tokenServer(t, http.StatusBadRequest, `{"error": "invalid_grant"}`)
		flow, _, query := beginFlow(t, srv.URL)

		if _, err := flow.Complete(ctx, query); err == nil {
			t.Fatal("expected first attempt to fail")
		}

		// Second delivery of the same callback finds no verifier.
		if _, err := flow.Complete(ctx, query); !errors.Is(err, ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch on replay, got %v", err)
		}
	})
}
