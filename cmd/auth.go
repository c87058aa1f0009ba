package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vinyl/internal/auth"
	"github.com/desertthunder/vinyl/internal/server"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the OAuth2 PKCE authorization flow.
//
// Starts a local HTTP server for the callback, opens the browser for user
// authorization, and persists the resulting credential bundle.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.config.Spotify.ClientID == "" {
		return fmt.Errorf("%w: Spotify client_id must be set in config.toml", shared.ErrMissingConfig)
	}

	authURL, err := r.flow.Begin()
	if err != nil {
		return fmt.Errorf("failed to start authorization: %w", err)
	}

	handler := server.NewCallbackHandler(r.flow)
	router := server.NewBasicRouter()
	router.Handler(handler)

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if err := result.Error(); err != nil {
		var denied *auth.AuthorizationDeniedError
		if errors.As(err, &denied) {
			return fmt.Errorf("%w: %s — run vinyl auth login to try again", shared.ErrAuthFailed, denied.Reason)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Access token valid until %s\n\n", result.Credentials.ExpiresAt.Format(time.RFC1123))
	r.writePlain("You can now use: vinyl albums list\n")

	return nil
}

// AuthStatus reports the state of the stored credential bundle.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds, err := auth.LoadCredentials(r.store)
	if err != nil {
		return err
	}

	if creds == nil {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run: vinyl auth login\n")
		return nil
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("Token expires: %s\n", creds.ExpiresAt.Format(time.RFC1123))
	if creds.Fresh(auth.RefreshMargin, time.Now()) {
		r.writePlain("Status: valid\n")
	} else if creds.RefreshToken != "" {
		r.writePlain("Status: expiring, will refresh on next use\n")
	} else {
		r.writePlain("Status: expired with no refresh token, run vinyl auth login\n")
	}

	if !cmd.Bool("probe") {
		return nil
	}

	user, err := r.spotify.UserProfile(ctx)
	if err != nil {
		r.logger.Warnf("profile probe failed %v", err)
		r.writePlain("Profile: unavailable (%v)\n", err)
		return nil
	}

	r.writePlain("Profile: %s (%s)\n", user.DisplayName, user.Product)

	return nil
}

// AuthLogout clears the stored credential bundle.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := auth.ClearCredentials(r.store); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	r.logger.Info("credentials cleared")
	return r.writePlain("✓ Signed out\n")
}
