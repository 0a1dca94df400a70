// Package identity implements the Google sign-in capability consumed by the
// bridge: interactive sign-in over a loopback redirect, silent session
// restore from persisted credentials, and sign-out.
package identity

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// User is the identity returned by sign-in and restore.
type User struct {
	Email string
}

// Presenter presents the provider's interactive consent flow to the user.
// The concrete implementation opens the consent URL in the system browser.
type Presenter interface {
	Present(ctx context.Context, authURL string) error
}

// signInTimeout bounds how long an interactive flow may stay pending.
const signInTimeout = 5 * time.Minute

// Config configures the Google provider. A zero Endpoint means Google's
// public endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is the loopback callback route served by the host.
	RedirectURL string
	Endpoint    oauth2.Endpoint
}

type redirectResult struct {
	code string
	err  error
}

// Google performs the OAuth flows. Redirect completion arrives out of band
// via HandleRedirect, correlated to the waiting SignIn call by the state
// nonce.
type Google struct {
	cfg   oauth2.Config
	store *Store

	mu      sync.Mutex
	pending map[string]chan redirectResult
}

func NewGoogle(cfg Config, store *Store) *Google {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = endpoints.Google
	}
	return &Google{
		cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		store:   store,
		pending: make(map[string]chan redirectResult),
	}
}

// SignIn runs the interactive consent flow for the given scopes and returns
// the signed-in user and a bearer access token. The user identity persists
// in the credential store so a later silent restore can succeed.
func (g *Google) SignIn(ctx context.Context, presenter Presenter, scopes []string) (*User, string, error) {
	if presenter == nil {
		return nil, "", fmt.Errorf("no presentation context")
	}

	cfg := g.cfg
	cfg.Scopes = scopes

	state := uuid.NewString()
	result := make(chan redirectResult, 1)

	g.mu.Lock()
	g.pending[state] = result
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		delete(g.pending, state)
		g.mu.Unlock()
	}()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	if err := presenter.Present(ctx, authURL); err != nil {
		return nil, "", fmt.Errorf("present consent flow: %w", err)
	}

	var code string
	select {
	case res := <-result:
		if res.err != nil {
			return nil, "", res.err
		}
		code = res.code
	case <-time.After(signInTimeout):
		return nil, "", fmt.Errorf("sign-in timed out")
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange authorization code: %w", err)
	}

	user := &User{Email: emailFromIDToken(token)}
	if err := g.store.Save(&Credentials{Email: user.Email, Token: token}); err != nil {
		// A failed save only costs the next silent restore.
		log.Printf("[gemini-shell] persist credentials: %v", err)
	}

	return user, token.AccessToken, nil
}

// RestorePreviousSignIn silently restores a prior session. It returns
// (nil, nil) when no credentials are stored; a refresh failure is an error
// the caller treats as "no session".
func (g *Google) RestorePreviousSignIn(ctx context.Context) (*User, error) {
	creds, err := g.store.Load()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, nil
	}

	token, err := g.cfg.TokenSource(ctx, creds.Token).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	if token.AccessToken != creds.Token.AccessToken {
		if err := g.store.Save(&Credentials{Email: creds.Email, Token: token}); err != nil {
			log.Printf("[gemini-shell] persist refreshed credentials: %v", err)
		}
	}

	return &User{Email: creds.Email}, nil
}

// SignOut clears the persisted credentials.
func (g *Google) SignOut(ctx context.Context) error {
	return g.store.Clear()
}

// HandleRedirect completes a pending interactive flow. The host forwards
// every request on the callback route here unconditionally; requests that
// match no pending state are answered with an error page and otherwise
// ignored.
func (g *Google) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := query.Get("state")

	g.mu.Lock()
	result, ok := g.pending[state]
	if ok {
		delete(g.pending, state)
	}
	g.mu.Unlock()

	if !ok {
		log.Printf("[gemini-shell] redirect with unknown state")
		http.Error(w, "unknown sign-in attempt", http.StatusBadRequest)
		return
	}

	if errCode := query.Get("error"); errCode != "" {
		result <- redirectResult{err: fmt.Errorf("provider error: %s", errCode)}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>Sign-in failed. You can close this window.</body></html>"))
		return
	}

	code := query.Get("code")
	if code == "" {
		result <- redirectResult{err: fmt.Errorf("redirect carried no authorization code")}
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	result <- redirectResult{code: code}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<html><body>Signed in. You can close this window.</body></html>"))
}

// emailFromIDToken pulls the email claim out of the ID token, if one came
// back with the exchange. The token arrived over TLS from the provider, so
// the claims are read without signature verification.
func emailFromIDToken(token *oauth2.Token) string {
	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}

	email, _ := claims["email"].(string)
	return email
}
