// Package bridge routes page commands to the identity provider and emits
// the resulting events. It holds no cross-invocation state of its own;
// session state lives entirely with the provider.
package bridge

import (
	"context"
	"log"

	"gemini-shell/internal/contracts"
	"gemini-shell/internal/identity"
)

// authScopes are the two fixed capability scopes requested on interactive
// sign-in.
var authScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language.retriever",
}

const testMessage = "Go Bridge is working!"

// Provider is the identity capability the bridge consumes.
type Provider interface {
	SignIn(ctx context.Context, presenter identity.Presenter, scopes []string) (*identity.User, string, error)
	RestorePreviousSignIn(ctx context.Context) (*identity.User, error)
	SignOut(ctx context.Context) error
}

// Publisher receives the events the bridge emits. Delivery to the page is
// the subscriber's concern; publishing with no page connected drops the
// event.
type Publisher interface {
	Publish(contracts.Event)
}

// Bridge dispatches commands and emits exactly one event per recognized
// invocation.
type Bridge struct {
	provider  Provider
	presenter identity.Presenter
	events    Publisher
}

// New builds a bridge. presenter may be nil when no surface capable of
// hosting the consent flow is available; RequestAuth then fails with a
// descriptive authError instead of attempting sign-in.
func New(provider Provider, presenter identity.Presenter, events Publisher) *Bridge {
	return &Bridge{provider: provider, presenter: presenter, events: events}
}

// Dispatch routes one raw command frame. Unrecognized commands are logged
// and dropped; the dispatcher itself never fails. Provider-bound commands
// complete asynchronously, emitting their event only after the provider
// responds.
func (b *Bridge) Dispatch(ctx context.Context, raw string) {
	cmd, ok := contracts.ParseCommand(raw)
	if !ok {
		log.Printf("[gemini-shell] unrecognized command: %q", raw)
		return
	}

	switch cmd {
	case contracts.CommandRequestAuth:
		go b.requestAuth(ctx)
	case contracts.CommandCheckAuth:
		go b.checkAuthAvailable(ctx)
	case contracts.CommandSignOut:
		go b.signOut(ctx)
	case contracts.CommandTest:
		b.emit(contracts.EventTestResponse, contracts.TestResponse{Message: testMessage})
	}
}

func (b *Bridge) requestAuth(ctx context.Context) {
	if b.presenter == nil {
		b.emit(contracts.EventAuthError, contracts.AuthError{Error: "no presentation context"})
		return
	}

	user, token, err := b.provider.SignIn(ctx, b.presenter, authScopes)
	if err != nil {
		b.emit(contracts.EventAuthError, contracts.AuthError{Error: err.Error()})
		return
	}
	if user == nil || token == "" {
		b.emit(contracts.EventAuthError, contracts.AuthError{Error: "sign-in returned no usable token"})
		return
	}

	b.emit(contracts.EventAuthSuccess, contracts.AuthSuccess{Token: token, Email: user.Email})
}

func (b *Bridge) checkAuthAvailable(ctx context.Context) {
	user, err := b.provider.RestorePreviousSignIn(ctx)
	if err != nil {
		// A failed restore means no session, never an authError.
		log.Printf("[gemini-shell] silent restore: %v", err)
	}
	b.emit(contracts.EventAuthStatus, contracts.AuthStatus{IsAvailable: err == nil && user != nil})
}

func (b *Bridge) signOut(ctx context.Context) {
	if err := b.provider.SignOut(ctx); err != nil {
		log.Printf("[gemini-shell] sign out: %v", err)
	}
	b.emit(contracts.EventSignOutComplete, contracts.SignOutComplete{})
}

func (b *Bridge) emit(eventType contracts.EventType, data any) {
	b.events.Publish(contracts.Event{Type: eventType, Data: data})
}
