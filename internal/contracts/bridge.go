// Package contracts defines the wire vocabulary shared by the hosted page
// and the host-side bridge.
package contracts

// Command is a page-originated instruction, received as the raw text body of
// a single websocket frame. The vocabulary is closed; anything else is
// tolerated and dropped for forward compatibility.
type Command string

const (
	// CommandRequestAuth triggers the interactive Google sign-in flow.
	CommandRequestAuth Command = "requestGeminiAuth"
	// CommandCheckAuth triggers a silent check for a restorable session.
	CommandCheckAuth Command = "isGeminiAuthAvailable"
	// CommandSignOut clears the provider's persisted credentials.
	CommandSignOut Command = "signOut"
	// CommandTest verifies channel wiring without touching the provider.
	CommandTest Command = "test"
)

// ParseCommand matches a raw frame body against the closed vocabulary.
// Matching is exact and case-sensitive. This is the single choke point
// turning untyped strings into typed commands.
func ParseCommand(raw string) (Command, bool) {
	switch Command(raw) {
	case CommandRequestAuth, CommandCheckAuth, CommandSignOut, CommandTest:
		return Command(raw), true
	}
	return "", false
}

// EventType discriminates host-originated events.
type EventType string

const (
	// EventAuthSuccess carries a token and email after interactive sign-in.
	EventAuthSuccess EventType = "authSuccess"
	// EventAuthError carries a human-readable failure description.
	EventAuthError EventType = "authError"
	// EventAuthStatus reports whether a silent session restore succeeded.
	EventAuthStatus EventType = "authStatus"
	// EventSignOutComplete acknowledges a sign-out with an empty payload.
	EventSignOutComplete EventType = "signOutComplete"
	// EventTestResponse answers a channel self-test.
	EventTestResponse EventType = "testResponse"
)

// Event is the host→page envelope. Data must marshal to a flat
// JSON-compatible structure; a payload that cannot is a contract violation
// of the handler producing it.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// AuthSuccess is the payload of EventAuthSuccess. Email may be empty when
// the provider does not supply one; the key is always present.
type AuthSuccess struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// AuthError is the payload of EventAuthError.
type AuthError struct {
	Error string `json:"error"`
}

// AuthStatus is the payload of EventAuthStatus.
type AuthStatus struct {
	IsAvailable bool `json:"isAvailable"`
}

// SignOutComplete is the payload of EventSignOutComplete. It serializes as
// an empty object.
type SignOutComplete struct{}

// TestResponse is the payload of EventTestResponse.
type TestResponse struct {
	Message string `json:"message"`
}
