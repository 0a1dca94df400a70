package contracts

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		raw  string
		want Command
		ok   bool
	}{
		{"requestGeminiAuth", CommandRequestAuth, true},
		{"isGeminiAuthAvailable", CommandCheckAuth, true},
		{"signOut", CommandSignOut, true},
		{"test", CommandTest, true},
		{"Test", "", false},
		{"REQUESTGEMINIAUTH", "", false},
		{"fooBar", "", false},
		{"", "", false},
		{"test ", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseCommand(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseCommand(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

// A payload encoded by the host and decoded on the page side must
// reconstruct deep-equal, with no field loss or coercion.
func TestEventRoundTrip(t *testing.T) {
	ev := Event{
		Type: EventAuthSuccess,
		Data: AuthSuccess{Token: "tok123", Email: "a@b.com"},
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Type != "authSuccess" {
		t.Errorf("expected type authSuccess, got %q", decoded.Type)
	}
	want := map[string]any{"token": "tok123", "email": "a@b.com"}
	if !reflect.DeepEqual(decoded.Data, want) {
		t.Errorf("expected data %v, got %v", want, decoded.Data)
	}
}

func TestSignOutCompleteSerializesAsEmptyObject(t *testing.T) {
	raw, err := json.Marshal(Event{Type: EventSignOutComplete, Data: SignOutComplete{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"type":"signOutComplete","data":{}}` {
		t.Errorf("unexpected serialization: %s", raw)
	}
}

func TestAuthSuccessAlwaysCarriesEmailKey(t *testing.T) {
	raw, err := json.Marshal(AuthSuccess{Token: "tok123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["email"]; !ok {
		t.Error("email key must be present even when empty")
	}
}
