package render

import (
	"strings"
	"testing"
)

func TestRenderPage(t *testing.T) {
	r := NewRenderer()

	page, err := r.RenderPage("Hello", []byte("# Heading\n\nsome *text*\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(page, "<title>Hello</title>") {
		t.Error("expected title in page shell")
	}
	if !strings.Contains(page, "Heading</h1>") {
		t.Error("expected rendered heading")
	}
}

func TestProtocolReference(t *testing.T) {
	r := NewRenderer()

	page, err := r.ProtocolReference()
	if err != nil {
		t.Fatalf("render protocol reference: %v", err)
	}

	for _, want := range []string{"requestGeminiAuth", "authSuccess", "testResponse", "<pre"} {
		if !strings.Contains(page, want) {
			t.Errorf("protocol reference missing %q", want)
		}
	}
}

func TestOfflineErrorPage(t *testing.T) {
	r := NewRenderer()

	page, err := r.OfflineErrorPage("/opt/shell/www")
	if err != nil {
		t.Fatalf("render error page: %v", err)
	}
	if !strings.Contains(page, "/opt/shell/www") {
		t.Error("error page must name the missing asset folder")
	}
	if !strings.Contains(page, "recover") {
		t.Error("error page must describe a manual recovery path")
	}
}
