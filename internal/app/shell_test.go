package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gemini-shell/internal/config"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(config.Config{Mode: "remote", MissingRootPolicy: "error-screen"})
	if err == nil {
		t.Fatal("expected validation error for remote mode without a URL")
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write root document: %v", err)
	}

	shell, err := New(config.Config{
		Addr:              "127.0.0.1:0",
		Mode:              "bundled",
		AssetsDir:         dir,
		MissingRootPolicy: "error-screen",
	})
	if err != nil {
		t.Fatalf("build shell: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := shell.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
}
