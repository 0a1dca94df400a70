package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8397" {
		t.Errorf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.Mode != "remote" {
		t.Errorf("unexpected default mode %q", cfg.Mode)
	}
	if cfg.MissingRootPolicy != "error-screen" {
		t.Errorf("unexpected default policy %q", cfg.MissingRootPolicy)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GEMINI_SHELL_MODE", "bundled")
	t.Setenv("GEMINI_SHELL_ASSETS_DIR", "/opt/shell/www")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "bundled" || cfg.AssetsDir != "/opt/shell/www" {
		t.Errorf("env values not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "remote mode requires remote URL",
			cfg:  Config{Mode: "remote", MissingRootPolicy: "error-screen"},

			wantErr: "remote URL is required",
		},
		{
			name: "remote mode with URL",
			cfg:  Config{Mode: "remote", RemoteURL: "https://app.example.com", MissingRootPolicy: "error-screen"},
		},
		{
			name: "bundled with error screen needs no remote URL",
			cfg:  Config{Mode: "bundled", AssetsDir: "www", MissingRootPolicy: "error-screen"},
		},
		{
			name:    "bundled with fallback requires remote URL",
			cfg:     Config{Mode: "bundled", AssetsDir: "www", MissingRootPolicy: "fallback"},
			wantErr: "remote URL is required",
		},
		{
			name: "dev mode",
			cfg:  Config{Mode: "dev", DevURL: "http://127.0.0.1:4200", MissingRootPolicy: "error-screen"},
		},
		{
			name:    "unknown mode",
			cfg:     Config{Mode: "offline", MissingRootPolicy: "error-screen"},
			wantErr: "unknown load mode",
		},
		{
			name:    "unknown policy",
			cfg:     Config{Mode: "dev", DevURL: "http://127.0.0.1:4200", MissingRootPolicy: "panic"},
			wantErr: "unknown missing-root policy",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
