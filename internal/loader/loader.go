// Package loader resolves the content origin for the rendering surface and
// builds the single HTTP handler serving it. The mode is decided once per
// surface creation; changing it means building a new surface.
package loader

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	"gemini-shell/internal/render"
)

// Mode selects exactly one content origin for the surface's lifetime.
type Mode string

const (
	// ModeRemote proxies the production web app from its HTTPS location.
	ModeRemote Mode = "remote"
	// ModeBundled serves the packaged offline asset tree.
	ModeBundled Mode = "bundled"
	// ModeDev proxies a local development server.
	ModeDev Mode = "dev"
)

// ParseMode validates a raw mode value.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeRemote, ModeBundled, ModeDev:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown load mode %q", raw)
}

// MissingRootPolicy decides what happens when bundled mode finds no root
// document. The two deployments of the original shell disagreed on this, so
// it is an explicit configuration choice, not a fixed behavior.
type MissingRootPolicy string

const (
	// PolicyErrorScreen serves a terminal error page for that surface.
	PolicyErrorScreen MissingRootPolicy = "error-screen"
	// PolicyFallback loads the remote origin instead.
	PolicyFallback MissingRootPolicy = "fallback"
)

// ParseMissingRootPolicy validates a raw policy value.
func ParseMissingRootPolicy(raw string) (MissingRootPolicy, error) {
	switch MissingRootPolicy(raw) {
	case PolicyErrorScreen, PolicyFallback:
		return MissingRootPolicy(raw), nil
	}
	return "", fmt.Errorf("unknown missing-root policy %q", raw)
}

// rootDocument is the conventional entry point of the packaged web build.
const rootDocument = "index.html"

// Config describes the resolved load decision.
type Config struct {
	Mode      Mode
	RemoteURL string
	DevURL    string
	// AssetsDir is the root of the packaged asset tree for bundled mode.
	// The whole folder is served so relative sibling resources resolve.
	AssetsDir string
	Policy    MissingRootPolicy
}

// Handler builds the content handler for the configured mode. It is called
// exactly once per surface creation.
func Handler(cfg Config, renderer *render.Renderer) (http.Handler, error) {
	switch cfg.Mode {
	case ModeRemote:
		return proxyHandler(cfg.RemoteURL)
	case ModeDev:
		return proxyHandler(cfg.DevURL)
	case ModeBundled:
		return bundledHandler(cfg, renderer)
	}
	return nil, fmt.Errorf("unknown load mode %q", cfg.Mode)
}

// proxyHandler reverse-proxies the hosted app from an absolute origin.
// Proxy failures are logged through the error callback and never retried.
func proxyHandler(origin string) (http.Handler, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse content origin %q: %w", origin, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("content origin %q is not an absolute URL", origin)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("[gemini-shell] content load failed for %s: %v", r.URL.Path, err)
		w.WriteHeader(http.StatusBadGateway)
	}

	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
	}

	return proxy, nil
}

// bundledHandler serves the packaged asset tree. A missing root document
// resolves per the configured policy; it never yields a blank surface.
func bundledHandler(cfg Config, renderer *render.Renderer) (http.Handler, error) {
	root := filepath.Join(cfg.AssetsDir, rootDocument)
	if _, err := os.Stat(root); err == nil {
		return http.FileServer(http.Dir(cfg.AssetsDir)), nil
	}

	log.Printf("[gemini-shell] bundled content missing root document at %s", root)

	switch cfg.Policy {
	case PolicyFallback:
		return proxyHandler(cfg.RemoteURL)
	case PolicyErrorScreen:
		page, err := renderer.OfflineErrorPage(cfg.AssetsDir)
		if err != nil {
			return nil, fmt.Errorf("render offline error page: %w", err)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(page))
		}), nil
	}
	return nil, fmt.Errorf("unknown missing-root policy %q", cfg.Policy)
}
