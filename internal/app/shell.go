// Package app wires configuration, content loading, the identity provider,
// and the bridge into one running shell.
package app

import (
	"context"
	"fmt"
	"log"

	"gemini-shell/internal/bridge"
	"gemini-shell/internal/config"
	"gemini-shell/internal/contracts"
	"gemini-shell/internal/identity"
	"gemini-shell/internal/loader"
	"gemini-shell/internal/pubsub"
	"gemini-shell/internal/render"
	"gemini-shell/internal/surface"
)

// Shell is the assembled host: one surface, one content origin, one bridge.
type Shell struct {
	cfg     config.Config
	broker  *pubsub.Broker[contracts.Event]
	surface *surface.Server
}

// New resolves the load mode and builds the surface. The content decision
// is made here, once, and holds for the surface's lifetime.
func New(cfg config.Config) (*Shell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	renderer := render.NewRenderer()

	content, err := loader.Handler(cfg.LoaderConfig(), renderer)
	if err != nil {
		return nil, fmt.Errorf("resolve content origin: %w", err)
	}

	protocolPage, err := renderer.ProtocolReference()
	if err != nil {
		return nil, fmt.Errorf("render protocol reference: %w", err)
	}

	storePath, err := identity.DefaultStorePath()
	if err != nil {
		return nil, err
	}
	provider := identity.NewGoogle(identity.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  "http://" + cfg.Addr + surface.RedirectPath,
	}, identity.NewStore(storePath))

	broker := pubsub.NewBroker[contracts.Event]()
	b := bridge.New(provider, identity.BrowserPresenter{}, broker)

	srv := surface.NewServer(surface.Config{
		Addr:         cfg.Addr,
		Content:      content,
		Dispatcher:   b,
		Events:       broker,
		Redirect:     provider.HandleRedirect,
		ProtocolPage: protocolPage,
	})

	return &Shell{cfg: cfg, broker: broker, surface: srv}, nil
}

// URL returns the browser URL for the running shell.
func (s *Shell) URL() string {
	return s.surface.URL()
}

// Run serves until ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.surface.Start(); err != nil {
		return err
	}
	log.Printf("[gemini-shell] serving %s content at %s", s.cfg.Mode, s.surface.URL())

	<-ctx.Done()

	err := s.surface.Stop()
	s.broker.Shutdown()
	return err
}
