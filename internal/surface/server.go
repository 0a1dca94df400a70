// Package surface is the rendering surface: it serves the hosted web app
// from the resolved content origin and carries the bridge message channel
// between the page and the host.
package surface

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"gemini-shell/internal/contracts"
)

// RedirectPath is the loopback route the identity provider redirects back
// to. Every request on it is forwarded to the provider unconditionally.
const RedirectPath = "/oauth2/callback"

//go:embed bridge.js
var glueScript []byte

// Dispatcher receives each page-originated command frame.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string)
}

// EventSource is where host events arrive for delivery to the page.
type EventSource interface {
	Subscribe(ctx context.Context) <-chan contracts.Event
}

// Server coordinates HTTP content serving and the websocket channel. A
// single run-loop goroutine owns the page connection; all writes and
// connection swaps happen there.
type Server struct {
	addr       string
	content    http.Handler
	dispatcher Dispatcher
	events     EventSource
	redirect   http.HandlerFunc
	protocol   string

	started  bool
	listener net.Listener
	server   *http.Server

	ctx    context.Context
	cancel context.CancelFunc

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	inbound    chan string
	stopLoop   chan struct{}

	upgrader websocket.Upgrader
}

// Config wires the surface's collaborators.
type Config struct {
	Addr string
	// Content is the single content handler built by the loader.
	Content http.Handler
	// Dispatcher routes page commands.
	Dispatcher Dispatcher
	// Events is the host→page event source.
	Events EventSource
	// Redirect handles provider redirect callbacks.
	Redirect http.HandlerFunc
	// ProtocolPage is the pre-rendered protocol reference, served at
	// /devtools/protocol.
	ProtocolPage string
}

func NewServer(cfg Config) *Server {
	return &Server{
		addr:       cfg.Addr,
		content:    cfg.Content,
		dispatcher: cfg.Dispatcher,
		events:     cfg.Events,
		redirect:   cfg.Redirect,
		protocol:   cfg.ProtocolPage,

		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		inbound:    make(chan string, 64),
		stopLoop:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start binds the listener and begins serving. The message channel is wired
// before the content routes so the page can post commands as soon as its
// scripts run.
func (s *Server) Start() error {
	if s.started {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(context.Background())

	r := mux.NewRouter()
	r.HandleFunc("/bridge", s.handleWS)
	r.HandleFunc("/bridge.js", s.handleGlue).Methods(http.MethodGet)
	r.HandleFunc(RedirectPath, s.redirect)
	r.HandleFunc("/devtools/protocol", s.handleProtocol).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(s.content)

	s.server = &http.Server{Handler: r}
	s.started = true

	go s.runLoop(s.events.Subscribe(s.ctx))
	go func() {
		_ = s.server.Serve(listener)
	}()

	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the browser URL for the surface.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Stop gracefully shuts down the HTTP server and run loop.
func (s *Server) Stop() error {
	if !s.started || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)

	close(s.stopLoop)
	s.cancel()

	s.started = false
	s.server = nil
	return err
}

// handleWS upgrades the connection and forwards page frames to the loop.
// Only text frames are commands; any other frame type is silently ignored.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.register <- conn
	defer func() {
		s.unregister <- conn
	}()

	for {
		msgType, body, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.inbound <- string(body)
	}
}

func (s *Server) handleGlue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(glueScript)
}

func (s *Server) handleProtocol(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.protocol))
}

// runLoop serializes connection state and websocket writes on a single
// goroutine. A newly connected page replaces any previous connection; an
// event arriving with no page connected is dropped.
func (s *Server) runLoop(events <-chan contracts.Event) {
	var conn *websocket.Conn

	for {
		select {
		case c := <-s.register:
			if conn != nil {
				_ = conn.Close()
			}
			conn = c

		case c := <-s.unregister:
			if conn == c {
				_ = conn.Close()
				conn = nil
			}

		case ev, ok := <-events:
			if !ok {
				// Event source shut down; keep serving commands until Stop.
				events = nil
				continue
			}
			if conn == nil {
				log.Printf("[gemini-shell] no page connected, dropping %s event", ev.Type)
				continue
			}

			raw, err := json.Marshal(ev)
			if err != nil {
				// Contract violation of the producing handler; never
				// propagated back to it.
				log.Printf("[gemini-shell] encode %s event: %v", ev.Type, err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				_ = conn.Close()
				conn = nil
			}

		case raw := <-s.inbound:
			s.dispatcher.Dispatch(s.ctx, raw)

		case <-s.stopLoop:
			if conn != nil {
				_ = conn.Close()
			}
			return
		}
	}
}
