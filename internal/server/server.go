// Package server exposes discograph over HTTP.
//
// Two surfaces share one router:
//
//   - the pass-through endpoints (/artist, /artist-details, /release-details)
//     that reshape upstream catalog data for thin clients
//   - the session API (/api/sessions/...) that runs the interaction controller
//     and layout engine server-side and streams layout frames over a websocket
//
// Errors are answered as {"error", "code"} with the status mapped from the
// error code; upstream transport details are logged, never returned.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/discograph/pkg/gateway"
	"github.com/matzehuels/discograph/pkg/session"
)

const shutdownTimeout = 5 * time.Second

// Options configures a [Server].
type Options struct {
	Addr        string   // Listen address, e.g. "127.0.0.1:8080"
	StaticDir   string   // Browser client served at /; empty disables it
	CORSOrigins []string // Allowed origins; "*" allows any
	Logger      *log.Logger
}

// Server is the discograph HTTP server.
type Server struct {
	gw       gateway.Gateway
	store    session.Store
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates a server answering catalog requests from gw and keeping
// sessions in store.
func New(gw gateway.Gateway, store session.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{gw: gw, store: store, opts: opts, logger: logger}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.CORSOrigins))

	r.Get("/health", s.handleHealth)

	r.Get("/artist/{name}", s.handleArtistSearch)
	r.Get("/artist-details/{id}", s.handleArtistDetails)
	r.Get("/release-details/{id}", s.handleReleaseDetails)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/graph", s.handleGraph)
			r.Get("/search", s.handleSessionSearch)
			r.Post("/artist/{id}", s.handleSelectArtist)
			r.Post("/nodes/{nodeID}/click", s.handleClickNode)
			r.Get("/ws", s.handleStream)
		})
	})

	if s.opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	return r
}

// ListenAndServe serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
