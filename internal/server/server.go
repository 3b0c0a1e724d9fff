// Package server provides the judge's HTTP and WebSocket endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/metrics"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/server/api"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server configuration.
type Config struct {
	Rounds    api.Rounds
	Hub       *Hub
	Archive   api.Frames
	Metrics   *metrics.Metrics
	Logger    *log.Logger
	MaxUpload int64
}

// Server routes the judge's endpoints.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Hub == nil {
		config.Hub = NewHub(config.Logger, config.Metrics)
	}

	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/ws", s.config.Hub).Methods(http.MethodGet)
	r.Handle("/metrics", s.config.Metrics.Handler()).Methods(http.MethodGet)

	if s.config.Rounds != nil {
		rounds := api.NewRoundHandler(s.config.Rounds, s.config.Logger, s.config.MaxUpload)
		r.HandleFunc("/trigger_start", rounds.Trigger).Methods(http.MethodGet, http.MethodPost)
		r.HandleFunc("/submit", rounds.Submit).Methods(http.MethodPost)
		r.HandleFunc("/api/rounds/{id}", rounds.Get).Methods(http.MethodGet)
	}

	if s.config.Archive != nil {
		archive := api.NewArchiveHandler(s.config.Archive)
		r.HandleFunc("/api/archive", archive.List).Methods(http.MethodGet)
		r.HandleFunc("/api/archive/{id}", archive.Image).Methods(http.MethodGet)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the push channel hub.
func (s *Server) Hub() *Hub {
	return s.config.Hub
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Actuators int    `json:"actuators"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.start).Round(time.Second).String(),
		Actuators: s.config.Hub.Count(),
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("Judge listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.config.Hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
