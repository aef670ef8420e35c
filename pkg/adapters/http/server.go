// Package http serves the remote control of a running phonebook.
//
// Clients connect over websocket with the fernspielctl subprotocol to send
// requests and receive events, or use the plain HTTP endpoints:
//
//	GET  /ws       websocket, requests in, events out
//	GET  /events   server-sent events
//	POST /control  one fernspielctl request document
//	POST /run      a phonebook document
//	POST /reset
//	POST /dial     dial text such as "12p"
//	GET  /health   runner status
//	GET  /metrics  prometheus metrics
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/protocol"
	"github.com/aretw0/fernspiel/pkg/runner"
)

const (
	// DefaultPort is the port the CLI listens on.
	DefaultPort = 38397

	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Controller is the part of the runner the server drives.
type Controller interface {
	Submit(req protocol.Request) error
	Status() runner.Status
}

// Server routes remote control requests to a Controller.
type Server struct {
	controller Controller
	hub        *Hub
	logger     *slog.Logger
	dialLimit  *rate.Limiter
	gatherer   prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDialLimit limits POST /dial to r requests per second with the given burst.
func WithDialLimit(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.dialLimit = rate.NewLimiter(r, burst)
	}
}

// WithHub broadcasts through an existing hub, so that publishers can be
// created before the server.
func WithHub(hub *Hub) Option {
	return func(s *Server) {
		s.hub = hub
	}
}

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a server for controller.
func NewServer(controller Controller, opts ...Option) *Server {
	s := &Server{
		controller: controller,
		logger:     logging.NewNop(),
		dialLimit:  rate.NewLimiter(rate.Limit(20), 10),
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewHub(s.logger)
	}
	return s
}

// Hub returns the broadcaster events are sent through.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Publisher returns a responder that forwards machine events to all clients.
func (s *Server) Publisher() *EventPublisher {
	return NewEventPublisher(s.hub)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", s.serveWebsocket)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/control", s.Control)
	r.Post("/run", s.Run)
	r.Post("/reset", s.Reset)
	r.Post("/dial", s.Dial)
	r.Get("/health", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return enableCORS(r)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Remote control listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down remote control: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) submit(w http.ResponseWriter, req protocol.Request) {
	if err := s.controller.Submit(req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, runner.ErrBusy) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		s.logger.Warn("Request rejected", "kind", req.Kind, "err", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// Control handles POST /control with a fernspielctl document.
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := protocol.Decode(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("Control: malformed request", "err", err)
		return
	}
	s.submit(w, req)
}

// Run handles POST /run with a phonebook document.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	spec, err := book.ParseSpec(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("Run: invalid phonebook", "err", err)
		return
	}
	s.submit(w, protocol.Run(spec))
}

// Reset handles POST /reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.submit(w, protocol.Reset())
}

// Dial handles POST /dial.
func (s *Server) Dial(w http.ResponseWriter, r *http.Request) {
	if !s.dialLimit.Allow() {
		http.Error(w, "Too many dial requests", http.StatusTooManyRequests)
		return
	}
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	inputs, err := domain.ParseInputs(string(data))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(inputs) == 0 {
		http.Error(w, "Nothing to dial", http.StatusBadRequest)
		return
	}
	s.submit(w, protocol.Dial(inputs...))
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Status string        `json:"status"`
		Runner runner.Status `json:"runner"`
	}{"ok", s.controller.Status()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Health response encode failed", "err", err)
	}
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, events, cancel := s.hub.Subscribe()
	defer cancel()
	s.logger.Info("SSE client connected", "subscriber", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "subscriber", id)
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, msg)
			flusher.Flush()
		}
	}
}

// writeEvent frames a multi-line YAML document as one SSE event.
func writeEvent(w io.Writer, msg []byte) {
	start := 0
	for i, b := range msg {
		if b == '\n' {
			fmt.Fprintf(w, "data: %s\n", msg[start:i])
			start = i + 1
		}
	}
	if start < len(msg) {
		fmt.Fprintf(w, "data: %s\n", msg[start:])
	}
	fmt.Fprint(w, "\n")
}
