// Package api exposes the engine over HTTP for interactive ingestion and
// inspection. Replay itself is strictly sequential; the server owns a
// mutex around the processor so concurrent requests are serialized before
// they reach it.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payments-engine/pkg/engine"
	"payments-engine/pkg/logging"
	"payments-engine/pkg/metrics"
)

var startTime = time.Now()

// Server provides HTTP endpoints for submitting transactions and
// inspecting accounts, history and metrics.
type Server struct {
	mu        sync.Mutex
	processor *engine.Processor

	metrics  metrics.Collector
	registry *prometheus.Registry
	logger   *logging.Logger
	server   *http.Server
	config   ServerConfig
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration
}

// DefaultServerConfig returns a default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8080",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// NewServer creates an API server around the given processor. The
// collector is the one the processor reports to; passing a non-nil
// Prometheus registry mounts /metrics.
func NewServer(processor *engine.Processor, collector metrics.Collector, registry *prometheus.Registry, config ServerConfig) *Server {
	s := &Server{
		processor: processor,
		metrics:   collector,
		registry:  registry,
		logger:    logging.Global().Named("api"),
		config:    config,
	}

	r := mux.NewRouter()
	r.Use(s.requestMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	r.HandleFunc("/transactions", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/accounts", s.handleAccounts).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{client}", s.handleAccount).Methods(http.MethodGet)
	r.HandleFunc("/history/stats", s.handleHistoryStats).Methods(http.MethodGet)

	r.HandleFunc("/metrics/json", s.handleMetricsJSON).Methods(http.MethodGet)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.server = &http.Server{
		Addr:         config.Address,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error: " + err.Error())
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
