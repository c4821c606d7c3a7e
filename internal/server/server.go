package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mm1calc/internal/stats"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Addr string
}

// Server exposes the calculator over HTTP: a JSON API, an HTML form,
// Prometheus metrics and request latency stats.
type Server struct {
	config   Config
	router   *mux.Router
	log      *zap.Logger
	stats    *stats.Stats
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	requests *prometheus.CounterVec
	page     *template.Template
}

func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mm1calc_analyses_total",
		Help: "Analyses computed, by outcome (stable, degenerate, unstable, invalid).",
	}, []string{"outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mm1calc_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})
	registry.MustRegister(analyses, requests)

	s := &Server{
		config:   cfg,
		router:   mux.NewRouter(),
		log:      log,
		stats:    stats.NewStats(),
		registry: registry,
		analyses: analyses,
		requests: requests,
		page:     template.Must(template.New("form").Parse(formTemplate)),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware, s.accessLogMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analysis", s.handleAnalysisQuery).Methods(http.MethodGet)
	api.HandleFunc("/analysis", s.handleAnalysisBody).Methods(http.MethodPost)

	s.router.HandleFunc("/", s.handleForm).Methods(http.MethodGet)
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
