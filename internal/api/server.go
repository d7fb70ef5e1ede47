// Package api exposes the simulator over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/internal/monitoring"
	"github.com/Nadirh/retirement-planning/internal/safety"
	"github.com/Nadirh/retirement-planning/pkg/config"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
)

const shutdownTimeout = 30 * time.Second

// Server routes simulation, health and metrics requests
type Server struct {
	orchestrator orchestrator.Orchestrator
	health       *monitoring.HealthChecker
	cfg          config.ServerConfig
	log          *logger.Logger
	limiter      *safety.RateLimiter
	handler      http.Handler
}

// NewServer wires the routes and middleware. Simulation requests are
// throttled to cfg.RateLimit per second with bursts of cfg.RateBurst; a zero
// rate disables throttling.
func NewServer(o orchestrator.Orchestrator, health *monitoring.HealthChecker, cfg config.ServerConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	if health == nil {
		health = monitoring.NewHealthChecker()
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	s := &Server{
		orchestrator: o,
		health:       health,
		cfg:          cfg,
		log:          log,
		limiter:      safety.NewRateLimiter("monte-carlo", cfg.RateBurst, cfg.RateLimit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/monte-carlo", s.handleMonteCarlo)
	mux.HandleFunc("OPTIONS /api/monte-carlo", s.handlePreflight)
	mux.Handle("GET /healthz", health)
	mux.Handle("GET /metrics", monitoring.NewMetricsHandler())

	s.handler = s.withRequestID(s.withCORS(mux))
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
