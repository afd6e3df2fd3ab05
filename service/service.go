// Package service exposes the harness's /healthz and /metrics endpoints
// while a conformance run is in flight.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/KI-labs/pachyderm/metrics"
)

type Service struct {
	log    *slog.Logger
	server *http.Server
}

func New(log *slog.Logger) *Service {
	return &Service{log: log}
}

// Start serves /healthz and /metrics on addr in the background.
func (s *Service) Start(addr string) {
	hdlr := http.NewServeMux()
	hdlr.HandleFunc("/healthz", s.handleHealthz)
	hdlr.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	s.server = &http.Server{
		Handler: c.Handler(hdlr),
		Addr:    addr,
	}

	go func() {
		s.log.Info("starting metrics server", "addr", addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error starting metrics server", "err", err)
			metrics.RecordErrorDetails("error starting metrics server", err)
		}
	}()
}

func (s *Service) Shutdown() {
	if s.server == nil {
		return
	}
	s.log.Info("metrics server shutting down")
	if err := s.server.Shutdown(context.Background()); err != nil {
		s.log.Error("error shutting down metrics server", "err", err)
	}
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("received health check request", "path", r.URL.Path)
	w.Write([]byte("OK")) //nolint:errcheck
}
