package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Nydauron/regattascore/config"
)

// Server exposes scoring and rotation over HTTP.
type Server struct {
	cfg      config.ServerConfig
	rotation config.RotationConfig
	logger   *slog.Logger
	metrics  *metrics
	router   *mux.Router
}

func New(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) *Server {
	s := &Server{
		cfg:      cfg.Server,
		rotation: cfg.Rotation,
		logger:   logger,
		metrics:  newMetrics(reg),
		router:   mux.NewRouter(),
	}
	s.router.Use(s.requestID, s.instrument)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/score", s.handleScore).Methods(http.MethodPost)
	s.router.HandleFunc("/api/rotation", s.handleRotation).Methods(http.MethodPost)
	if cfg.Server.Metrics {
		s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods(http.MethodGet)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Address,
		Handler:     s,
		ReadTimeout: s.cfg.ReadTimeout,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
