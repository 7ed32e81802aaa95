// Package server exposes a trained fraud pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/artifact"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/config"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/history"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/metrics"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// State is the lifecycle state of the service.
type State string

const (
	StateLoading State = "Loading"
	StateReady   State = "Ready"
)

// Server serves predictions from a single artifact loaded at startup.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   *gin.Engine
	httpSrv  *http.Server
	schema   pipeline.Schema
	model    atomic.Pointer[artifact.Artifact]
	store    history.Store
	recorder *history.Recorder
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithArtifact installs an already loaded artifact; the server starts Ready
// and Run skips loading from disk.
func WithArtifact(a *artifact.Artifact) Option {
	return func(s *Server) { s.model.Store(a) }
}

// WithHistory records served predictions through rec and reads them back
// from store.
func WithHistory(store history.Store, rec *history.Recorder) Option {
	return func(s *Server) {
		s.store = store
		s.recorder = rec
	}
}

// New builds the router. The server is Loading until an artifact is installed.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: slog.Default(),
		schema: pipeline.DefaultSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if a := s.model.Load(); a != nil {
		s.markReady(a)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Router returns the HTTP handler, for tests and embedding.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// State reports whether the model is loaded.
func (s *Server) State() State {
	if s.model.Load() == nil {
		return StateLoading
	}
	return StateReady
}

// LoadModel reads the artifact at path, checks it against the serving schema
// and makes it live. It fails if a model is already installed.
func (s *Server) LoadModel(path string) error {
	a, err := artifact.Load(path)
	if err != nil {
		return err
	}
	if err := a.CheckSchema(s.schema); err != nil {
		return err
	}
	if !s.model.CompareAndSwap(nil, a) {
		return errors.New("server: model already loaded")
	}
	s.markReady(a)
	return nil
}

func (s *Server) markReady(a *artifact.Artifact) {
	metrics.ModelInfo.WithLabelValues(a.Metadata.TrainedAt, a.Metadata.SchemaVersion).Set(1)
	metrics.Ready.Set(1)
	s.logger.Info("model ready",
		"trained_at", a.Metadata.TrainedAt,
		"best_params", a.Metadata.BestParams,
	)
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}))
	s.router.Use(corsMiddleware(s.cfg.AllowedOrigin))
	s.router.Use(metrics.Middleware())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.livenessHandler)
	s.router.GET("/readyz", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	s.router.POST("/predict", s.predictHandler)
	s.router.GET("/predictions", s.listPredictionsHandler)
	s.router.GET("/predictions/stats", s.predictionStatsHandler)
}

// Run listens on the configured port, loads the model unless one was
// installed, and serves until ctx is cancelled. A failed load stops the
// listener and is returned; the server never becomes Ready in that case.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpSrv.Addr, "allowed_origin", s.cfg.AllowedOrigin)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if s.State() == StateLoading {
		s.logger.Info("loading model", "path", s.cfg.ModelPath)
		if err := s.LoadModel(s.cfg.ModelPath); err != nil {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("load model: %w", err)
		}
	}

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the listener and drains the history recorder.
func (s *Server) Shutdown(ctx context.Context) error {
	metrics.Ready.Set(0)
	var errs []error
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain history: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
