// Package server exposes source lookup, scoring, counternarrative
// selection and content analysis over HTTP as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sourcelens/internal/analyze"
	"sourcelens/internal/counter"
	"sourcelens/internal/fetch"
	"sourcelens/internal/llm"
	"sourcelens/internal/model"
	"sourcelens/internal/score"
	"sourcelens/internal/store"
)

// SourceStore is the repository surface the API reads from.
type SourceStore interface {
	Lookup(ctx context.Context, domain string) (*model.Source, error)
	LookupBulk(ctx context.Context, domains []string) (map[string]*model.Source, error)
	ByLeans(ctx context.Context, leans []int, minCredibility float64, limit int) ([]*model.Source, error)
	Query(ctx context.Context, filter store.QueryFilter) ([]*model.Source, int, error)
	Stats(ctx context.Context) (*model.RepositoryStats, error)
	Ping(ctx context.Context) error
}

// UsageReader serves aggregate usage reports.
type UsageReader interface {
	Stats(ctx context.Context, days int) (*model.UsageStats, error)
}

// Deps are the collaborators the server is assembled from. Fetcher,
// Analyzer and Provider may be nil: content analysis then reports 503
// while lookup and scoring work as usual.
type Deps struct {
	Config   *model.Config
	Logger   *logrus.Logger
	Store    SourceStore
	Usage    UsageReader
	Fetcher  *fetch.Fetcher
	Analyzer *llm.Analyzer
	Provider llm.Provider
}

// Server is the HTTP API.
type Server struct {
	cfg      *model.Config
	log      *logrus.Logger
	store    SourceStore
	pipeline *analyze.Pipeline
	selector *counter.Selector
	scorer   *score.Scorer
	usage    UsageReader
	fetcher  *fetch.Fetcher
	analyzer *llm.Analyzer
	provider llm.Provider
	metrics  *Metrics
	health   *HealthChecker
}

// New assembles a server from its collaborators.
func New(deps Deps) *Server {
	cfg := deps.Config
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	log := deps.Logger
	if log == nil {
		log = NewLogger(cfg.Log)
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		store:    deps.Store,
		pipeline: analyze.New(deps.Store, cfg.Concurrency.Workers),
		selector: counter.NewSelector(deps.Store),
		scorer:   score.NewScorer(),
		usage:    deps.Usage,
		fetcher:  deps.Fetcher,
		analyzer: deps.Analyzer,
		provider: deps.Provider,
		metrics:  NewMetrics(),
	}

	s.health = NewHealthChecker("sourcelens", Version)
	s.health.AddCheck("database", s.databaseCheck)
	s.health.AddCheck("llm", s.llmCheck)

	return s
}

// Version is reported by /health and the version command.
const Version = "0.1.0"

// NewLogger builds the structured logger the server logs through.
func NewLogger(cfg model.LogConfig) *logrus.Logger {
	log := logrus.New()

	if strings.EqualFold(cfg.Format, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// Router builds the gin engine with the full middleware chain and route
// table.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(s.log))
	router.Use(recoveryMiddleware(s.log))
	router.Use(corsMiddleware(s.cfg.Server.CORSOrigins))
	router.Use(s.metrics.Middleware())

	router.GET("/health", s.health.Handler())
	router.GET("/metrics", s.metrics.Handler())

	api := router.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/analyze/batch", s.handleAnalyzeBatch)
		api.GET("/sources", s.handleListSources)
		api.GET("/sources/:domain", s.handleGetSource)
		api.GET("/sources/:domain/counternarratives", s.handleCounternarratives)
		api.POST("/sources/score", s.handleScoreSource)
		api.GET("/stats", s.handleStats)
		api.GET("/usage", s.handleUsage)
		api.POST("/content/analyze", s.handleAnalyzeContent)
	}

	return router
}

// Run serves the API until ctx is cancelled or SIGINT/SIGTERM arrives,
// then drains in-flight requests within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errC := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"service": "sourcelens",
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errC:
		return err
	case <-quit:
		s.log.Info("Shutting down server...")
	case <-ctx.Done():
		s.log.Info("Shutting down server...")
	}

	shutdownTimeout := s.cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.log.Info("Server stopped")
	return nil
}

func (s *Server) databaseCheck(ctx context.Context) CheckResult {
	start := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "database ping failed: " + err.Error(),
			Latency: time.Since(start).String(),
		}
	}
	return CheckResult{Status: StatusHealthy, Latency: time.Since(start).String()}
}

// llmCheck degrades rather than fails: lookup and scoring never need a
// provider, so an unreachable one must not take the whole service down.
func (s *Server) llmCheck(ctx context.Context) CheckResult {
	if s.provider == nil {
		return CheckResult{Status: StatusHealthy, Message: "no provider configured"}
	}

	start := time.Now()
	if !s.provider.IsAvailable(ctx) {
		return CheckResult{
			Status:  StatusDegraded,
			Message: s.provider.Name() + " provider unreachable",
			Latency: time.Since(start).String(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: s.provider.Name(),
		Latency: time.Since(start).String(),
	}
}
