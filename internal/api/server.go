package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/kppsim/internal/experiment"
)

// Server exposes the simulator over HTTP for a web front end.
type Server struct {
	logger   *slog.Logger
	registry *experiment.Registry
	engine   *gin.Engine
}

// CORSConfig allows the given origins; none means any origin.
func CORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	return corsConfig
}

func NewServer(logger *slog.Logger, registry *experiment.Registry, origins []string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = experiment.NewRegistry()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(CORSConfig(origins)))

	s := &Server{logger: logger, registry: registry, engine: r}

	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	v1.GET("/presets", s.listPresets)
	v1.GET("/presets/:name", s.getPreset)
	v1.GET("/params", s.listParams)
	v1.GET("/metrics", s.listMetrics)
	v1.POST("/simulate", s.simulate)
	v1.POST("/sweep", s.sweep)

	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
