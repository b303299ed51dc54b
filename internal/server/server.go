package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mindshelf/internal/platform/config"
	"mindshelf/internal/platform/events"
	"mindshelf/internal/platform/logger"
)

// Routes is implemented by every module's HTTP handler.
type Routes interface {
	Register(rg *gin.RouterGroup)
}

type Server struct {
	cfg    config.HTTPConfig
	log    *logger.Logger
	bus    events.Bus
	engine *gin.Engine
}

func New(cfg config.HTTPConfig, log *logger.Logger, bus events.Bus, routes ...Routes) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{cfg: cfg, log: log.With("service", "HTTPServer"), bus: bus}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLog())
	// cors.New panics on an empty origin list; no origins means same-origin only.
	if len(cfg.AllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With", "Last-Event-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	engine.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := engine.Group("/api")
	for _, r := range routes {
		r.Register(api)
	}
	if bus != nil {
		api.GET("/events", s.streamEvents)
	}
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		kv := []any{"method", c.Request.Method, "path", c.FullPath(), "status", status, "elapsed", time.Since(start)}
		switch {
		case status >= http.StatusInternalServerError:
			s.log.Error("request failed", append(kv, "errors", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			s.log.Warn("request rejected", kv...)
		default:
			s.log.Debug("request", kv...)
		}
	}
}
