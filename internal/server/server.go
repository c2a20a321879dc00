// Package server exposes the tutor over HTTP for `octolearn serve`.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/quiz"
)

// Tutor generates the content served by the API.
type Tutor interface {
	Explain(ctx context.Context, topic, level string) (string, error)
	Quiz(ctx context.Context, topic string, n int) ([]quiz.Item, error)
}

// Options configures a Server.
type Options struct {
	// Timeout bounds a single generation. Zero means no limit.
	Timeout time.Duration

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front of the tutor.
type Server struct {
	tutor  Tutor
	log    *logging.Logger
	opts   Options
	engine *gin.Engine
}

// New builds the router. The caller chooses the gin mode.
func New(t Tutor, log *logging.Logger, opts Options) *Server {
	if log == nil {
		log = logging.Nop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{tutor: t, log: log, opts: opts}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", s.root)
	api := r.Group("/api")
	api.POST("/explain", s.explain)
	api.POST("/quiz", s.quiz)

	s.engine = r
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
