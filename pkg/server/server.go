// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/service"
)

// MaxUploadBytes caps the size of an uploaded CV.
const MaxUploadBytes = 5 << 20

// Options configures the HTTP server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	RateLimit      float64 // Requests per second; 0 disables limiting
	RateBurst      int
	RequestTimeout time.Duration
	MCPHandler     http.Handler // Mounted at /mcp when set
}

// Server is the HTTP API.
type Server struct {
	opts    Options
	svc     *service.Service
	router  *gin.Engine
	handler *AnalysisHandler
}

// New builds the router for svc.
func New(svc *service.Service, opts Options) (srv *Server) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	srv = &Server{
		opts:    opts,
		svc:     svc,
		handler: NewAnalysisHandler(svc, opts.RequestTimeout),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() (handler http.Handler) {
	handler = s.router
	return handler
}

func (s *Server) buildRouter() (r *gin.Engine) {
	r = gin.New()
	r.MaxMultipartMemory = MaxUploadBytes

	r.Use(gin.Recovery())
	r.Use(requestID(s.svc))

	if len(s.opts.AllowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = s.opts.AllowedOrigins
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", RequestIDHeader}
		config.ExposeHeaders = []string{RequestIDHeader}
		r.Use(cors.New(config))
	}

	r.Use(rateLimit(s.opts.RateLimit, s.opts.RateBurst, s.svc))

	registerRoutes(r, s.handler, s.svc, s.opts.MCPHandler)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) (err error) {
	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.svc.Logger().Info("http server listening", slog.String("addr", s.opts.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = errors.Wrap(err, "http server failed")
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "http server shutdown failed")
		return err
	}

	s.svc.Logger().Info("http server stopped")
	return err
}
