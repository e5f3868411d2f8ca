// Package server exposes the news proxy over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"news/aggregator/internal/service"
)

const failureMessage = "Failed to fetch news"

// NewsFetcher is satisfied by *service.Service.
type NewsFetcher interface {
	News(ctx context.Context, params service.Params) ([]byte, error)
}

type Options struct {
	Addr            string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

type Server struct {
	opts    Options
	fetcher NewsFetcher
	engine  *gin.Engine
}

func New(fetcher NewsFetcher, opts Options) (*Server, error) {
	corsMiddleware, err := newCORS(opts.AllowedOrigin)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery(), requestID(), accessLog(), corsMiddleware)

	s := &Server{
		opts:    opts,
		fetcher: fetcher,
		engine:  engine,
	}

	engine.GET("/api/news", s.handleNews)
	engine.GET("/healthz", s.handleHealth)

	return s, nil
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Server running on %s", s.opts.Addr)
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

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("🛑 Received shutdown signal, shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleNews(c *gin.Context) {
	params := service.Params{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     c.Query("page"),
	}

	body, err := s.fetcher.News(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMessage})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func newCORS(origin string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Origin", "Accept", "Content-Type", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}

	origin = strings.TrimSpace(origin)
	switch {
	case origin == "*":
		cfg.AllowAllOrigins = true
	case strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://"):
		cfg.AllowOrigins = []string{strings.TrimRight(origin, "/")}
	default:
		return nil, fmt.Errorf("invalid cors.allowed_origin %q", origin)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cors config: %w", err)
	}
	return cors.New(cfg), nil
}
