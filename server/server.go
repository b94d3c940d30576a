// Package server exposes a Tracker over HTTP: a small JSON API, a websocket
// streaming valuations, and the Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves a Tracker.
type Server struct {
	tracker     *folio.Tracker
	hub         *Hub
	logger      *zap.Logger
	router      *gin.Engine
	unsubscribe func()
}

// New returns a server for t. Metrics are gathered from g, when not nil.
func New(t *folio.Tracker, g prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("server")
	s := &Server{
		tracker: t,
		hub:     NewHub(logger),
		logger:  logger,
	}
	s.unsubscribe = t.Subscribe(s.hub.Broadcast)

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))
	api := r.Group("/api")
	{
		api.GET("/valuation", s.getValuation)
		api.GET("/holdings", s.listHoldings)
		api.POST("/holdings", s.addHolding)
		api.DELETE("/holdings/:symbol", s.removeHolding)
		api.POST("/refresh", s.refresh)
	}
	r.GET("/ws", s.serveWS)
	if g != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
	s.router = r
	return s
}

// Handler returns the server's http handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close stops streaming valuations and disconnects all websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
