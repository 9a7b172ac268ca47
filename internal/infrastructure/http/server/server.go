package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Server represents fasthttp server
type Server struct {
	server *fasthttp.Server
	Router *router.Router
	addr   string
	logger zerolog.Logger
}

// NewServer creates a new fasthttp server. The middleware wraps every
// route, including /metrics and unmatched paths.
func NewServer(port, name string, logger zerolog.Logger, middleware ...httputil.Middleware) *Server {
	r := router.New()
	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		httputil.WriteJSON(ctx, fasthttp.StatusNotFound, map[string]string{"error": "route not found"})
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		httputil.WriteJSON(ctx, fasthttp.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, v interface{}) {
		logger.Error().
			Interface("panic", v).
			Str("path", string(ctx.Path())).
			Str("request_id", httputil.RequestID(ctx)).
			Msg("Recovered from handler panic")
		httputil.WriteJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{
			"error":     "internal server error",
			"requestId": httputil.RequestID(ctx),
		})
	}

	srv := &fasthttp.Server{
		Handler:      httputil.Chain(r.Handler, middleware...),
		Name:         name,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server: srv,
		Router: r,
		addr:   fmt.Sprintf(":%s", port),
		logger: logger,
	}
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.server.Handler
}

// RegisterMetrics registers Prometheus metrics endpoint
func (s *Server) RegisterMetrics() {
	prometheusHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s.Router.GET("/metrics", prometheusHandler)
}

// Start binds the listener and serves in a separate goroutine
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info().
		Str("addr", s.addr).
		Msg("Starting HTTP server")

	go func() {
		if err := s.server.Serve(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")

	if err := s.server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped gracefully")
	return nil
}
