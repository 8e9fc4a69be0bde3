// Package httpapi exposes the contract service over JSON HTTP.
//
// Routes:
//
//	GET  /                          {"ok": true}
//	GET  /contracts                 usage information
//	POST /contracts                 index {"id", "text"}
//	GET  /contracts/{cid}/clauses   clause report
//	POST /contracts/{cid}/evaluate  evaluation
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
	"github.com/custodia-labs/taxclause/internal/logger"
)

// ErrMissingContractService is returned when the server is built without
// a contract service.
var ErrMissingContractService = errors.New("httpapi: contract service is required")

const shutdownTimeout = 5 * time.Second

// Options configures the server.
type Options struct {
	// RateLimit is the sustained request rate in requests per second.
	// Zero or negative disables throttling.
	RateLimit float64

	// Burst is the token bucket size. Values below 1 are treated as 1.
	Burst int

	// MaxBodyBytes caps the size of a request body. Zero or negative
	// means 10 MiB.
	MaxBodyBytes int64
}

// Server serves the contract HTTP API.
type Server struct {
	contracts    driving.ContractService
	handler      http.Handler
	maxBodyBytes int64
}

// NewServer creates a server over the contract service.
func NewServer(contracts driving.ContractService, opts Options) (*Server, error) {
	if contracts == nil {
		return nil, ErrMissingContractService
	}

	s := &Server{contracts: contracts, maxBodyBytes: opts.MaxBodyBytes}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /contracts", s.handleInfo)
	mux.HandleFunc("POST /contracts", s.handleIndex)
	mux.HandleFunc("GET /contracts/{cid}/clauses", s.handleClauses)
	mux.HandleFunc("POST /contracts/{cid}/evaluate", s.handleEvaluate)
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	if opts.RateLimit > 0 {
		h = newRateLimiter(opts.RateLimit, opts.Burst).Middleware(h)
	}
	s.handler = withRequestID(h)

	return s, nil
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-errCh
	logger.L().Info("http server stopped")
	return nil
}
