// Package server exposes the estimator over HTTP. Every request is
// computed from its own body; the layout and product memo is the only
// state shared between requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/logging"
	"github.com/piwi3910/PrintQuote/internal/model"
)

const (
	// DefaultRate is the sustained requests per second allowed per client.
	DefaultRate = 10
	// DefaultBurst is the number of requests a client may send at once.
	DefaultBurst = 20

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server. Zero values use the defaults.
type Options struct {
	Settings  model.Settings
	Inventory model.Inventory
	Memo      *engine.Memo
	Logger    *zap.Logger

	Rate  float64
	Burst int

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that sets those headers,
	// otherwise clients can pick their own rate limit bucket.
	TrustProxy bool
}

// Server routes estimate requests to the engine.
type Server struct {
	settings  model.Settings
	inventory model.Inventory
	lookup    model.PriceLookup
	memo      *engine.Memo
	log       *zap.Logger
	limiter   *clientLimiter
	router    chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if opts.Settings == (model.Settings{}) {
		opts.Settings = model.DefaultSettings()
	}
	if len(opts.Inventory.Candidates) == 0 {
		opts.Inventory.Candidates = model.StandardCandidates()
	}

	s := &Server{
		settings:  opts.Settings,
		inventory: opts.Inventory,
		lookup:    opts.Inventory.PriceLookup(),
		memo:      opts.Memo,
		log:       logging.OrNop(opts.Logger),
		limiter:   newClientLimiter(opts.Rate, opts.Burst),
	}
	s.router = s.routes(opts.TrustProxy)
	return s
}

func (s *Server) routes(trustProxy bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/layout", s.handleLayout)
		r.Post("/estimate", s.handleEstimate)
		r.Post("/compare", s.handleCompare)
		r.Get("/catalog", s.handleCatalog)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("request_id", requestID(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
