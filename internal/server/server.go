// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                              liveness probe
//	GET  /version                              build information
//	GET  /pages/{id}                           full page document
//	GET  /pages/{id}?block=b1&slide=2          single block fragment
//	POST /pages/{id}/forms/{blockID}           form submission, re-renders the page
//	GET  /pages/{id}/items/{blockID}/{itemID}  item click, 303 to the item URL
//	GET  /fragments                            supported typenames
//	GET  /fragments/{typename}                 GraphQL fragment for a typename
//
// Carousel arrows and dots link back to the page with a slide=<block>:<n>
// query parameter so navigation works without the client script.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/storeblocks/pkg/forms"
	"github.com/matzehuels/storeblocks/pkg/fragments"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
	"github.com/matzehuels/storeblocks/pkg/submissions"
)

// Config configures a Server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Defaults are the page-wide render options applied to every request:
	// unknown typename policy, strictness, carousel interval and image server.
	Defaults pipeline.Options

	// Store records form submissions before Forward sees them. Nil skips
	// storage.
	Store submissions.Store
	// Forward delivers accepted submissions, e.g. to a mailer. Nil accepts
	// everything.
	Forward forms.SubmitFunc

	Logger *log.Logger
}

// Server serves rendered storefront pages.
type Server struct {
	runner    *pipeline.Runner
	fragments *fragments.Set
	cfg       Config
	logger    *log.Logger
	router    chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		runner:    runner,
		fragments: fragments.Builtin(),
		cfg:       cfg,
		logger:    cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/pages/{pageID}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Post("/forms/{blockID}", s.handleSubmit)
		r.Get("/items/{blockID}/{itemID}", s.handleItem)
	})

	r.Get("/fragments", s.handleFragmentList)
	r.Get("/fragments/{typename}", s.handleFragment)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
