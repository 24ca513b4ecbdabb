// Package server implements the rothko HTTP service.
//
// Routes:
//
//	GET    /healthz
//	GET    /version
//	GET    /v1/patterns
//	GET    /v1/compositions                  composition JSON
//	GET    /v1/render.{format}               svg, png or json artifact
//	POST   /v1/gallery                       save a seeded composition
//	GET    /v1/gallery                       list saved compositions
//	GET    /v1/gallery/{id}
//	GET    /v1/gallery/{id}/render.{format}
//	DELETE /v1/gallery/{id}
//
// Composition parameters come from the query string: seed, pattern, count,
// width, height, exclude_colors, and for rendering scale, background and
// no_stroke. An absent seed produces a random composition, which is never
// cached. Seeds are limited to errs.MaxSeedLength bytes without control
// characters, and png requests to errs.MaxRasterPixels scaled pixels.
//
// Errors are JSON objects {"code": ..., "message": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/pipeline"
)

// Defaults fill in composition parameters a request leaves out.
type Defaults struct {
	Pattern string
	Width   float64
	Height  float64
	Scale   float64

	// ExcludeColors applies when a request has no exclude_colors parameter.
	ExcludeColors []string
}

// Config wires a Server.
type Config struct {
	Runner *pipeline.Runner

	// Gallery stores saved compositions. Nil disables the gallery routes.
	Gallery gallery.Store

	Defaults Defaults
	Logger   *log.Logger
}

// Timeouts bound the http.Server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// Server serves compositions over HTTP.
type Server struct {
	runner   *pipeline.Runner
	gallery  gallery.Store
	defaults Defaults
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. A nil runner is a configuration error.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errs.New(errs.ErrCodeConfiguration, "server requires a pipeline runner")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	s := &Server{
		runner:   cfg.Runner,
		gallery:  cfg.Gallery,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/patterns", s.handlePatterns)
		r.Get("/compositions", s.handleComposition)
		r.Get("/render.{format}", s.handleRender)

		r.Route("/gallery", func(r chi.Router) {
			r.Use(s.requireGallery)
			r.Post("/", s.handleGallerySave)
			r.Get("/", s.handleGalleryList)
			r.Get("/{id}", s.handleGalleryGet)
			r.Get("/{id}/render.{format}", s.handleGalleryRender)
			r.Delete("/{id}", s.handleGalleryDelete)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, t Timeouts) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errs.Wrap(errs.ErrCodeConfiguration, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln, t)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, t Timeouts) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx := context.Background()
	if t.Shutdown > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, t.Shutdown)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
