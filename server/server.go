// Package server exposes an editor over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mindmap/config"
	"mindmap/editor"
	"mindmap/importer"
	"mindmap/store"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 8 << 20

// Server serves the editor's commands and queries.
type Server struct {
	editor    *editor.Editor
	store     store.Store
	importers *importer.ImporterRegistry
	metrics   *Metrics
	validate  *validator.Validate
	logger    *zap.Logger
	origins   []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics collectors. Pass the same instance to the
// editor as its recorder.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// New creates a server for ed backed by st.
func New(ed *editor.Editor, st store.Store, opts ...Option) *Server {
	s := &Server{
		editor:    ed,
		store:     st,
		importers: importer.NewImporterRegistry(),
		validate:  validator.New(),
		logger:    zap.NewNop(),
		origins:   []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics("mindmap")
	}
	s.metrics.Nodes.Set(float64(len(ed.Nodes())))
	ed.Subscribe(s.metrics.observeChange)
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Routes configures all routes and middleware
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))
	router.Use(instrument(s.metrics))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.listNodes)
			r.Get("/{id}", s.getNode)
			r.Delete("/{id}", s.deleteNode)
			r.Get("/{id}/nearest", s.nearest)
			r.Post("/{id}/children", s.createChild)
			r.Post("/{id}/siblings", s.createSibling)
			r.Put("/{id}/content", s.commitContent)
			r.Post("/{id}/collapse", s.toggleCollapse)
			r.Post("/{id}/move", s.moveNode)
			r.Post("/{id}/select", s.selectNode)
		})
		r.Post("/roots", s.createRoot)
		r.Get("/connections", s.connections)
		r.Get("/visible", s.visible)

		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)
		r.Get("/history", s.history)

		r.Get("/export", s.exportMap)
		r.Post("/import", s.importMap)

		r.Route("/maps", func(r chi.Router) {
			r.Get("/", s.listMaps)
			r.Put("/{name}", s.saveMap)
			r.Post("/{name}/load", s.loadMap)
			r.Delete("/{name}", s.deleteMap)
		})
	})

	return router
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      http.MaxBytesHandler(s.Routes(), maxBodyBytes),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
