// Package server provides the EDI message HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ukaji3/edimap-go/internal/config"
	"github.com/ukaji3/edimap-go/pkg/edimap/mapping"
	"github.com/ukaji3/edimap-go/pkg/edimap/output"
	"github.com/ukaji3/edimap-go/pkg/edimap/router"
	"github.com/ukaji3/edimap-go/pkg/edimap/store"
)

// Server is the HTTP server for message exchange and standard lookups.
type Server struct {
	cfg      config.ServerConfig
	store    *store.Store
	catalog  *output.Catalog
	resolver *mapping.Resolver
	delivery *router.Router
	log      *slog.Logger

	mux    *chi.Mux
	server *http.Server
}

// New creates a Server. catalog may be nil, in which case only stored
// mapping configs are used and lookup endpoints answer 404.
func New(cfg config.ServerConfig, st *store.Store, catalog *output.Catalog, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	resolver := &mapping.Resolver{Mapper: mapping.NewMapper(log), Configs: st, Log: log}
	if catalog != nil {
		resolver.Tables = catalog
	}

	s := &Server{
		cfg:      cfg,
		store:    st,
		catalog:  catalog,
		resolver: resolver,
		delivery: &router.Router{Apps: st, Statuses: st, Log: log},
		log:      log,
		mux:      chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(s.requestLogger)
	s.mux.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.mux.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	if s.cfg.MaxBodyBytes > 0 {
		s.mux.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	}
}

func (s *Server) setupRoutes() {
	s.mux.Get("/healthz", s.handleHealth)

	s.mux.Route("/api/v1", func(r chi.Router) {
		// Standard lookups are public.
		r.Get("/message-types", s.handleMessageTypes)
		r.Get("/information-items/{messageType}", s.handleInformationItems)
		r.Get("/code-definitions/{codeType}", s.handleCodeDefinitions)
		r.Get("/code-definitions/{codeType}/{code}", s.handleCode)

		r.Group(func(r chi.Router) {
			r.Use(s.apiKeyAuth)

			r.Post("/messages/{messageType}", s.handleSendMessage)
			r.Get("/messages", s.handleListMessages)
			r.Get("/messages/{id}", s.handleGetMessage)
			r.Get("/messages/{id}/status", s.handleMessageStatus)

			r.Route("/mapping-configs", func(r chi.Router) {
				r.Post("/", s.handleCreateConfig)
				r.Get("/", s.handleListConfigs)
				r.Get("/{id}", s.handleGetConfig)
				r.Put("/{id}", s.handleUpdateConfig)
				r.Delete("/{id}", s.handleDeleteConfig)
			})
		})
	})
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.mux,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB.PingContext(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
