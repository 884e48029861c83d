// Package server exposes the recipe backend over HTTP: recipe document
// CRUD, the palette description, and graph validation.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/catalog"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/store"
)

// Config holds server settings.
type Config struct {
	Addr string // listen address, e.g. ":8080"
}

// Server is the HTTP API server.
type Server struct {
	config Config
	store  *store.Store
	cat    *catalog.Catalog
	router *mux.Router
	http   *http.Server
	log    *slog.Logger
}

// New creates a server over the given store and catalog.
func New(config Config, st *store.Store, cat *catalog.Catalog, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		config: config,
		store:  st,
		cat:    cat,
		router: mux.NewRouter(),
		log:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/recipes", s.handleListRecipes).Methods(http.MethodGet)
	api.HandleFunc("/recipes", s.handleCreateRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/{id}", s.handleGetRecipe).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{id}", s.handleUpdateRecipe).Methods(http.MethodPut)
	api.HandleFunc("/recipes/{id}", s.handleDeleteRecipe).Methods(http.MethodDelete)

	api.HandleFunc("/palette", s.handlePalette).Methods(http.MethodGet)
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.Info("server listening", "addr", s.config.Addr)

	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.log.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
