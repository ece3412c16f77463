// Package api provides the HTTP JSON API for the haircuts locator.
//
// It exposes the month vocabulary, URL resolution, and file download, so a
// frontend can offer the pick-month-and-download flow without speaking the
// portal's naming conventions.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/internal/config"
	"github.com/dcvtools/haircuts/internal/fetch"
	"github.com/dcvtools/haircuts/internal/resolver"
	"github.com/dcvtools/haircuts/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	resolver resolver.Resolver
	fetcher  *fetch.Fetcher
}

// NewServer creates the API server with all routes registered.
func NewServer(cfg *config.Config, res resolver.Resolver, fetcher *fetch.Fetcher) *Server {
	s := &Server{
		cfg:      cfg,
		resolver: res,
		fetcher:  fetcher,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/months", s.handleMonths)
		r.Get("/resolve", s.handleResolve)
		r.Get("/download", s.handleDownload)
	})

	s.router = r
	return s
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.API.Host, s.cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("haircuts API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"months": calendar.Months(),
		"years":  calendar.Years(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	p, ok := s.periodFromQuery(w, r)
	if !ok {
		return
	}

	result, err := s.resolver.Resolve(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, ok := s.periodFromQuery(w, r)
	if !ok {
		return
	}

	result, err := s.resolver.Resolve(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !result.Found {
		writeJSON(w, http.StatusNotFound, result)
		return
	}

	dl, err := s.fetcher.Download(r.Context(), p, result.URL)
	if err != nil {
		// The URL existed at probe time; a failure here is a download
		// problem, not a miss.
		writeError(w, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(dl.Size))
	w.Write(dl.Bytes)
}

// periodFromQuery parses and validates the category/year/month query
// parameters, writing a 400 on malformed input.
func (s *Server) periodFromQuery(w http.ResponseWriter, r *http.Request) (models.Period, bool) {
	cat, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return models.Period{}, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", r.URL.Query().Get("year")))
		return models.Period{}, false
	}

	m, err := calendar.ValidateMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return models.Period{}, false
	}

	return models.Period{Category: cat, Year: year, Month: m.Name}, true
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
