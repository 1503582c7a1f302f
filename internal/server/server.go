// Package server provides the HTTP surface of the news cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type NewsService interface {
	Ranked(ctx context.Context, newsType model.NewsType) ([]model.Story, error)
	Highlight(ctx context.Context) (model.Story, error)
	RefreshAll(ctx context.Context) error
}

type Server struct {
	news   NewsService
	router chi.Router
}

func New(news NewsService) *Server {
	s := &Server{news: news}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/news", func(r chi.Router) {
		r.Get("/", s.handleNews)
		r.Get("/highlight", s.handleHighlight)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
}

// Router exposes the handler, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] server shutdown: %v", err)
		}
	}()

	log.Printf("server listening on %s", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	newsType, err := model.ParseRankedNewsType(r.URL.Query().Get("type"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	stories, err := s.news.Ranked(r.Context(), newsType)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stories)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	story, err := s.news.Highlight(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, story)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.news.RefreshAll(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondError maps a validation error to 400 with its message; everything
// else becomes a generic 500 so no internal detail leaks out.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Message})
		return
	}

	log.Printf("[ERROR] handling request: %v", err)
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "something went wrong"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[ERROR] encoding response: %v", err)
	}
}
