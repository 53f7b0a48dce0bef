// ABOUTME: HTTP server wiring: chi router, zap request logging, query endpoint
// ABOUTME: The rate limiter and retrieval core are injected, never package-global
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lectern/internal/models"
	"lectern/internal/ratelimit"
)

// Retriever is the query side of the retrieval core.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedResult, error)
}

// Assembler builds completion context from ranked results.
type Assembler interface {
	Assemble(results []models.RetrievedResult, personaPrompt string) string
}

// Completer streams a completion for an assembled prompt.
type Completer interface {
	Stream(ctx context.Context, systemPrompt, userMessage string) (<-chan string, <-chan error)
}

// Server serves the query endpoint over HTTP.
type Server struct {
	retriever Retriever
	assembler Assembler
	completer Completer
	limiter   *ratelimit.Limiter
	persona   string
	logger    *zap.Logger
	router    chi.Router
}

// New wires the server. All collaborators are required except logger.
func New(retriever Retriever, assembler Assembler, completer Completer,
	limiter *ratelimit.Limiter, persona string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		retriever: retriever,
		assembler: assembler,
		completer: completer,
		limiter:   limiter,
		persona:   persona,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/query", s.handleQuery)
	s.router = r

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
