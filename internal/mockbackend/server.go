// Package mockbackend is a local stand-in for the query backend. It
// serves the full JSON contract with canned wealth-management fixtures
// so the console can be developed and demoed without the real AI
// pipeline. There is no query understanding here: responses are picked
// by keyword.
package mockbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// Server serves the mock backend on a local port.
type Server struct {
	port   int
	logger *slog.Logger
}

// NewServer creates a mock backend server.
func NewServer(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{port: port, logger: logger}
}

// Router builds the chi router serving the backend contract.
func (s *Server) Router() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/query/examples", s.handleExamples)
		r.Get("/query/stats", s.handleStats)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", "addr", fmt.Sprintf("http://localhost:%d", s.port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			"method", r.Method, "path", r.URL.Path,
			"elapsed", time.Since(started).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, contract.HealthResponse{Status: "healthy"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req contract.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Query) < 3 {
		http.Error(w, "query must be at least 3 characters long", http.StatusBadRequest)
		return
	}
	writeJSON(w, respond(req.Query))
}

func (s *Server) handleExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, contract.ExamplesResponse{Success: true, Examples: exampleFixtures()})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, contract.StatsResponse{Success: true, Stats: statsFixture()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
