package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
)

// Server exposes the persisted results log over a small read-only HTTP API.
type Server struct {
	store      core.ResultStore
	log        *logging.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server bound to addr, serving the given result store.
func New(addr string, store core.ResultStore, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewNop()
	}

	s := &Server{
		store: store,
		log:   log,
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
	r.Use(corsMiddleware.Handler)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/results", s.handleListResults)
		r.Get("/results/{problemID}", s.handleGetResult)
		r.Get("/summary", s.handleSummary)
	})

	return r
}

// Start begins serving and blocks until the context is canceled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond).String(),
				"request_id", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("loading results", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load results"})
		return
	}
	if results == nil {
		results = []core.RunResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	problemID, err := strconv.Atoi(chi.URLParam(r, "problemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "problem id must be an integer"})
		return
	}

	results, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("loading results", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load results"})
		return
	}

	for _, result := range results {
		if result.ProblemID() == problemID {
			writeJSON(w, http.StatusOK, result)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no result for problem " + strconv.Itoa(problemID)})
}

// runSummary aggregates the stored result list. Accuracy counts only
// problems that completed the full debate.
type runSummary struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("loading results", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load results"})
		return
	}

	var summary runSummary
	for _, result := range results {
		summary.Total++
		if result.Failed() {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		if result.Record.Evaluation.IsCorrect {
			summary.Correct++
		}
	}
	if summary.Succeeded > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Succeeded)
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
