// Package server exposes the recommendation pipeline over HTTP with the
// same contract the desktop client speaks: multipart uploads in, JSON out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// maxUploadBytes bounds the in-memory portion of a multipart parse.
const maxUploadBytes = 32 << 20

// Recommender produces markdown recommendations from extracted document
// context and a user query.
type Recommender interface {
	Recommend(ctx context.Context, dataContext, query string) (string, error)
}

// TextExtractor converts an uploaded document into plain text.
type TextExtractor interface {
	Text(name, declaredType string, data []byte) string
}

// Server handles the recommendation API.
type Server struct {
	recommender    Recommender
	extractor      TextExtractor
	allowedOrigins []string
	timeout        time.Duration
	logger         *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allowlist. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithTimeout bounds how long a single recommendation request may run.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server around the given pipeline and extractor.
func New(recommender Recommender, extractor TextExtractor, opts ...Option) *Server {
	s := &Server{
		recommender:    recommender,
		extractor:      extractor,
		allowedOrigins: []string{"*"},
		timeout:        5 * time.Minute,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommendations", s.handleRecommendations)
	mux.HandleFunc("/api/health", s.handleHealth)
	return s.cors(mux)
}

// ListenAndServe runs the API on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeDetail(w, http.StatusBadRequest, "At least one file is required")
		return
	}
	query := r.FormValue("query")

	start := time.Now()
	dataContext, err := s.buildContext(files)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	recommendations, err := s.recommender.Recommend(ctx, dataContext, query)
	if err != nil {
		s.logger.Printf("recommendation failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Printf("served %d files in %s", len(files), time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, map[string]string{"recommendations": recommendations})
}

// buildContext extracts every uploaded file and joins them into the LLM
// context block.
func (s *Server) buildContext(files []*multipart.FileHeader) (string, error) {
	parts := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		text := s.extractor.Text(fh.Filename, fh.Header.Get("Content-Type"), data)
		parts = append(parts, fmt.Sprintf("--- FILE: %s ---\n%s", fh.Filename, text))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
