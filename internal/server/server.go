// Package server exposes the narration pipeline over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/raine/screen-narrator/internal/capture"
	"github.com/raine/screen-narrator/internal/narrator"
	"github.com/raine/screen-narrator/internal/retention"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var staticFiles embed.FS

const (
	maxRequestBytes = 32 << 20
	shutdownTimeout = 10 * time.Second
)

// Narrator turns an image into a narration.
type Narrator interface {
	Narrate(ctx context.Context, img capture.Image, source storage.Source) (*narrator.Result, error)
	AudioDir() string
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type analyzeResponse struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis,omitempty"`
	Audio    string `json:"audio,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Server handles the upload page and the analyze endpoint.
type Server struct {
	narrator  Narrator
	keepCount int
	addr      string
	handler   http.Handler
}

// New creates a Server listening on addr. After each request the audio
// directory is pruned to keepCount files.
func New(n Narrator, addr string, keepCount int) *Server {
	s := &Server{
		narrator:  n,
		keepCount: keepCount,
		addr:      addr,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.handler = logRequests(mux)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if req.Image == "" {
		writeError(w, r, errors.New("no image provided"))
		return
	}

	img, err := capture.ParseDataURL(req.Image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.narrator.Narrate(r.Context(), img, storage.SourceHTTP)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Concurrent requests may prune the same directory; a lost race only
	// leaves an extra file behind until the next request.
	retention.Cleanup(s.keepCount, s.narrator.AudioDir())

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:  true,
		Analysis: result.Analysis,
		Audio:    base64.StdEncoding.EncodeToString(result.Audio.Data),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("analyze request failed")
	writeJSON(w, http.StatusInternalServerError, analyzeResponse{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
