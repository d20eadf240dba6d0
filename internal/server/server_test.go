package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/raine/screen-narrator/internal/llm"
	"github.com/raine/screen-narrator/internal/narrator"
	"github.com/raine/screen-narrator/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyzerFunc func(ctx context.Context, imageData []byte, mimeType string) (*llm.AnalysisResult, error)

func (f analyzerFunc) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*llm.AnalysisResult, error) {
	return f(ctx, imageData, mimeType)
}

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func staticAnalyzer(text string) analyzerFunc {
	return func(ctx context.Context, imageData []byte, mimeType string) (*llm.AnalysisResult, error) {
		return &llm.AnalysisResult{Text: text}, nil
	}
}

// newTestServer wires a real pipeline to a fake ElevenLabs upstream.
func newTestServer(t *testing.T, analyzer llm.Analyzer, tts http.HandlerFunc, keep int) (*Server, string) {
	t.Helper()
	upstream := httptest.NewServer(tts)
	t.Cleanup(upstream.Close)

	audioDir := t.TempDir()
	synth := speech.NewElevenLabsSynthesizer(speech.ElevenLabsConfig{APIKey: "el-key", BaseURL: upstream.URL})
	pipeline := narrator.NewPipeline(analyzer, synth, audioDir)
	return New(pipeline, "127.0.0.1:0", keep), audioDir
}

func okTTS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write([]byte("ID3-fake-mp3"))
}

func postAnalyze(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, analyzeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestAnalyze_Success(t *testing.T) {
	var gotMIME string
	var gotData []byte
	analyzer := analyzerFunc(func(ctx context.Context, imageData []byte, mimeType string) (*llm.AnalysisResult, error) {
		gotMIME = mimeType
		gotData = imageData
		return &llm.AnalysisResult{Text: "In a world of pixels..."}, nil
	})
	s, audioDir := newTestServer(t, analyzer, okTTS, 5)

	rec, resp := postAnalyze(t, s, `{"image":"`+pngDataURL+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.True(t, resp.Success)
	assert.Equal(t, "In a world of pixels...", resp.Analysis)
	assert.Empty(t, resp.Error)

	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-fake-mp3"), audio)

	assert.Equal(t, "image/png", gotMIME)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), gotData)

	entries, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyze_SpeechUpstreamFailure(t *testing.T) {
	tts := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}
	s, audioDir := newTestServer(t, staticAnalyzer("text"), tts, 5)

	rec, resp := postAnalyze(t, s, `{"image":"`+pngDataURL+`"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid_api_key")
	assert.Empty(t, resp.Analysis)
	assert.Empty(t, resp.Audio)

	entries, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyze_AnalyzerFailureSkipsSpeech(t *testing.T) {
	var ttsCalls atomic.Int32
	tts := func(w http.ResponseWriter, r *http.Request) {
		ttsCalls.Add(1)
		okTTS(w, r)
	}
	analyzer := analyzerFunc(func(ctx context.Context, imageData []byte, mimeType string) (*llm.AnalysisResult, error) {
		return nil, errors.New("401 Unauthorized")
	})
	s, _ := newTestServer(t, analyzer, tts, 5)

	rec, resp := postAnalyze(t, s, `{"image":"`+pngDataURL+`"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "401 Unauthorized")
	assert.Zero(t, ttsCalls.Load())
}

func TestAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed json", body: `{"image":`, wantErr: "invalid request body"},
		{name: "missing image", body: `{}`, wantErr: "no image provided"},
		{name: "invalid base64", body: `{"image":"data:image/png;base64,!!!"}`, wantErr: "invalid base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, staticAnalyzer("text"), okTTS, 5)
			rec, resp := postAnalyze(t, s, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestAnalyze_PrunesAudioDir(t *testing.T) {
	s, audioDir := newTestServer(t, staticAnalyzer("text"), okTTS, 2)

	for i := range 5 {
		rec, _ := postAnalyze(t, s, `{"image":"`+pngDataURL+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("request %d", i))
	}

	entries, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, staticAnalyzer("text"), okTTS, 5)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/analyze")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, staticAnalyzer("text"), okTTS, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
