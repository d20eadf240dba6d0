package main

import (
	"fmt"
	"io"

	"github.com/raine/screen-narrator/config"
	"github.com/raine/screen-narrator/internal/llm"
	"github.com/raine/screen-narrator/internal/narrator"
	"github.com/raine/screen-narrator/internal/speech"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
)

// newAnalyzer builds the analyzer for the configured provider.
func newAnalyzer(cfg *config.Config) (llm.Analyzer, error) {
	switch cfg.AnalyzerProvider {
	case providerOpenAI, "":
		return llm.NewOpenAIAnalyzer(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}), nil
	case providerGemini:
		return llm.NewGeminiAnalyzer(llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q (want %s or %s)", cfg.AnalyzerProvider, providerOpenAI, providerGemini)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newPipeline builds the narration pipeline. When a database path is
// configured, analyses are cached and narrations recorded there; the returned
// closer releases the database.
func newPipeline(cfg *config.Config) (*narrator.Pipeline, io.Closer, error) {
	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("provider", cfg.AnalyzerProvider).Msg("vision analyzer initialized")

	synthesizer := speech.NewElevenLabsSynthesizer(speech.ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		VoiceID: cfg.ElevenLabsVoiceID,
		ModelID: cfg.ElevenLabsModelID,
		BaseURL: cfg.ElevenLabsBaseURL,
	})

	if cfg.DBPath == "" {
		return narrator.NewPipeline(analyzer, synthesizer, cfg.AudioDir), nopCloser{}, nil
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	log.Info().Str("dbPath", cfg.DBPath).Msg("analysis cache and history enabled")

	pipeline := narrator.NewPipeline(llm.NewCachedAnalyzer(analyzer, store), synthesizer, cfg.AudioDir).
		WithHistory(store)
	return pipeline, store, nil
}
