package speech

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	ElevenLabsBaseURL      = "https://api.elevenlabs.io"
	DefaultVoiceID         = "FF7KdobWPaiR0vkcALHF"
	DefaultModelID         = "eleven_flash_v2_5"
	defaultRequestTimeout  = 60 * time.Second
	textToSpeechPathFormat = "/v1/text-to-speech/{voiceId}"
)

// VoiceSettings shapes the generated voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the dramatic trailer voice profile.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.3,
		SimilarityBoost: 0.95,
		Style:           0.47,
		UseSpeakerBoost: true,
	}
}

// ElevenLabsConfig configures an ElevenLabsSynthesizer. Zero values fall back
// to the defaults above.
type ElevenLabsConfig struct {
	APIKey   string
	VoiceID  string
	ModelID  string
	BaseURL  string
	Settings *VoiceSettings
}

type textToSpeechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// ElevenLabsSynthesizer calls the ElevenLabs text-to-speech API.
type ElevenLabsSynthesizer struct {
	httpClient *resty.Client
	apiKey     string
	voiceID    string
	modelID    string
	settings   VoiceSettings
}

// NewElevenLabsSynthesizer creates a synthesizer. Requests are not retried.
func NewElevenLabsSynthesizer(cfg ElevenLabsConfig) *ElevenLabsSynthesizer {
	s := &ElevenLabsSynthesizer{
		apiKey:   cfg.APIKey,
		voiceID:  DefaultVoiceID,
		modelID:  DefaultModelID,
		settings: DefaultVoiceSettings(),
	}
	if cfg.VoiceID != "" {
		s.voiceID = cfg.VoiceID
	}
	if cfg.ModelID != "" {
		s.modelID = cfg.ModelID
	}
	if cfg.Settings != nil {
		s.settings = *cfg.Settings
	}

	baseURL := ElevenLabsBaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	s.httpClient = resty.New().
		SetDebug(false).
		SetBaseURL(baseURL).
		SetTimeout(defaultRequestTimeout).
		SetHeaders(map[string]string{
			"Accept":       "audio/mpeg",
			"Content-Type": "application/json",
		})

	return s
}

// Synthesize implements the Synthesizer interface.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	start := time.Now()

	res, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("xi-api-key", s.apiKey).
		SetPathParam("voiceId", s.voiceID).
		SetBody(textToSpeechRequest{
			Text:          text,
			ModelID:       s.modelID,
			VoiceSettings: s.settings,
		}).
		Post(textToSpeechPathFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to call elevenlabs: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: res.StatusCode(), Body: res.String()}
	}

	log.Info().
		Str("voiceID", s.voiceID).
		Str("modelID", s.modelID).
		Int("chars", len(text)).
		Int("bytes", len(res.Body())).
		Dur("took", time.Since(start)).
		Msg("speech synthesized")

	return &Audio{
		Data:        res.Body(),
		ContentType: "audio/mpeg",
		Format:      "mp3",
	}, nil
}
