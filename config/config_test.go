package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AnalyzerProvider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "el-test", cfg.ElevenLabsAPIKey)
	assert.Equal(t, "FF7KdobWPaiR0vkcALHF", cfg.ElevenLabsVoiceID)
	assert.Equal(t, "eleven_flash_v2_5", cfg.ElevenLabsModelID)
	assert.Equal(t, "screenshots", cfg.ScreenshotsDir)
	assert.Equal(t, "temp_audio", cfg.AudioDir)
	assert.Equal(t, 5, cfg.KeepCount)
	assert.Equal(t, 2*time.Second, cfg.CaptureInterval)
	assert.Equal(t, "0.0.0.0:5000", cfg.ListenAddr)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_MissingKeysIsNotAnError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.Empty(t, cfg.ElevenLabsAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KEEP_COUNT", "3")
	t.Setenv("CAPTURE_INTERVAL", "30s")
	t.Setenv("ANALYZER_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.KeepCount)
	assert.Equal(t, 30*time.Second, cfg.CaptureInterval)
	assert.Equal(t, "gemini", cfg.AnalyzerProvider)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("KEEP_COUNT", "-1")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("KEEP_COUNT", "five")
	_, err = Load()
	assert.Error(t, err)
}
