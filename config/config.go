package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	AppName     = "screen-narrator"
	EnvFileName = "config.env"
)

// Config holds everything the narrator needs at runtime. Values come from the
// process environment (after the env files are loaded) and may be overridden
// by command line flags.
type Config struct {
	// Completion API
	AnalyzerProvider string `env:"ANALYZER_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiModel      string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// Speech API
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID" envDefault:"FF7KdobWPaiR0vkcALHF"`
	ElevenLabsModelID string `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_flash_v2_5"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`

	// Artifacts
	ScreenshotsDir string `env:"SCREENSHOTS_DIR" envDefault:"screenshots"`
	AudioDir       string `env:"AUDIO_DIR" envDefault:"temp_audio"`
	KeepCount      int    `env:"KEEP_COUNT" envDefault:"5"`

	// Interactive loop
	CaptureInterval time.Duration `env:"CAPTURE_INTERVAL" envDefault:"2s"`
	DisplayIndex    int           `env:"DISPLAY_INDEX" envDefault:"0"`
	PlayerCommand   string        `env:"PLAYER_COMMAND"`

	// Server
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:5000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`
	DBPath   string `env:"NARRATOR_DB_PATH"`
}

// LoadEnvFile loads environment variables from a .env file in the working
// directory and from the config file in the user's config directory. Errors
// are ignored since the files may not exist. Variables already present in the
// environment win.
func LoadEnvFile() {
	_ = godotenv.Load(".env")

	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Load parses the environment into a Config. API keys are not checked here;
// a missing key surfaces as an authentication error from the upstream API.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.KeepCount < 0 {
		return nil, fmt.Errorf("KEEP_COUNT must not be negative, got %d", cfg.KeepCount)
	}
	return &cfg, nil
}
