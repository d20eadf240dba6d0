// Package speech turns narration text into audio.
package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/raine/screen-narrator/internal/retention"
)

// Audio is synthesized speech in a compressed format.
type Audio struct {
	Data        []byte
	ContentType string // e.g. "audio/mpeg"
	Format      string // file extension, e.g. "mp3"
}

// Synthesizer converts text to Audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// APIError is returned when the speech API answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs api error: %s", e.Body)
}

// SaveAudio writes audio to dir as voice_<timestamp>[_<suffix>].<format> and
// returns the path. dir is created if needed.
func SaveAudio(dir string, audio *Audio, at time.Time, suffix string) (string, error) {
	format := audio.Format
	if format == "" {
		format = "mp3"
	}
	return retention.Save(dir, retention.FileName("voice", at, suffix, format), audio.Data)
}
