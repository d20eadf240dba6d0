package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/raine/screen-narrator/internal/retention"
	"github.com/rs/zerolog/log"
)

// Screen grabs the screen and keeps a timestamped PNG copy of every grab.
type Screen struct {
	capturer ScreenCapturer
	dir      string
	maxWidth int
	now      func() time.Time
}

// NewScreen creates a Screen that saves grabs into dir.
func NewScreen(capturer ScreenCapturer, dir string, maxWidth int) *Screen {
	return &Screen{
		capturer: capturer,
		dir:      dir,
		maxWidth: maxWidth,
		now:      time.Now,
	}
}

// Grab captures the screen, saves a copy and returns the encoded image along
// with the path of the saved copy.
func (s *Screen) Grab(ctx context.Context) (Image, string, error) {
	raw, err := s.capturer.Capture(ctx)
	if err != nil {
		return Image{}, "", fmt.Errorf("failed to capture screen: %w", err)
	}

	img, err := EncodePNG(Scale(raw, s.maxWidth))
	if err != nil {
		return Image{}, "", err
	}

	name := retention.FileName("screenshot", s.now(), "", "png")
	path, err := retention.Save(s.dir, name, img.Data)
	if err != nil {
		return Image{}, "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	log.Info().Str("path", path).Int("bytes", len(img.Data)).Msg("screenshot saved")
	return img, path, nil
}
