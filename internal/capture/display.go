package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

type displayCapturer struct {
	index int
}

// NewScreenCapturer returns a ScreenCapturer for the configured display.
func NewScreenCapturer(cfg CaptureConfig) ScreenCapturer {
	return &displayCapturer{index: cfg.DisplayIndex}
}

func (d *displayCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplay
	}
	if d.index < 0 || d.index >= n {
		return nil, fmt.Errorf("display %d not found (%d active): %w", d.index, n, ErrNoDisplay)
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(d.index))
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", d.index, err)
	}
	return img, nil
}
