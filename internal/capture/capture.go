// Package capture produces images for narration, either by grabbing the
// screen or by decoding an image submitted as a data URL.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
)

// ErrNoDisplay is returned when there is no active display to capture.
var ErrNoDisplay = errors.New("no active display to capture")

// Image is an encoded image ready to be sent to an analyzer.
type Image struct {
	Data     []byte
	MIMEType string
}

// Base64 returns the standard base64 encoding of the image data.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// ScreenCapturer grabs the contents of a display.
type ScreenCapturer interface {
	Capture(ctx context.Context) (*image.RGBA, error)
}

// CaptureConfig holds configuration for screen capture.
type CaptureConfig struct {
	// DisplayIndex specifies which display to capture (0 = primary)
	DisplayIndex int

	// MaxWidth downscales captures wider than this many pixels (0 = never)
	MaxWidth int
}

// DefaultConfig returns a default capture configuration.
func DefaultConfig() CaptureConfig {
	return CaptureConfig{
		DisplayIndex: 0,
		MaxWidth:     1920,
	}
}
