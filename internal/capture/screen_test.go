package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	img *image.RGBA
	err error
}

func (f *fakeCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	return f.img, f.err
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func TestScreenGrab_SavesTimestampedPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	s := NewScreen(&fakeCapturer{img: solidImage(40, 20)}, dir, 0)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local) }

	img, path, err := s.Grab(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "screenshot_20240102_150405.png"), path)
	assert.Equal(t, "image/png", img.MIMEType)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Data, saved)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())
}

func TestScreenGrab_Downscales(t *testing.T) {
	s := NewScreen(&fakeCapturer{img: solidImage(400, 200)}, t.TempDir(), 100)

	img, _, err := s.Grab(context.Background())
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 50, decoded.Bounds().Dy())
}

func TestScreenGrab_CaptureError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	s := NewScreen(&fakeCapturer{err: ErrNoDisplay}, dir, 0)

	_, _, err := s.Grab(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDisplay))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written on failure")
}

func TestScale_KeepsSmallImages(t *testing.T) {
	img := solidImage(10, 10)
	assert.Same(t, img, Scale(img, 20).(*image.RGBA))
	assert.Same(t, img, Scale(img, 0).(*image.RGBA))
}
