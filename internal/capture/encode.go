package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Scale returns img resized so its width is at most maxWidth, keeping the
// aspect ratio. Images already within bounds are returned as is.
func Scale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) (Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("failed to encode png: %w", err)
	}
	return Image{Data: buf.Bytes(), MIMEType: "image/png"}, nil
}
