// Package imaging resizes generated images to match the dimensions of
// the pictures they replace, and maps picture widths to the output
// sizes the image-generation API accepts.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

// Bucket returns the API output size for a picture of the given pixel
// width. Sizes round up to the next supported square.
func Bucket(width int) string {
	switch {
	case width <= 256:
		return "256x256"
	case width <= 512:
		return "512x512"
	default:
		return "1024x1024"
	}
}

// Resize decodes data (PNG, JPEG or GIF), scales it to exactly
// width x height pixels, and re-encodes it as PNG. Aspect ratio is not
// preserved; the target dimensions come from the picture being
// replaced.
func Resize(data []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions %dx%d", width, height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}
