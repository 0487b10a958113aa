package analysis

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG serializes img as a lossless PNG held in memory.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encoding png: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
