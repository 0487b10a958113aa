package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedType is returned for uploads that are not a supported raster image.
var ErrUnsupportedType = errors.New("media: unsupported image type")

// ErrTooLarge is returned for images whose declared dimensions exceed MaxPixels.
var ErrTooLarge = errors.New("media: image dimensions too large")

// MaxPixels caps width*height of a decoded upload, matching PIL's
// decompression bomb limit.
const MaxPixels = 178_956_970

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Decode sniffs data, decodes it into an image and applies the JPEG EXIF
// orientation so phone photos of a screen arrive upright.
func Decode(data []byte) (image.Image, string, error) {
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return nil, contentType, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, contentType, fmt.Errorf("media: decoding %s header: %w", contentType, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, contentType, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, contentType, fmt.Errorf("media: decoding %s: %w", contentType, err)
	}

	if contentType == "image/jpeg" {
		img = applyOrientation(img, orientation(data))
	}
	return img, contentType, nil
}

// orientation returns the EXIF orientation tag, or 1 when absent.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

func applyOrientation(img image.Image, o int) image.Image {
	if o < 2 || o > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if o >= 5 {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := orientPoint(o, x, y, w, h)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// orientPoint maps source pixel (x, y) of a w x h image to its position
// after the EXIF transform o.
func orientPoint(o, x, y, w, h int) (int, int) {
	switch o {
	case 2: // flip horizontal
		return w - 1 - x, y
	case 3: // rotate 180
		return w - 1 - x, h - 1 - y
	case 4: // flip vertical
		return x, h - 1 - y
	case 5: // transpose
		return y, x
	case 6: // rotate 90 clockwise
		return h - 1 - y, x
	case 7: // transverse
		return h - 1 - y, w - 1 - x
	case 8: // rotate 90 counter-clockwise
		return y, w - 1 - x
	}
	return x, y
}
