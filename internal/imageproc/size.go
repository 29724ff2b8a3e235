package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	// Decoders registered for DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxDimension bounds each side accepted by ParseSize.
const MaxDimension = 65535

var (
	// ErrInvalidSize is returned when a size parameter is neither "N" nor "WxH".
	ErrInvalidSize = errors.New("invalid size parameter")

	// ErrDimensionProbe is returned when an image header cannot be read.
	ErrDimensionProbe = errors.New("failed to probe image dimensions")
)

// Size is a requested display size: either a Square or a Rectangle.
type Size interface {
	Dimensions() (width, height int)
}

// Square is a size given as a single number ("512").
type Square struct {
	Side int
}

// Dimensions implements Size.
func (s Square) Dimensions() (int, int) { return s.Side, s.Side }

// Rectangle is a size given as "WxH" ("800x600").
type Rectangle struct {
	Width  int
	Height int
}

// Dimensions implements Size.
func (r Rectangle) Dimensions() (int, int) { return r.Width, r.Height }

// ParseSize parses "N" into a Square and "WxH" into a Rectangle. Only
// decimal digits are accepted on either side of the lowercase 'x', and each
// value must lie in [1, MaxDimension].
func ParseSize(s string) (Size, error) {
	w, h, rect := strings.Cut(s, "x")
	width, err := parseSide(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if !rect {
		return Square{Side: width}, nil
	}
	height, err := parseSide(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return Rectangle{Width: width, Height: height}, nil
}

func parseSide(s string) (int, error) {
	// ParseUint rejects signs, spaces and empty strings.
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n == 0 || n > MaxDimension {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}

// Probe reads the intrinsic width and height from the image header without
// decoding pixel data. Formats without a registered decoder (ICO, AVIF,
// HEIF, PSD) are read by hand. SVG has no intrinsic pixel size and always
// fails.
func Probe(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg.Width, cfg.Height, nil
	}
	for _, probe := range headerProbes {
		if w, h, ok := probe(data); ok {
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %w", ErrDimensionProbe, err)
}

// ResolveDimensions returns the display dimensions for an image. An empty
// size probes the image header; otherwise the parsed size is used as-is,
// without preserving the intrinsic aspect ratio.
func ResolveDimensions(size string, data []byte) (int, int, error) {
	if size == "" {
		return Probe(data)
	}
	sz, err := ParseSize(size)
	if err != nil {
		return 0, 0, err
	}
	w, h := sz.Dimensions()
	return w, h, nil
}
