package pqjpeg

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/tiff"
)

// DecodeTIFF decodes an 8 or 16-bit integer TIFF. The result is sRGB-encoded
// SDR content, ready for ResizeSDR or ImageBufferFromSDR.
func DecodeTIFF(data []byte) (image.Image, error) {
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty TIFF", ErrInvalidImage)
	}
	return img, nil
}
