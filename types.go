package pqjpeg

import (
	"encoding/binary"
	"fmt"

	"github.com/x448/float16"
)

// maxImagePixels bounds the buffers allocated per encode (source samples and
// the encoder's RGBA staging image).
const maxImagePixels = 1 << 28

// LinearSample is one pixel of normalized linear light in half precision.
// 1.0 is the PQ peak (10000 nits); values may fall outside [0, 1].
// Fields are stored in R, G, B, A order; A is never encoded.
type LinearSample struct {
	R, G, B, A float16.Float16
}

// NewLinearSample converts float32 channels to a half-precision sample.
func NewLinearSample(r, g, b, a float32) LinearSample {
	return LinearSample{
		R: float16.Fromfloat32(r),
		G: float16.Fromfloat32(g),
		B: float16.Fromfloat32(b),
		A: float16.Fromfloat32(a),
	}
}

// Rec2020PQSample is an 8-bit PQ-encoded RGB pixel.
type Rec2020PQSample struct {
	R, G, B uint8
}

// ImageBuffer is a dense row-major HDR image.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []LinearSample
}

// NewImageBuffer allocates a zeroed width x height buffer.
func NewImageBuffer(width, height int) (*ImageBuffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &ImageBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]LinearSample, width*height),
	}, nil
}

// ImageBufferFromRGBA16F wraps packed little-endian half-float RGBA data
// (8 bytes per pixel, row-major).
func ImageBufferFromRGBA16F(data []byte, width, height int) (*ImageBuffer, error) {
	b, err := NewImageBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if len(data) != width*height*8 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d RGBA16F", ErrInvalidImage, len(data), width, height)
	}
	for i := range b.Pix {
		p := data[i*8 : i*8+8]
		b.Pix[i] = LinearSample{
			R: float16.Frombits(binary.LittleEndian.Uint16(p[0:])),
			G: float16.Frombits(binary.LittleEndian.Uint16(p[2:])),
			B: float16.Frombits(binary.LittleEndian.Uint16(p[4:])),
			A: float16.Frombits(binary.LittleEndian.Uint16(p[6:])),
		}
	}
	return b, nil
}

// Validate checks that dimensions and pixel slice agree.
func (b *ImageBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidImage)
	}
	if err := checkDimensions(b.Width, b.Height); err != nil {
		return err
	}
	if len(b.Pix) < b.Width*b.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidImage, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Row returns the samples of row y.
func (b *ImageBuffer) Row(y int) []LinearSample {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

// Set stores a pixel.
func (b *ImageBuffer) Set(x, y int, r, g, bl, a float32) {
	b.Pix[y*b.Width+x] = NewLinearSample(r, g, bl, a)
}

// At returns a pixel.
func (b *ImageBuffer) At(x, y int) LinearSample {
	return b.Pix[y*b.Width+x]
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if width*height > maxImagePixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, width, height, maxImagePixels)
	}
	return nil
}

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// Quality is the JPEG quality, 0-100. Zero is treated as the lowest quality.
	Quality int
	// SegmentPayload overrides the ICC chunk size, capped at MaxICCSegmentPayload.
	SegmentPayload int
	// ValidateProfile rejects profiles that do not decode as RGB ICC profiles.
	ValidateProfile bool
}
