package pqjpeg

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
)

// Interpolation selects the resampling kernel.
type Interpolation int

const (
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3 Interpolation = iota
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
)

var interpolations = []struct {
	name string
	fn   resize.InterpolationFunction
}{
	InterpolationLanczos3:          {"lanczos3", resize.Lanczos3},
	InterpolationNearest:           {"nearest", resize.NearestNeighbor},
	InterpolationBilinear:          {"bilinear", resize.Bilinear},
	InterpolationBicubic:           {"bicubic", resize.Bicubic},
	InterpolationMitchellNetravali: {"mitchell", resize.MitchellNetravali},
	InterpolationLanczos2:          {"lanczos2", resize.Lanczos2},
}

func (i Interpolation) String() string {
	if i >= 0 && int(i) < len(interpolations) {
		return interpolations[i].name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation resolves a kernel by its String form.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, in := range interpolations {
		if in.name == s {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// ResizeSDR scales an SDR image before linearization. Resampling happens on
// the sRGB-encoded values.
func ResizeSDR(img image.Image, width, height int, interp Interpolation) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidImage, width, height)
	}
	if interp < 0 || int(interp) >= len(interpolations) {
		return nil, fmt.Errorf("unsupported interpolation %v", interp)
	}
	return resize.Resize(uint(width), uint(height), img, interpolations[interp].fn), nil
}
