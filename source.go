package pqjpeg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
)

// ImageBufferFromRGBA8 converts sRGB-encoded 8-bit RGBA bytes (as returned by
// ReadRGBA) to linear light, mapping display white to whiteNits.
func ImageBufferFromRGBA8(pix []byte, width, height int, whiteNits float32) (*ImageBuffer, error) {
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d RGBA", ErrInvalidImage, len(pix), width, height)
	}
	out, err := NewImageBuffer(width, height)
	if err != nil {
		return nil, err
	}
	scale := NitsToLinear(whiteNits)
	for i := range out.Pix {
		p := pix[i*4 : i*4+4]
		out.Pix[i] = NewLinearSample(
			srgbInvOetf(float32(p[0])/255)*scale,
			srgbInvOetf(float32(p[1])/255)*scale,
			srgbInvOetf(float32(p[2])/255)*scale,
			float32(p[3])/255,
		)
	}
	return out, nil
}

// ImageBufferFromSDR converts an sRGB-encoded image (PNG, TIFF, JPEG) to
// linear light, mapping display white to whiteNits.
func ImageBufferFromSDR(img image.Image, whiteNits float32) (*ImageBuffer, error) {
	b := img.Bounds()
	out, err := NewImageBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	scale := NitsToLinear(whiteNits)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			out.Set(x, y,
				srgbInvOetf(float32(c.R)/65535)*scale,
				srgbInvOetf(float32(c.G)/65535)*scale,
				srgbInvOetf(float32(c.B)/65535)*scale,
				float32(c.A)/65535,
			)
		}
	}
	return out, nil
}

// ImageBufferFromHDR converts a linear HDR image (for example Radiance RGBE)
// where 1.0 is whiteNits.
func ImageBufferFromHDR(img hdr.Image, whiteNits float32) (*ImageBuffer, error) {
	b := img.Bounds()
	out, err := NewImageBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	scale := float64(NitsToLinear(whiteNits))
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, bl, _ := img.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			out.Set(x, y, float32(r*scale), float32(g*scale), float32(bl*scale), 1)
		}
	}
	return out, nil
}

// SyntheticImage builds the reference test pattern: the top half at PQ peak
// luminance, the bottom half at a 500-nit SDR white.
func SyntheticImage(width, height int) (*ImageBuffer, error) {
	out, err := NewImageBuffer(width, height)
	if err != nil {
		return nil, err
	}
	sdr := NitsToLinear(demoSDRNits)
	for y := 0; y < height; y++ {
		v := sdr
		if y < height/2 {
			v = 1
		}
		s := NewLinearSample(v, v, v, 1)
		row := out.Row(y)
		for x := range row {
			row[x] = s
		}
	}
	return out, nil
}
