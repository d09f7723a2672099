package pqjpeg

import (
	"image"
	"image/color"
	"testing"
)

func TestResizeSDR(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	for i := InterpolationLanczos3; i <= InterpolationLanczos2; i++ {
		out, err := ResizeSDR(src, 10, 5, i)
		if err != nil {
			t.Fatalf("%v: %v", i, err)
		}
		if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 5 {
			t.Fatalf("%v: resized to %v", i, out.Bounds())
		}
		c := color.NRGBAModel.Convert(out.At(5, 2)).(color.NRGBA)
		if d := int(c.R) - 200; d < -2 || d > 2 {
			t.Errorf("%v: flat colour drifted to %+v", i, c)
		}
	}

	if _, err := ResizeSDR(src, 0, 5, InterpolationBilinear); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := ResizeSDR(src, 5, 5, Interpolation(99)); err == nil {
		t.Fatal("expected error for unknown interpolation")
	}
}

func TestParseInterpolation(t *testing.T) {
	for i := InterpolationLanczos3; i <= InterpolationLanczos2; i++ {
		got, err := ParseInterpolation(i.String())
		if err != nil || got != i {
			t.Errorf("ParseInterpolation(%q) = %v, %v", i.String(), got, err)
		}
	}
	if _, err := ParseInterpolation("sinc"); err == nil {
		t.Fatal("expected error")
	}
}
