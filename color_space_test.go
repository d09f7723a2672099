package pqjpeg

import "testing"

func TestToBT2020(t *testing.T) {
	for _, g := range []Gamut{GamutBT709, GamutDisplayP3, GamutAdobeRGB, GamutBT2020} {
		img, err := NewImageBuffer(2, 1)
		if err != nil {
			t.Fatal(err)
		}
		img.Set(0, 0, 0.5, 0.5, 0.5, 0.25)
		img.Set(1, 0, 0.1, 0, 0, 1)
		if err := img.ToBT2020(g); err != nil {
			t.Fatalf("%v: %v", g, err)
		}
		grey := img.At(0, 0)
		if !near(grey.R.Float32(), 0.5) || !near(grey.G.Float32(), 0.5) || !near(grey.B.Float32(), 0.5) {
			t.Errorf("%v: grey moved to %g %g %g", g, grey.R.Float32(), grey.G.Float32(), grey.B.Float32())
		}
		if grey.A.Float32() != 0.25 {
			t.Errorf("%v: alpha changed to %g", g, grey.A.Float32())
		}
	}

	img, err := NewImageBuffer(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	img.Set(0, 0, 1, 0, 0, 1)
	if err := img.ToBT2020(GamutBT709); err != nil {
		t.Fatal(err)
	}
	red := img.At(0, 0)
	if !near(red.R.Float32(), 0.6274) || !near(red.G.Float32(), 0.0691) || !near(red.B.Float32(), 0.0164) {
		t.Fatalf("BT.709 red maps to %g %g %g", red.R.Float32(), red.G.Float32(), red.B.Float32())
	}

	if err := img.ToBT2020(Gamut(42)); err == nil {
		t.Fatal("expected error for unknown gamut")
	}
}

func TestParseGamut(t *testing.T) {
	for in, want := range map[string]Gamut{
		"sRGB":     GamutBT709,
		"bt709":    GamutBT709,
		"Rec2020":  GamutBT2020,
		"p3":       GamutDisplayP3,
		"adobergb": GamutAdobeRGB,
	} {
		got, err := ParseGamut(in)
		if err != nil || got != want {
			t.Errorf("ParseGamut(%q) = %v, %v", in, got, err)
		}
		if back, err := ParseGamut(got.String()); err != nil || back != got {
			t.Errorf("round trip of %v: %v, %v", got, back, err)
		}
	}
	if _, err := ParseGamut("cmyk"); err == nil {
		t.Fatal("expected error")
	}
}
