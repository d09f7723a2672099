package jpegx

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"testing"
)

func grayRow(w int, v byte) []byte {
	row := make([]byte, w*3)
	for i := range row {
		row[i] = v
	}
	return row
}

func TestEncoderWritesMarkersBeforeScan(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.Configure(Config{Width: 16, Height: 8, Components: 3, ColorSpace: ColorSpaceRGB, Quality: 90, Precision: 8}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := e.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	payload := []byte("ICC_PROFILE\x00\x01\x01abc")
	if err := e.WriteMarker(MarkerAPP2, payload); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	for e.NextScanline() < 8 {
		if err := e.WriteScanline(grayRow(16, byte(e.NextScanline()*30))); err != nil {
			t.Fatalf("scanline: %v", err)
		}
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	out := buf.Bytes()
	if out[0] != 0xff || out[1] != 0xd8 {
		t.Fatalf("missing SOI")
	}
	if out[len(out)-2] != 0xff || out[len(out)-1] != 0xd9 {
		t.Fatalf("missing EOI")
	}
	// SOI, APP0 (2+2+14 bytes), then the queued APP2.
	app2 := 2 + 4 + len(jfifPayload)
	if out[2] != 0xff || out[3] != markerAPP0 {
		t.Fatalf("expected APP0 after SOI, got %x", out[2:4])
	}
	if out[app2] != 0xff || out[app2+1] != MarkerAPP2 {
		t.Fatalf("expected APP2 at %d, got %x", app2, out[app2:app2+2])
	}
	segLen := int(out[app2+2])<<8 | int(out[app2+3])
	if segLen != len(payload)+2 {
		t.Fatalf("unexpected APP2 length %d", segLen)
	}
	if !bytes.Equal(out[app2+4:app2+4+len(payload)], payload) {
		t.Fatalf("APP2 payload mismatch")
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestEncoderOrdering(t *testing.T) {
	cfg := Config{Width: 2, Height: 2, Components: 3, ColorSpace: ColorSpaceRGB, Quality: 50, Precision: 8}

	e := NewEncoder(&bytes.Buffer{})
	if err := e.Begin(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("begin before configure: %v", err)
	}
	if err := e.WriteMarker(MarkerAPP2, nil); !errors.Is(err, ErrBadState) {
		t.Fatalf("marker before begin: %v", err)
	}
	if err := e.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteScanline(grayRow(2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteMarker(MarkerAPP2, []byte("late")); !errors.Is(err, ErrBadState) {
		t.Fatalf("marker after scanline: %v", err)
	}
	if err := e.Finish(); !errors.Is(err, ErrBadState) {
		t.Fatalf("finish with missing rows: %v", err)
	}
	if err := e.WriteScanline(grayRow(1, 0)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("short scanline: %v", err)
	}
	if err := e.WriteScanline(grayRow(2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteScanline(grayRow(2, 0)); !errors.Is(err, ErrBadState) {
		t.Fatalf("extra scanline: %v", err)
	}
	e.Abort()
	if err := e.Finish(); !errors.Is(err, ErrBadState) {
		t.Fatalf("finish after abort: %v", err)
	}
}

func TestEncoderConfigure(t *testing.T) {
	for _, cfg := range []Config{
		{Width: 0, Height: 1, Components: 3, ColorSpace: ColorSpaceRGB, Precision: 8},
		{Width: 70000, Height: 1, Components: 3, ColorSpace: ColorSpaceRGB, Precision: 8},
		{Width: 1, Height: 1, Components: 4, ColorSpace: ColorSpaceRGB, Precision: 8},
		{Width: 1, Height: 1, Components: 3, ColorSpace: ColorSpaceUnknown, Precision: 8},
		{Width: 1, Height: 1, Components: 3, ColorSpace: ColorSpaceRGB, Precision: 12},
	} {
		if err := NewEncoder(&bytes.Buffer{}).Configure(cfg); !errors.Is(err, ErrUnsupported) {
			t.Errorf("configure %+v: got %v", cfg, err)
		}
	}

	e := NewEncoder(&bytes.Buffer{})
	if err := e.Configure(Config{Width: 1, Height: 1, Components: 3, ColorSpace: ColorSpaceRGB, Precision: 8}); err != nil {
		t.Fatal(err)
	}
	if e.cfg.Quality != 1 {
		t.Fatalf("quality not clamped: %d", e.cfg.Quality)
	}
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteMarker(0xdb, []byte{0}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("non-APP marker: %v", err)
	}
	if err := e.WriteMarker(MarkerAPP2, make([]byte, maxMarkerPayload+1)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("oversized marker: %v", err)
	}
}
