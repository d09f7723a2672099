package pqjpeg

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 0, B: 7, A: 255})

	pix, w, h, err := ReadRGBA(writePNG(t, src))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if w != 2 || h != 1 {
		t.Fatalf("dimensions %dx%d", w, h)
	}
	if diff := cmp.Diff([]byte{10, 20, 30, 128, 255, 0, 7, 255}, pix); diff != "" {
		t.Fatalf("unexpected pixels (-want +got):\n%s", diff)
	}
}

func TestReadRGBA16(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0x1234, G: 0xff00, B: 0x00ff, A: 0x8001})

	pix, _, _, err := ReadRGBA(writePNG(t, src))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]byte{0x12, 0xff, 0x00, 0x80}, pix); diff != "" {
		t.Fatalf("unexpected pixels (-want +got):\n%s", diff)
	}
}

func TestReadRGBARejects(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 1, 1))
	opaque.Set(0, 0, color.White)
	if _, _, _, err := ReadRGBA(writePNG(t, opaque)); err == nil {
		t.Fatal("expected error for RGB color type")
	}

	notPNG := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(notPNG, []byte("GIF89a............................"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := ReadRGBA(notPNG); err == nil {
		t.Fatal("expected error for non-PNG")
	}

	if _, _, _, err := ReadRGBA(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
