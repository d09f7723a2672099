package pqjpeg

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/x448/float16"
)

func TestImageBufferFromRGBA16F(t *testing.T) {
	values := []float32{1, 0.5, 0.25, 1, 0, 2, -1, 0}
	data := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
	}
	b, err := ImageBufferFromRGBA16F(data, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	p := b.At(1, 0)
	if p.R.Float32() != 0 || p.G.Float32() != 2 || p.B.Float32() != -1 || p.A.Float32() != 0 {
		t.Fatalf("unexpected second pixel %v %v %v %v", p.R, p.G, p.B, p.A)
	}
	if got := b.Row(0)[0].G.Float32(); got != 0.5 {
		t.Fatalf("first pixel G = %g", got)
	}

	if _, err := ImageBufferFromRGBA16F(data[:15], 2, 1); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("short data: %v", err)
	}
}

func TestNewImageBufferLimits(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 5}, {0x10000, 1}} {
		if _, err := NewImageBuffer(dims[0], dims[1]); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%v: %v", dims, err)
		}
	}
	if _, err := NewImageBuffer(0xffff, 0xffff); !errors.Is(err, ErrAllocation) {
		t.Errorf("oversized buffer: %v", err)
	}
	b, err := NewImageBuffer(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Pix) != 6 || len(b.Row(1)) != 3 {
		t.Fatalf("unexpected layout: %d samples", len(b.Pix))
	}
}
