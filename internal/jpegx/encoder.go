// Package jpegx provides a scanline-driven baseline JPEG encoder that accepts
// raw application marker segments between the frame header and the first
// scanline.
//
// Entropy coding is delegated to the standard image/jpeg package, so the
// encoder buffers all scanlines and emits the stream on Finish.
package jpegx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

// ColorSpace identifies the layout of scanline samples.
type ColorSpace int

const (
	// ColorSpaceUnknown is the zero value and is rejected by Configure.
	ColorSpaceUnknown ColorSpace = iota
	// ColorSpaceRGB is interleaved 8-bit R, G, B.
	ColorSpaceRGB
)

// Config describes the image to be compressed.
type Config struct {
	Width      int
	Height     int
	Components int
	ColorSpace ColorSpace
	Quality    int // 1-100, values outside are clamped.
	Precision  int // bits per sample, only 8 is supported.
}

// Errors returned on protocol violations.
var (
	ErrNotConfigured = errors.New("jpegx: encoder not configured")
	ErrBadState      = errors.New("jpegx: operation out of order")
	ErrUnsupported   = errors.New("jpegx: unsupported configuration")
)

type state int

const (
	stateIdle state = iota
	stateConfigured
	stateHeader // begun, markers allowed
	stateScan   // at least one scanline written
	stateDone
)

// Encoder writes a single JPEG stream to w.
// It is not safe for concurrent use.
type Encoder struct {
	w       io.Writer
	cfg     Config
	st      state
	markers bytes.Buffer
	img     *image.RGBA
	next    int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Configure validates and stores image parameters.
func (e *Encoder) Configure(cfg Config) error {
	if e.st != stateIdle && e.st != stateConfigured {
		return fmt.Errorf("%w: configure after begin", ErrBadState)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > 0xffff || cfg.Height > 0xffff {
		return fmt.Errorf("%w: dimensions %dx%d", ErrUnsupported, cfg.Width, cfg.Height)
	}
	if cfg.Components != 3 || cfg.ColorSpace != ColorSpaceRGB {
		return fmt.Errorf("%w: %d components", ErrUnsupported, cfg.Components)
	}
	if cfg.Precision != 8 {
		return fmt.Errorf("%w: %d-bit precision", ErrUnsupported, cfg.Precision)
	}
	if cfg.Quality < 1 {
		cfg.Quality = 1
	} else if cfg.Quality > 100 {
		cfg.Quality = 100
	}
	e.cfg = cfg
	e.st = stateConfigured
	return nil
}

// Begin starts the compressed stream.
func (e *Encoder) Begin() error {
	switch e.st {
	case stateIdle:
		return ErrNotConfigured
	case stateConfigured:
	default:
		return fmt.Errorf("%w: begin called twice", ErrBadState)
	}
	e.img = image.NewRGBA(image.Rect(0, 0, e.cfg.Width, e.cfg.Height))
	e.markers.Reset()
	e.next = 0
	e.st = stateHeader
	return nil
}

// WriteMarker queues an APPn segment. The length field is derived from payload.
// Markers must be written after Begin and before the first scanline.
func (e *Encoder) WriteMarker(marker byte, payload []byte) error {
	if e.st != stateHeader {
		return fmt.Errorf("%w: marker 0x%02x outside header", ErrBadState, marker)
	}
	if marker < markerAPP0 || marker > markerAPP15 {
		return fmt.Errorf("%w: marker 0x%02x is not APPn", ErrUnsupported, marker)
	}
	if len(payload) > maxMarkerPayload {
		return fmt.Errorf("%w: marker payload %d bytes", ErrUnsupported, len(payload))
	}
	writeMarkerSegment(&e.markers, marker, payload)
	return nil
}

// NextScanline returns the index of the row expected by WriteScanline.
func (e *Encoder) NextScanline() int {
	return e.next
}

// WriteScanline appends one row of interleaved samples, top to bottom.
func (e *Encoder) WriteScanline(row []byte) error {
	if e.st != stateHeader && e.st != stateScan {
		return fmt.Errorf("%w: scanline outside scan", ErrBadState)
	}
	if e.next >= e.cfg.Height {
		return fmt.Errorf("%w: scanline %d beyond height %d", ErrBadState, e.next, e.cfg.Height)
	}
	if len(row) != e.cfg.Width*e.cfg.Components {
		return fmt.Errorf("%w: scanline length %d, want %d", ErrUnsupported, len(row), e.cfg.Width*e.cfg.Components)
	}
	dst := e.img.Pix[e.next*e.img.Stride : e.next*e.img.Stride+e.cfg.Width*4]
	for x := 0; x < e.cfg.Width; x++ {
		dst[x*4] = row[x*3]
		dst[x*4+1] = row[x*3+1]
		dst[x*4+2] = row[x*3+2]
		dst[x*4+3] = 0xff
	}
	e.next++
	e.st = stateScan
	return nil
}

// Finish compresses the buffered scanlines and writes the whole stream.
func (e *Encoder) Finish() error {
	if e.st != stateScan || e.next != e.cfg.Height {
		return fmt.Errorf("%w: finish after %d of %d scanlines", ErrBadState, e.next, e.cfg.Height)
	}
	var body bytes.Buffer
	if err := jpeg.Encode(&body, e.img, &jpeg.Options{Quality: e.cfg.Quality}); err != nil {
		return err
	}
	data := body.Bytes()
	if len(data) < 2 || data[0] != markerStart || data[1] != markerSOI {
		return errors.New("jpegx: unexpected encoder output")
	}

	var head bytes.Buffer
	head.Grow(2 + 4 + len(jfifPayload) + e.markers.Len())
	head.WriteByte(markerStart)
	head.WriteByte(markerSOI)
	writeMarkerSegment(&head, markerAPP0, jfifPayload)
	head.Write(e.markers.Bytes())

	if _, err := e.w.Write(head.Bytes()); err != nil {
		return err
	}
	if _, err := e.w.Write(data[2:]); err != nil {
		return err
	}
	e.release()
	e.st = stateDone
	return nil
}

// Abort drops buffered state. It is safe to call at any point.
func (e *Encoder) Abort() {
	e.release()
	e.st = stateDone
}

func (e *Encoder) release() {
	e.img = nil
	e.markers = bytes.Buffer{}
}

func writeMarkerSegment(out *bytes.Buffer, marker byte, payload []byte) {
	out.WriteByte(markerStart)
	out.WriteByte(marker)
	length := uint16(len(payload) + 2)
	out.WriteByte(byte(length >> 8))
	out.WriteByte(byte(length))
	out.Write(payload)
}
