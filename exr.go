package pqjpeg

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/x448/float16"
)

const exrMagic = 20000630

const (
	exrFlagTiled = 0x200
	exrFlagDeep  = 0x400
	exrFlagMulti = 0x800
)

const (
	exrCompressionNone = 0
	exrCompressionZips = 2
	exrCompressionZip  = 3
)

const (
	exrPixelUint  = 0
	exrPixelHalf  = 1
	exrPixelFloat = 2
)

// Channel roles index the RGBA scratch row; Y fans out to R, G and B.
const (
	exrChanOther = -2
	exrChanY     = -1
	exrChanR     = 0
	exrChanG     = 1
	exrChanB     = 2
	exrChanA     = 3
)

type exrChannel struct {
	name      string
	pixelType int32
	role      int
}

func (c exrChannel) size() int {
	if c.pixelType == exrPixelHalf {
		return 2
	}
	return 4
}

type exrHeader struct {
	channels    []exrChannel
	window      [4]int32 // xMin, yMin, xMax, yMax
	compression byte
}

func (h exrHeader) linesPerBlock() int {
	if h.compression == exrCompressionZip {
		return 16
	}
	return 1
}

func (h exrHeader) rowBytes(width int) int {
	n := 0
	for _, ch := range h.channels {
		n += width * ch.size()
	}
	return n
}

// ImageBufferFromEXR decodes a single-part scanline OpenEXR file
// (uncompressed, ZIPS or ZIP) where 1.0 is whiteNits. Luminance-only files
// are expanded to grey; missing alpha is opaque.
func ImageBufferFromEXR(data []byte, whiteNits float32) (*ImageBuffer, error) {
	r := bytes.NewReader(data)
	h, err := readEXRHeader(r)
	if err != nil {
		return nil, err
	}
	width := int(h.window[2]-h.window[0]) + 1
	height := int(h.window[3]-h.window[1]) + 1
	out, err := NewImageBuffer(width, height)
	if err != nil {
		return nil, err
	}

	lines := h.linesPerBlock()
	offsets := make([]uint64, (height+lines-1)/lines)
	for i := range offsets {
		if offsets[i], err = readU64(r); err != nil {
			return nil, exrTruncated(err)
		}
	}

	scale := NitsToLinear(whiteNits)
	scratch := make([]float32, width*4)
	for _, off := range offsets {
		if off == 0 || off >= uint64(len(data)) {
			return nil, fmt.Errorf("%w: OpenEXR block offset %d out of range", ErrInvalidImage, off)
		}
		if _, err := r.Seek(int64(off), io.SeekStart); err != nil {
			return nil, err
		}
		y, err := readI32(r)
		if err != nil {
			return nil, exrTruncated(err)
		}
		size, err := readI32(r)
		if err != nil {
			return nil, exrTruncated(err)
		}
		if size < 0 || int(size) > r.Len() {
			return nil, fmt.Errorf("%w: OpenEXR block size %d", ErrInvalidImage, size)
		}
		raw := make([]byte, size)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, exrTruncated(err)
		}

		startY := int(y - h.window[1])
		if startY < 0 || startY >= height {
			return nil, fmt.Errorf("%w: OpenEXR scanline %d out of bounds", ErrInvalidImage, y)
		}
		n := lines
		if startY+n > height {
			n = height - startY
		}
		block, err := exrDecompress(h.compression, raw, n*h.rowBytes(width))
		if err != nil {
			return nil, err
		}
		for row := 0; row < n; row++ {
			rowData := block[row*h.rowBytes(width) : (row+1)*h.rowBytes(width)]
			exrDecodeRow(scratch, h.channels, width, rowData)
			dst := out.Row(startY + row)
			for x := range dst {
				p := scratch[x*4 : x*4+4]
				dst[x] = NewLinearSample(p[0]*scale, p[1]*scale, p[2]*scale, p[3])
			}
		}
	}
	return out, nil
}

func readEXRHeader(r *bytes.Reader) (exrHeader, error) {
	var h exrHeader
	magic, err := readU32(r)
	if err != nil || magic != exrMagic {
		return h, fmt.Errorf("%w: not an OpenEXR file", ErrInvalidImage)
	}
	version, err := readU32(r)
	if err != nil {
		return h, exrTruncated(err)
	}
	switch {
	case version&exrFlagTiled != 0:
		return h, fmt.Errorf("%w: tiled OpenEXR", ErrInvalidImage)
	case version&exrFlagMulti != 0:
		return h, fmt.Errorf("%w: multipart OpenEXR", ErrInvalidImage)
	case version&exrFlagDeep != 0:
		return h, fmt.Errorf("%w: deep OpenEXR", ErrInvalidImage)
	}

	hasWindow := false
	for {
		name, err := readNullString(r)
		if err != nil {
			return h, exrTruncated(err)
		}
		if name == "" {
			break
		}
		typ, err := readNullString(r)
		if err != nil {
			return h, exrTruncated(err)
		}
		size, err := readI32(r)
		if err != nil {
			return h, exrTruncated(err)
		}
		if size < 0 || int(size) > r.Len() {
			return h, fmt.Errorf("%w: OpenEXR attribute %q size %d", ErrInvalidImage, name, size)
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return h, exrTruncated(err)
		}

		switch {
		case name == "channels" && typ == "chlist":
			if h.channels, err = parseEXRChannels(payload); err != nil {
				return h, err
			}
		case name == "dataWindow" && typ == "box2i" && len(payload) == 16:
			for i := range h.window {
				h.window[i] = int32(binary.LittleEndian.Uint32(payload[i*4:]))
			}
			hasWindow = true
		case name == "compression" && len(payload) == 1:
			h.compression = payload[0]
		}
	}

	if !hasWindow {
		return h, fmt.Errorf("%w: OpenEXR missing dataWindow", ErrInvalidImage)
	}
	colour := false
	for _, ch := range h.channels {
		if ch.role >= exrChanY && ch.role <= exrChanB {
			colour = true
		}
	}
	if !colour {
		return h, fmt.Errorf("%w: OpenEXR has no R, G, B or Y channel", ErrInvalidImage)
	}
	switch h.compression {
	case exrCompressionNone, exrCompressionZips, exrCompressionZip:
	default:
		return h, fmt.Errorf("%w: OpenEXR compression %d", ErrInvalidImage, h.compression)
	}
	return h, nil
}

// parseEXRChannels reads a chlist: name, pixel type, pLinear + 3 reserved
// bytes, x and y sampling.
func parseEXRChannels(data []byte) ([]exrChannel, error) {
	r := bytes.NewReader(data)
	var channels []exrChannel
	for {
		name, err := readNullString(r)
		if err != nil {
			return nil, exrTruncated(err)
		}
		if name == "" {
			return channels, nil
		}
		var rec [16]byte
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, exrTruncated(err)
		}
		pt := int32(binary.LittleEndian.Uint32(rec[0:]))
		if pt != exrPixelUint && pt != exrPixelHalf && pt != exrPixelFloat {
			return nil, fmt.Errorf("%w: OpenEXR pixel type %d", ErrInvalidImage, pt)
		}
		if binary.LittleEndian.Uint32(rec[8:]) != 1 || binary.LittleEndian.Uint32(rec[12:]) != 1 {
			return nil, fmt.Errorf("%w: OpenEXR channel %q is subsampled", ErrInvalidImage, name)
		}
		role := exrChanOther
		switch name {
		case "R", "r":
			role = exrChanR
		case "G", "g":
			role = exrChanG
		case "B", "b":
			role = exrChanB
		case "A", "a":
			role = exrChanA
		case "Y", "y":
			role = exrChanY
		}
		channels = append(channels, exrChannel{name: name, pixelType: pt, role: role})
	}
}

func exrDecompress(compression byte, data []byte, expected int) ([]byte, error) {
	// Blocks that do not shrink are stored raw regardless of compression.
	if compression == exrCompressionNone || len(data) == expected {
		if len(data) != expected {
			return nil, fmt.Errorf("%w: OpenEXR block has %d bytes, want %d", ErrInvalidImage, len(data), expected)
		}
		return data, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	defer zr.Close()
	buf, err := io.ReadAll(io.LimitReader(zr, int64(expected)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(buf) != expected {
		return nil, fmt.Errorf("%w: OpenEXR block inflates to %d bytes, want %d", ErrInvalidImage, len(buf), expected)
	}
	for i := 1; i < len(buf); i++ {
		buf[i] = byte(int(buf[i]) + int(buf[i-1]) - 128)
	}
	// Undo the byte split: first half holds even bytes, second half odd ones.
	out := make([]byte, len(buf))
	half := (len(buf) + 1) / 2
	for i := range out {
		if i%2 == 0 {
			out[i] = buf[i/2]
		} else {
			out[i] = buf[half+i/2]
		}
	}
	return out, nil
}

// exrDecodeRow fills dst (width RGBA quads) from one scanline, channel by
// channel in file order.
func exrDecodeRow(dst []float32, channels []exrChannel, width int, data []byte) {
	for x := 0; x < width; x++ {
		dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = 0, 0, 0, 1
	}
	off := 0
	for _, ch := range channels {
		line := data[off : off+width*ch.size()]
		off += len(line)
		if ch.role == exrChanOther {
			continue
		}
		for x := 0; x < width; x++ {
			var v float32
			switch ch.pixelType {
			case exrPixelHalf:
				v = float16.Frombits(binary.LittleEndian.Uint16(line[x*2:])).Float32()
			case exrPixelFloat:
				v = math.Float32frombits(binary.LittleEndian.Uint32(line[x*4:]))
			default:
				v = float32(binary.LittleEndian.Uint32(line[x*4:]))
			}
			if ch.role == exrChanY {
				dst[x*4], dst[x*4+1], dst[x*4+2] = v, v, v
				continue
			}
			dst[x*4+ch.role] = v
		}
	}
}

func exrTruncated(err error) error {
	return fmt.Errorf("%w: truncated OpenEXR: %w", ErrInvalidImage, err)
}

func readNullString(r *bytes.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

func readU32(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}
