package pqjpeg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

var pngSig = []byte("\x89PNG\r\n\x1a\n")

const pngColorTypeRGBA = 6

// ReadRGBA decodes an RGBA PNG file into 8-bit non-premultiplied R, G, B, A
// bytes. 16-bit images keep the high byte of each sample.
func ReadRGBA(path string) (pix []byte, width, height int, err error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, 0, 0, err
	}
	// Signature, IHDR length and type, width, height, bit depth, then color type.
	if len(data) < 26 || !bytes.HasPrefix(data, pngSig) || string(data[12:16]) != "IHDR" {
		return nil, 0, 0, errors.New("not a valid PNG")
	}
	if ct := data[25]; ct != pngColorTypeRGBA {
		return nil, 0, 0, fmt.Errorf("expected RGBA PNG, got color type %d", ct)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	pix = make([]byte, width*height*4)
	switch m := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			copy(pix[y*width*4:(y+1)*width*4], m.Pix[y*m.Stride:y*m.Stride+width*4])
		}
	case *image.NRGBA64:
		for y := 0; y < height; y++ {
			src := m.Pix[y*m.Stride : y*m.Stride+width*8]
			dst := pix[y*width*4 : (y+1)*width*4]
			for i := range dst {
				dst[i] = src[i*2]
			}
		}
	default:
		return nil, 0, 0, fmt.Errorf("unexpected PNG decoder output %T", img)
	}
	return pix, width, height, nil
}
