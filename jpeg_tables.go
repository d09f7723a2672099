package pqjpeg

import (
	"errors"
	"fmt"
)

const (
	markerSOF0 = 0xC0
	markerSOF1 = 0xC1
	markerSOF2 = 0xC2
	markerDQT  = 0xDB
)

// libjpegLumaQuant is the Annex K luminance table in zigzag order, the base
// that libjpeg-style encoders scale by quality.
var libjpegLumaQuant = [64]byte{
	16, 11, 12, 14, 12, 10, 16, 14, 13, 14, 18, 17, 16, 19, 24, 40,
	26, 24, 22, 22, 24, 49, 35, 37, 29, 40, 58, 51, 61, 60, 57, 51,
	56, 55, 64, 72, 92, 78, 64, 68, 87, 69, 55, 56, 80, 109, 81, 87,
	95, 98, 103, 104, 103, 62, 77, 113, 121, 112, 100, 120, 92, 101, 103, 99,
}

// JPEGInfo describes the frame header and luma quantization of a JPEG.
type JPEGInfo struct {
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	Components  int  `json:"components"`
	Precision   int  `json:"precision"`
	Progressive bool `json:"progressive,omitempty"`
	// LumaSampling is the horizontal and vertical sampling factor of the
	// first component.
	LumaSampling [2]int `json:"lumaSampling"`
	// Quality is the libjpeg quality whose scaled table is closest to the
	// luma table; QualityExact reports a byte-for-byte match.
	Quality      int  `json:"quality"`
	QualityExact bool `json:"qualityExact"`
}

// InspectJPEG parses the frame header and quantization tables.
func InspectJPEG(jpegData []byte) (*JPEGInfo, error) {
	segs, err := headerSegments(jpegData)
	if err != nil {
		return nil, err
	}
	info := &JPEGInfo{}
	var luma []byte
	hasFrame := false
	for _, s := range segs {
		switch s.marker {
		case markerDQT:
			t, err := lumaTable(s.payload)
			if err != nil {
				return nil, err
			}
			if t != nil {
				luma = t
			}
		case markerSOF0, markerSOF1, markerSOF2:
			if err := parseFrameHeader(s.payload, info); err != nil {
				return nil, err
			}
			info.Progressive = s.marker == markerSOF2
			hasFrame = true
		}
	}
	if !hasFrame {
		return nil, errors.New("missing SOF0/SOF1/SOF2 frame header")
	}
	if luma != nil {
		info.Quality, info.QualityExact = estimateQuality(luma)
	}
	return info, nil
}

// lumaTable returns table 0 of a DQT segment, nil if the segment only
// defines other tables.
func lumaTable(seg []byte) ([]byte, error) {
	var luma []byte
	for pos := 0; pos < len(seg); {
		pq, tq := seg[pos]>>4, seg[pos]&0x0F
		pos++
		size := 64
		if pq != 0 {
			size = 128
		}
		if pos+size > len(seg) {
			return nil, errors.New("truncated DQT table")
		}
		if tq == 0 && pq == 0 {
			luma = seg[pos : pos+64]
		}
		pos += size
	}
	return luma, nil
}

func parseFrameHeader(seg []byte, info *JPEGInfo) error {
	if len(seg) < 6 {
		return errors.New("truncated SOF")
	}
	info.Precision = int(seg[0])
	info.Height = int(seg[1])<<8 | int(seg[2])
	info.Width = int(seg[3])<<8 | int(seg[4])
	info.Components = int(seg[5])
	if info.Components < 1 || len(seg) < 6+3*info.Components {
		return fmt.Errorf("invalid SOF component count %d", info.Components)
	}
	samp := seg[7]
	info.LumaSampling = [2]int{int(samp >> 4), int(samp & 0x0F)}
	return nil
}

// estimateQuality matches the table against libjpeg scaling for every
// quality and returns the closest one. Ties go to the lower quality.
func estimateQuality(table []byte) (int, bool) {
	best, bestDiff := 0, -1
	for q := 1; q <= 100; q++ {
		scale := 200 - 2*q
		if q < 50 {
			scale = 5000 / q
		}
		diff := 0
		for i, base := range libjpegLumaQuant {
			v := (int(base)*scale + 50) / 100
			if v < 1 {
				v = 1
			} else if v > 255 {
				v = 255
			}
			d := v - int(table[i])
			if d < 0 {
				d = -d
			}
			diff += d
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = q, diff
		}
	}
	return best, bestDiff == 0
}
