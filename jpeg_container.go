package pqjpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP2  = 0xE2
)

// headerSegment is a marker segment found before the first SOS.
type headerSegment struct {
	marker  byte
	payload []byte
}

// headerSegments lists marker segments between SOI and SOS.
// Payloads alias jpegData.
func headerSegments(jpegData []byte) ([]headerSegment, error) {
	if len(jpegData) < 4 || jpegData[0] != markerStart || jpegData[1] != markerSOI {
		return nil, errors.New("invalid JPEG")
	}
	var segs []headerSegment
	pos := 2
	for pos+3 < len(jpegData) {
		if jpegData[pos] != markerStart {
			pos++
			continue
		}
		for pos < len(jpegData) && jpegData[pos] == markerStart {
			pos++
		}
		if pos >= len(jpegData) {
			break
		}
		marker := jpegData[pos]
		pos++
		if marker == markerSOS || marker == markerEOI {
			break
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue
		}
		if pos+1 >= len(jpegData) {
			return nil, errors.New("truncated marker")
		}
		segLen := int(binary.BigEndian.Uint16(jpegData[pos:]))
		if segLen < 2 || pos+segLen > len(jpegData) {
			return nil, errors.New("invalid segment length")
		}
		segs = append(segs, headerSegment{marker: marker, payload: jpegData[pos+2 : pos+segLen]})
		pos += segLen
	}
	return segs, nil
}

// ICCSegmentPayloads returns the raw "ICC_PROFILE" APP2 payloads of a JPEG
// in file order.
func ICCSegmentPayloads(jpegData []byte) ([][]byte, error) {
	segs, err := headerSegments(jpegData)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for _, s := range segs {
		if s.marker == markerAPP2 && len(s.payload) >= iccHeaderSize && bytes.HasPrefix(s.payload, iccSig) {
			out = append(out, append([]byte(nil), s.payload...))
		}
	}
	return out, nil
}

// ExtractICCProfile reassembles the embedded ICC profile, nil if absent.
func ExtractICCProfile(jpegData []byte) ([]byte, error) {
	app2, err := ICCSegmentPayloads(jpegData)
	if err != nil {
		return nil, err
	}
	return ReassembleICCProfile(app2)
}
