package pqjpeg

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// HasICCProfile reports whether the JPEG read from r carries an ICC_PROFILE
// APP2 segment. It stops at the first SOS without reading scan data.
func HasICCProfile(r io.Reader) (bool, error) {
	br := bufio.NewReader(r)
	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return false, err
	}
	if soi[0] != markerStart || soi[1] != markerSOI {
		return false, errors.New("invalid JPEG")
	}
	for {
		marker, err := readMarker(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		switch {
		case marker == markerSOS || marker == markerEOI:
			return false, nil
		case marker >= 0xD0 && marker <= 0xD7:
			continue
		case marker == markerAPP2:
			match, err := segmentHasPrefix(br, iccSig)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		default:
			if err := discardSegment(br); err != nil {
				return false, err
			}
		}
	}
}

func readMarker(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != markerStart {
			continue
		}
		for {
			m, err := br.ReadByte()
			if err != nil {
				return 0, err
			}
			if m != markerStart {
				return m, nil
			}
		}
	}
}

func discardSegment(br *bufio.Reader) error {
	length, err := readU16(br)
	if err != nil {
		return err
	}
	if length < 2 {
		return errors.New("invalid segment length")
	}
	return discardN(br, int(length-2))
}

func segmentHasPrefix(br *bufio.Reader, prefix []byte) (bool, error) {
	length, err := readU16(br)
	if err != nil {
		return false, err
	}
	if length < 2 {
		return false, errors.New("invalid segment length")
	}
	payloadLen := int(length - 2)
	readLen := payloadLen
	if readLen > len(prefix) {
		readLen = len(prefix)
	}
	buf := make([]byte, readLen)
	if _, err := io.ReadFull(br, buf); err != nil {
		return false, err
	}
	if err := discardN(br, payloadLen-readLen); err != nil {
		return false, err
	}
	return bytes.Equal(buf, prefix), nil
}

func readU16(br *bufio.Reader) (uint16, error) {
	hi, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func discardN(br *bufio.Reader, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, br, int64(n))
	return err
}
