package pqjpeg

import (
	"bytes"
	"fmt"
	"sort"
)

// iccHeaderSize is the signature plus sequence and count bytes.
const iccHeaderSize = 14

var iccSig = []byte{'I', 'C', 'C', '_', 'P', 'R', 'O', 'F', 'I', 'L', 'E', 0}

// ICCMarkerSegment is one APP2 chunk of an ICC profile.
type ICCMarkerSegment struct {
	Sequence int // 1-based.
	Total    int
	Payload  []byte // Sub-slice of the profile, not copied.
}

// Bytes returns the APP2 payload: "ICC_PROFILE\0", sequence, total, chunk.
func (s ICCMarkerSegment) Bytes() []byte {
	out := make([]byte, 0, iccHeaderSize+len(s.Payload))
	out = append(out, iccSig...)
	out = append(out, byte(s.Sequence), byte(s.Total))
	return append(out, s.Payload...)
}

// MarkerLength is the marker data length excluding the 2-byte length field.
func (s ICCMarkerSegment) MarkerLength() int {
	return len(s.Payload) + iccHeaderSize
}

// SegmentICCProfile partitions profile into chunks of at most maxPayload bytes.
// The chunk count is fixed before the first segment is produced, so every
// segment carries the same Total.
func SegmentICCProfile(profile []byte, maxPayload int) ([]ICCMarkerSegment, error) {
	if len(profile) == 0 {
		return nil, fmt.Errorf("%w: empty profile", ErrInvalidProfile)
	}
	if maxPayload <= 0 {
		return nil, fmt.Errorf("%w: segment payload %d", ErrInvalidProfile, maxPayload)
	}
	total := len(profile) / maxPayload
	if len(profile)%maxPayload != 0 {
		total++
	}
	if total > MaxICCSegments {
		return nil, fmt.Errorf("%w: %d bytes in %d-byte chunks needs %d segments", ErrTooManySegments, len(profile), maxPayload, total)
	}
	segs := make([]ICCMarkerSegment, 0, total)
	for i := 0; i < total; i++ {
		start := i * maxPayload
		end := len(profile)
		if end-start > maxPayload {
			end = start + maxPayload
		}
		segs = append(segs, ICCMarkerSegment{
			Sequence: i + 1,
			Total:    total,
			Payload:  profile[start:end:end],
		})
	}
	return segs, nil
}

// ReassembleICCProfile joins ICC APP2 payloads (in any order) back into a
// profile. Non-ICC payloads are ignored; nil is returned when none are found.
func ReassembleICCProfile(app2 [][]byte) ([]byte, error) {
	type chunk struct {
		seq  int
		data []byte
	}
	chunks := make([]chunk, 0, len(app2))
	total := 0
	for _, p := range app2 {
		if len(p) < iccHeaderSize || !bytes.HasPrefix(p, iccSig) {
			continue
		}
		seq, count := int(p[len(iccSig)]), int(p[len(iccSig)+1])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("%w: chunk %d of %d", ErrInvalidProfile, seq, count)
		}
		if total == 0 {
			total = count
		} else if count != total {
			return nil, fmt.Errorf("%w: inconsistent chunk count %d vs %d", ErrInvalidProfile, count, total)
		}
		chunks = append(chunks, chunk{seq: seq, data: p[iccHeaderSize:]})
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != total {
		return nil, fmt.Errorf("%w: found %d of %d chunks", ErrInvalidProfile, len(chunks), total)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	size := 0
	for i, c := range chunks {
		if c.seq != i+1 {
			return nil, fmt.Errorf("%w: duplicate chunk %d", ErrInvalidProfile, c.seq)
		}
		size += len(c.data)
	}
	out := make([]byte, 0, size)
	for _, c := range chunks {
		out = append(out, c.data...)
	}
	return out, nil
}
