package pqjpeg

// PQ (SMPTE ST 2084) curve coefficients.
const (
	PQM1 = 2610.0 / 16384.0
	PQM2 = 2523.0 / 32.0
	PQC1 = 3424.0 / 4096.0
	PQC2 = 2413.0 / 128.0
	PQC3 = 2392.0 / 128.0
)

// SDRWhiteNits is the ITU-R BT.2408 reference white for SDR content in HDR.
const SDRWhiteNits = 203.0

const (
	pqMaxNits      = 10000.0
	demoSDRNits    = 500.0
	defaultQuality = 95
)

// ICC APP2 segmentation limits.
const (
	// DefaultICCSegmentPayload is the nominal chunk size of the ICC/JPEG
	// embedding convention.
	DefaultICCSegmentPayload = 65533
	// MaxICCSegmentPayload is the largest chunk whose APP2 length field
	// (chunk + 14 header bytes + 2 length bytes) still fits in 16 bits.
	MaxICCSegmentPayload = 0xffff - 2 - iccHeaderSize
	// MaxICCSegments is the sequence byte limit.
	MaxICCSegments = 255
)
