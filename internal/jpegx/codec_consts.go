package jpegx

const (
	markerStart = 0xff
	markerSOI   = 0xd8 // Start Of Image.
	markerEOI   = 0xd9 // End Of Image.
	markerAPP0  = 0xe0 // JFIF.
	markerAPP15 = 0xef
)

// MarkerAPP2 is the application segment used for ICC profile chunks.
const MarkerAPP2 = 0xe2

// maxMarkerPayload is the largest payload a marker segment can hold: the
// 16-bit length field counts itself.
const maxMarkerPayload = 0xffff - 2

// jfifPayload is a JFIF 1.01 APP0 body with unitless 1:1 density and no thumbnail.
var jfifPayload = []byte{'J', 'F', 'I', 'F', 0, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}
