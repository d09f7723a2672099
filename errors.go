package pqjpeg

import "errors"

// Error kinds reported by encoding. All are terminal for one Encode call.
var (
	ErrProfileRead     = errors.New("cannot read ICC profile")
	ErrInvalidProfile  = errors.New("invalid ICC profile")
	ErrTooManySegments = errors.New("ICC profile needs more than 255 segments")
	ErrOutputWrite     = errors.New("cannot write output")
	ErrAllocation      = errors.New("buffer allocation refused")
	ErrInvalidImage    = errors.New("invalid image buffer")
	ErrInvalidOptions  = errors.New("invalid encode options")
)
