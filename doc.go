// Package pqjpeg encodes linear-light HDR images into baseline JPEG files that
// carry Rec.2020 PQ codewords and an embedded ICC profile.
//
// Samples are passed through the SMPTE ST 2084 (PQ) transfer function and
// quantized to 8 bits. The ICC profile is split into APP2 "ICC_PROFILE" chunks
// written ahead of the scan data, so viewers that honor the profile render the
// HDR signal while plain decoders still get a valid image.
package pqjpeg
