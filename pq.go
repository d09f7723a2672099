package pqjpeg

// PQForward applies the ST 2084 inverse EOTF: normalized linear light
// (1.0 = 10000 nits) to a normalized PQ codeword.
//
// Zero maps to PQC1^PQM2, the curve's black level. Negative and NaN inputs
// are treated as zero, values above 1 are extrapolated.
func PQForward(linear float32) float32 {
	if !(linear > 0) {
		linear = 0
	}
	lm := powf(linear, PQM1)
	num := PQC1 + PQC2*lm
	den := 1 + PQC3*lm
	return powf(num/den, PQM2)
}

// NitsToLinear normalizes absolute luminance to the PQ linear domain.
func NitsToLinear(nits float32) float32 {
	return nits / pqMaxNits
}
