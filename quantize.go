package pqjpeg

// QuantizeRow PQ-encodes a row of linear samples into 8-bit codewords,
// reusing dst when it has enough capacity. Alpha is dropped.
//
// Codewords are rounded to nearest: round(clamp01(PQForward(v)) * 255).
func QuantizeRow(dst []Rec2020PQSample, row []LinearSample) []Rec2020PQSample {
	if cap(dst) < len(row) {
		dst = make([]Rec2020PQSample, len(row))
	}
	dst = dst[:len(row)]
	for i, s := range row {
		dst[i] = Rec2020PQSample{
			R: quantizeChannel(s.R.Float32()),
			G: quantizeChannel(s.G.Float32()),
			B: quantizeChannel(s.B.Float32()),
		}
	}
	return dst
}

// AppendScanline appends interleaved R, G, B bytes of row to dst.
func AppendScanline(dst []byte, row []Rec2020PQSample) []byte {
	for _, s := range row {
		dst = append(dst, s.R, s.G, s.B)
	}
	return dst
}

func quantizeChannel(v float32) uint8 {
	if v >= 1 { // PQForward(1) == 1, saturates +Inf as well.
		return 255
	}
	return uint8(clamp01(PQForward(v))*255 + 0.5)
}
