package pqjpeg

import "math"

func powf(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

func srgbInvOetf(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return powf((v+0.055)/1.055, 2.4)
}

func clamp01(v float32) float32 {
	if !(v > 0) { // NaN included
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
