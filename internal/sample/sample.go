// Package sample converts between float32 samples and integer channel values.
package sample

// U16ToF32 maps a 16-bit channel value [0,65535] to float32 [0,1].
func U16ToF32(v uint16) float32 {
	return float32(v) / 65535.0
}

// Normalize maps a channel value stored with the given maxval to [0,1].
// Values above maxval clamp to 1; a zero maxval yields 0.
func Normalize(v, maxval uint16) float32 {
	if maxval == 0 {
		return 0
	}
	if v >= maxval {
		return 1
	}
	return float32(v) / float32(maxval)
}

// F32ToU16 maps a float32 sample to [0,65535] with clamping and rounding.
// NaN maps to 0.
func F32ToU16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535.0 + 0.5)
}

// Gray returns the luminance of an RGB sample triple using Rec. 601 weights.
func Gray(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}
