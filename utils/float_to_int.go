// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a [-1,1] sample to signed 16-bit PCM.
// Values outside the range are clipped, and the scale is asymmetric
// (-1 maps to math.MinInt16, 1 maps to math.MaxInt16).
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	case x < 0:
		return int16(x * 32768.0)
	}

	return int16(x * 32767.0)
}

// Float32ToInt converts a [-1,1] sample to an integer PCM value of the given
// bit depth, as stored in a go-audio IntBuffer. Unknown depths are treated
// as 16-bit.
func Float32ToInt(x float32, bitDepth int) int {
	if bitDepth != 8 && bitDepth != 24 && bitDepth != 32 {
		return int(Float32ToInt16(x))
	}

	full := float64(int64(1) << (bitDepth - 1))
	v := Clamp(float64(x), -1, 1)
	if v >= 0 {
		return int(v * (full - 1))
	}

	return int(v * full)
}

// IntToFloat32 is the inverse of Float32ToInt.
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth != 8 && bitDepth != 24 && bitDepth != 32 {
		bitDepth = 16
	}

	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
