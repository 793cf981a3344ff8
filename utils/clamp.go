// SPDX-License-Identifier: EPL-2.0

package utils

import "cmp"

// Clamp limits x to [lo, hi].
func Clamp[T cmp.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1]. NaN becomes 0.
func Clamp01(x float64) float64 {
	if x != x {
		return 0
	}
	return Clamp(x, 0, 1)
}

// Lerp interpolates linearly between a and b. t is clamped to [0, 1], so
// Lerp(a, b, 1) is exactly b.
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}
