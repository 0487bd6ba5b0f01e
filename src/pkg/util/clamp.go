package util

import "cmp"

// Clamp limits value to [low, high].
func Clamp[T cmp.Ordered](value, low, high T) T {
	return max(low, min(value, high))
}
