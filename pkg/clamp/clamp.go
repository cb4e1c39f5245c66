package clamp

import "golang.org/x/exp/constraints"

// To limits v to the range [lo, hi].
func To[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
