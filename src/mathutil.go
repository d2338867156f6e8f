package stdc

import (
	"math"
)

func clamp(v float64, lo float64, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

func cabs(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

func magSq(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// wrapHalf folds v into [-0.5, 0.5) so a timing offset of more than half
// a symbol becomes the equivalent offset on the neighbouring symbol.
func wrapHalf(v float64) float64 {
	var w float64
	if v > 0 {
		w = math.Mod(v+0.5, 1.0) - 0.5
	} else {
		w = math.Mod(v-0.5, 1.0) + 0.5
	}

	if w >= 0.5 {
		w -= 1
	}

	return w
}

func sign(v float64) float64 {
	if v >= 0 {
		return 1
	}

	return -1
}
