package common

// Epsilon is the tolerance used for degenerate lengths and float comparisons.
const Epsilon = 1e-9

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
