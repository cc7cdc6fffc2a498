package dense

import "math"

// IsSmall reports whether value is negligible next to comparedTo, meaning
// that adding it to comparedTo does not change comparedTo in float64
// precision. Zero is always small; NaN never is.
func IsSmall(comparedTo, value float64) bool {
	if value == 0 {
		return true
	}
	if math.IsNaN(value) || math.IsNaN(comparedTo) {
		return false
	}
	return comparedTo+value == comparedTo
}

// IsAbsolute reports whether value equals its own absolute value.
func IsAbsolute(value float64) bool {
	return value >= 0
}

// SmallAt reports whether d[index] is small compared to comparedTo. It is
// the per-element form of IsSmall used by pivoting and rank decisions.
func SmallAt(d Dense, index int64, comparedTo float64) (bool, error) {
	v, err := d.Get(index)
	if err != nil {
		return false, err
	}
	return IsSmall(comparedTo, v), nil
}

// AbsoluteAt reports whether d[index] is non-negative.
func AbsoluteAt(d Dense, index int64) (bool, error) {
	v, err := d.Get(index)
	if err != nil {
		return false, err
	}
	return IsAbsolute(v), nil
}
