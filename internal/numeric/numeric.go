// Package numeric holds small generic math helpers shared by the solvers.
package numeric

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// Epsilon is the tolerance used for "close enough to zero" checks.
	Epsilon = 1e-9

	// MaxSize marks an unset index.
	MaxSize = math.MaxInt
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits v to [lo, hi]. Values that do not compare, such as NaN,
// become lo.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AtLeast returns v, or lo when v is below lo or NaN.
func AtLeast[T constraints.Ordered](v, lo T) T {
	if !(v >= lo) {
		return lo
	}
	return v
}

func Square[T Number](x T) T { return x * x }

func Cubic[T Number](x T) T { return x * x * x }

// Lerp blends a toward b by t.
func Lerp[T constraints.Float](a, b, t T) T {
	return (1-t)*a + t*b
}

// Ceil returns the ceiling of x as an int, saturating at math.MaxInt32.
func Ceil(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(x))
}
