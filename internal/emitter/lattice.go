package emitter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// BccLattice calls fn for every point of a body-centered cubic lattice
// with the given spacing that fits in box, starting at box.Min. Layers
// alternate every half spacing along Z. Iteration stops early when fn
// returns false.
func BccLattice(box r3.Box, spacing float64, fn func(p r3.Vec) bool) {
	if !(spacing > 0) {
		return
	}
	half := spacing / 2
	size := r3.Sub(box.Max, box.Min)

	offset := 0.0
	for k := 0; float64(k)*half <= size.Z; k++ {
		z := box.Min.Z + float64(k)*half
		for j := 0; float64(j)*spacing+offset <= size.Y; j++ {
			y := box.Min.Y + float64(j)*spacing + offset
			for i := 0; float64(i)*spacing+offset <= size.X; i++ {
				x := box.Min.X + float64(i)*spacing + offset
				if !fn(r3.Vec{X: x, Y: y, Z: z}) {
					return
				}
			}
		}
		offset = half - offset
	}
}

// TriangleLattice calls fn for every point of a triangular lattice with
// the given spacing that fits in box. Odd rows are shifted by half a
// spacing.
func TriangleLattice(box r2.Box, spacing float64, fn func(p r2.Vec) bool) {
	if !(spacing > 0) {
		return
	}
	half := spacing / 2
	rowSpacing := spacing * math.Sqrt(3) / 2
	size := r2.Sub(box.Max, box.Min)

	offset := 0.0
	for j := 0; float64(j)*rowSpacing <= size.Y; j++ {
		y := box.Min.Y + float64(j)*rowSpacing
		for i := 0; float64(i)*spacing+offset <= size.X; i++ {
			x := box.Min.X + float64(i)*spacing + offset
			if !fn(r2.Vec{X: x, Y: y}) {
				return
			}
		}
		offset = half - offset
	}
}
