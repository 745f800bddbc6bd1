package neighbor

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
)

const (
	// DefaultGridSpacing is the cell edge of registry-built hash grids.
	DefaultGridSpacing = 1.0

	defaultResolution = 64
)

func DefaultResolution3() geom.Size3 {
	return geom.NewSize3(defaultResolution, defaultResolution, defaultResolution)
}

func DefaultResolution2() geom.Size2 {
	return geom.NewSize2(defaultResolution, defaultResolution)
}

// wrap maps i into [0, n).
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func checkSpacing(spacing float64) {
	if spacing < 0 || spacing != spacing {
		panic(fmt.Sprintf("neighbor: invalid grid spacing %v", spacing))
	}
}

// grid3 maps positions to hash buckets. The bucket lattice wraps around, so
// points far apart can share a bucket; queries filter by distance.
type grid3 struct {
	resolution geom.Size3
	spacing    float64
}

func newGrid3(resolution geom.Size3, spacing float64) grid3 {
	resolution = geom.NewSize3(resolution.X, resolution.Y, resolution.Z)
	checkSpacing(spacing)
	return grid3{resolution: resolution, spacing: spacing}
}

func (g *grid3) Resolution() geom.Size3 { return g.resolution }

func (g *grid3) GridSpacing() float64 { return g.spacing }

// BucketIndex returns the lattice cell containing p.
func (g *grid3) BucketIndex(p r3.Vec) geom.Index3 {
	if g.spacing == 0 {
		return geom.Index3{}
	}
	return geom.Floor3(p, g.spacing)
}

// HashKeyFromBucketIndex wraps idx into the resolution and flattens it.
func (g *grid3) HashKeyFromBucketIndex(idx geom.Index3) int {
	r := g.resolution
	i := wrap(idx.X, r.X)
	j := wrap(idx.Y, r.Y)
	k := wrap(idx.Z, r.Z)
	return i + r.X*(j+r.Y*k)
}

func (g *grid3) HashKeyFromPosition(p r3.Vec) int {
	return g.HashKeyFromBucketIndex(g.BucketIndex(p))
}

// NearbyKeys returns the distinct keys of the 3×3×3 cells around p.
func (g *grid3) NearbyKeys(p r3.Vec) []int {
	var buf [27]int
	n := g.nearbyKeys(p, &buf)
	return append([]int(nil), buf[:n]...)
}

func (g *grid3) nearbyKeys(p r3.Vec, buf *[27]int) int {
	c := g.BucketIndex(p)
	n := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				key := g.HashKeyFromBucketIndex(geom.Index3{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz})
				if !containsKey(buf[:n], key) {
					buf[n] = key
					n++
				}
			}
		}
	}
	return n
}

// grid2 is the 2D counterpart of grid3.
type grid2 struct {
	resolution geom.Size2
	spacing    float64
}

func newGrid2(resolution geom.Size2, spacing float64) grid2 {
	resolution = geom.NewSize2(resolution.X, resolution.Y)
	checkSpacing(spacing)
	return grid2{resolution: resolution, spacing: spacing}
}

func (g *grid2) Resolution() geom.Size2 { return g.resolution }

func (g *grid2) GridSpacing() float64 { return g.spacing }

func (g *grid2) BucketIndex(p r2.Vec) geom.Index2 {
	if g.spacing == 0 {
		return geom.Index2{}
	}
	return geom.Floor2(p, g.spacing)
}

func (g *grid2) HashKeyFromBucketIndex(idx geom.Index2) int {
	r := g.resolution
	return wrap(idx.X, r.X) + r.X*wrap(idx.Y, r.Y)
}

func (g *grid2) HashKeyFromPosition(p r2.Vec) int {
	return g.HashKeyFromBucketIndex(g.BucketIndex(p))
}

// NearbyKeys returns the distinct keys of the 3×3 cells around p.
func (g *grid2) NearbyKeys(p r2.Vec) []int {
	var buf [9]int
	n := g.nearbyKeys(p, &buf)
	return append([]int(nil), buf[:n]...)
}

func (g *grid2) nearbyKeys(p r2.Vec, buf *[9]int) int {
	c := g.BucketIndex(p)
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			key := g.HashKeyFromBucketIndex(geom.Index2{X: c.X + dx, Y: c.Y + dy})
			if !containsKey(buf[:n], key) {
				buf[n] = key
				n++
			}
		}
	}
	return n
}

func containsKey(keys []int, key int) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// gridState is the serialized form of a grid's geometry.
type gridState struct {
	Resolution []int
	Spacing    float64
}

func (g *grid3) state() gridState {
	return gridState{
		Resolution: []int{g.resolution.X, g.resolution.Y, g.resolution.Z},
		Spacing:    g.spacing,
	}
}

func (g *grid2) state() gridState {
	return gridState{
		Resolution: []int{g.resolution.X, g.resolution.Y},
		Spacing:    g.spacing,
	}
}

func (st gridState) grid3() (grid3, error) {
	if len(st.Resolution) != 3 || !positive(st.Resolution) || st.Spacing < 0 {
		return grid3{}, fmt.Errorf("%w: grid %v spacing %v", ErrCorruptSnapshot, st.Resolution, st.Spacing)
	}
	return grid3{
		resolution: geom.Size3{X: st.Resolution[0], Y: st.Resolution[1], Z: st.Resolution[2]},
		spacing:    st.Spacing,
	}, nil
}

func (st gridState) grid2() (grid2, error) {
	if len(st.Resolution) != 2 || !positive(st.Resolution) || st.Spacing < 0 {
		return grid2{}, fmt.Errorf("%w: grid %v spacing %v", ErrCorruptSnapshot, st.Resolution, st.Spacing)
	}
	return grid2{
		resolution: geom.Size2{X: st.Resolution[0], Y: st.Resolution[1]},
		spacing:    st.Spacing,
	}, nil
}

func positive(xs []int) bool {
	for _, x := range xs {
		if x <= 0 {
			return false
		}
	}
	return true
}
