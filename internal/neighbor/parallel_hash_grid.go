package neighbor

import (
	"fmt"
	"slices"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/parallel"
)

// table is a bucketed view of n points: points sorted by key, with
// sortedIndices[j] naming the original index of the j-th sorted point and
// [start[k], end[k]) the sorted range of bucket k.
type table struct {
	keys          []int
	start         []int
	end           []int
	sortedIndices []int

	// scratch, reused across builds
	rawKeys []int
	cursor  []int32
}

// build sorts the n keys produced by keyOf into buckets. Points within a
// bucket keep ascending original order so that builds are deterministic.
func (t *table) build(n, buckets int, keyOf func(i int) int) {
	t.rawKeys = resize(t.rawKeys, n)
	t.keys = resize(t.keys, n)
	t.sortedIndices = resize(t.sortedIndices, n)
	t.start = resize(t.start, buckets)
	t.end = resize(t.end, buckets)
	if cap(t.cursor) < buckets {
		t.cursor = make([]int32, buckets)
	}
	t.cursor = t.cursor[:buckets]
	clear(t.cursor)

	parallel.For(0, n, func(i int) {
		key := keyOf(i)
		t.rawKeys[i] = key
		atomic.AddInt32(&t.cursor[key], 1)
	})

	offset := 0
	for k, c := range t.cursor {
		t.start[k] = offset
		offset += int(c)
		t.end[k] = offset
		t.cursor[k] = int32(t.start[k])
	}

	parallel.For(0, n, func(i int) {
		slot := atomic.AddInt32(&t.cursor[t.rawKeys[i]], 1) - 1
		t.sortedIndices[slot] = i
	})

	parallel.For(0, buckets, func(k int) {
		if t.end[k]-t.start[k] > 1 {
			slices.Sort(t.sortedIndices[t.start[k]:t.end[k]])
		}
	})

	parallel.For(0, n, func(j int) {
		t.keys[j] = t.rawKeys[t.sortedIndices[j]]
	})
}

func (t *table) clone() table {
	return table{
		keys:          slices.Clone(t.keys),
		start:         slices.Clone(t.start),
		end:           slices.Clone(t.end),
		sortedIndices: slices.Clone(t.sortedIndices),
	}
}

type tableState struct {
	Keys          []int
	Start         []int
	End           []int
	SortedIndices []int
}

func (t *table) state() tableState {
	return tableState{Keys: t.keys, Start: t.start, End: t.end, SortedIndices: t.sortedIndices}
}

func (st tableState) table(buckets, numPoints int) (table, error) {
	t := table{keys: st.Keys, start: st.Start, end: st.End, sortedIndices: st.SortedIndices}
	if len(t.start) != len(t.end) {
		return table{}, fmt.Errorf("%w: start/end tables differ in length", ErrCorruptSnapshot)
	}
	if len(t.start) == 0 {
		if numPoints != 0 || len(t.keys) != 0 || len(t.sortedIndices) != 0 {
			return table{}, fmt.Errorf("%w: points without bucket tables", ErrCorruptSnapshot)
		}
		return t, nil
	}
	if len(t.start) != buckets {
		return table{}, fmt.Errorf("%w: %d buckets, want %d", ErrCorruptSnapshot, len(t.start), buckets)
	}
	if len(t.keys) != numPoints || len(t.sortedIndices) != numPoints {
		return table{}, fmt.Errorf("%w: %d keys and %d indices for %d points",
			ErrCorruptSnapshot, len(t.keys), len(t.sortedIndices), numPoints)
	}
	for k := range t.start {
		if t.start[k] < 0 || t.start[k] > t.end[k] || t.end[k] > numPoints {
			return table{}, fmt.Errorf("%w: bucket %d range [%d, %d)", ErrCorruptSnapshot, k, t.start[k], t.end[k])
		}
	}
	for _, i := range t.sortedIndices {
		if i < 0 || i >= numPoints {
			return table{}, fmt.Errorf("%w: point index %d out of range", ErrCorruptSnapshot, i)
		}
	}
	return t, nil
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// ParallelHashGridSearch3 stores the grid as sorted arrays. Build runs on
// the parallel package's worker pool; queries are read-only and may run
// concurrently once Build returns.
type ParallelHashGridSearch3 struct {
	grid3
	table
	points []r3.Vec
}

// NewParallelHashGridSearch3 panics on a non-positive resolution or negative spacing.
func NewParallelHashGridSearch3(resolution geom.Size3, spacing float64) *ParallelHashGridSearch3 {
	return &ParallelHashGridSearch3{grid3: newGrid3(resolution, spacing)}
}

func (s *ParallelHashGridSearch3) TypeName() string { return ParallelHashGridSearch3Name }

func (s *ParallelHashGridSearch3) Build(points []r3.Vec) {
	s.table.build(len(points), s.resolution.Count(), func(i int) int {
		return s.HashKeyFromPosition(points[i])
	})
	sorted := make([]r3.Vec, len(points))
	parallel.For(0, len(points), func(j int) {
		sorted[j] = points[s.sortedIndices[j]]
	})
	s.points = sorted
}

// Points returns the stored points in bucket order.
func (s *ParallelHashGridSearch3) Points() []r3.Vec { return s.points }

// Keys returns the hash key of each stored point, in bucket order.
func (s *ParallelHashGridSearch3) Keys() []int { return s.keys }

func (s *ParallelHashGridSearch3) StartIndexTable() []int { return s.start }

func (s *ParallelHashGridSearch3) EndIndexTable() []int { return s.end }

// SortedIndices maps bucket order back to the original point indices.
func (s *ParallelHashGridSearch3) SortedIndices() []int { return s.sortedIndices }

func (s *ParallelHashGridSearch3) ForEachNearbyPoint(origin r3.Vec, radius float64, fn Callback3) {
	if len(s.start) == 0 {
		return
	}
	rr := radius * radius
	var keys [27]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for j := s.start[key]; j < s.end[key]; j++ {
			p := s.points[j]
			if geom.Distance3Sq(p, origin) <= rr {
				fn(s.sortedIndices[j], p)
			}
		}
	}
}

func (s *ParallelHashGridSearch3) HasNearbyPoint(origin r3.Vec, radius float64) bool {
	if len(s.start) == 0 {
		return false
	}
	rr := radius * radius
	var keys [27]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for j := s.start[key]; j < s.end[key]; j++ {
			if geom.Distance3Sq(s.points[j], origin) <= rr {
				return true
			}
		}
	}
	return false
}

func (s *ParallelHashGridSearch3) Clone() Searcher3 {
	return &ParallelHashGridSearch3{
		grid3:  s.grid3,
		table:  s.table.clone(),
		points: slices.Clone(s.points),
	}
}

type parallelGridState3 struct {
	Grid   gridState
	Table  tableState
	Points []r3.Vec
}

func (s *ParallelHashGridSearch3) Serialize() ([]byte, error) {
	return encode(parallelGridState3{Grid: s.grid3.state(), Table: s.table.state(), Points: s.points})
}

func (s *ParallelHashGridSearch3) Deserialize(data []byte) error {
	var st parallelGridState3
	if err := decode(data, &st); err != nil {
		return err
	}
	g, err := st.Grid.grid3()
	if err != nil {
		return err
	}
	t, err := st.Table.table(g.resolution.Count(), len(st.Points))
	if err != nil {
		return err
	}
	s.grid3, s.table, s.points = g, t, st.Points
	return nil
}

// ParallelHashGridSearch2 is the 2D counterpart of ParallelHashGridSearch3.
type ParallelHashGridSearch2 struct {
	grid2
	table
	points []r2.Vec
}

// NewParallelHashGridSearch2 panics on a non-positive resolution or negative spacing.
func NewParallelHashGridSearch2(resolution geom.Size2, spacing float64) *ParallelHashGridSearch2 {
	return &ParallelHashGridSearch2{grid2: newGrid2(resolution, spacing)}
}

func (s *ParallelHashGridSearch2) TypeName() string { return ParallelHashGridSearch2Name }

func (s *ParallelHashGridSearch2) Build(points []r2.Vec) {
	s.table.build(len(points), s.resolution.Count(), func(i int) int {
		return s.HashKeyFromPosition(points[i])
	})
	sorted := make([]r2.Vec, len(points))
	parallel.For(0, len(points), func(j int) {
		sorted[j] = points[s.sortedIndices[j]]
	})
	s.points = sorted
}

func (s *ParallelHashGridSearch2) Points() []r2.Vec { return s.points }

func (s *ParallelHashGridSearch2) Keys() []int { return s.keys }

func (s *ParallelHashGridSearch2) StartIndexTable() []int { return s.start }

func (s *ParallelHashGridSearch2) EndIndexTable() []int { return s.end }

func (s *ParallelHashGridSearch2) SortedIndices() []int { return s.sortedIndices }

func (s *ParallelHashGridSearch2) ForEachNearbyPoint(origin r2.Vec, radius float64, fn Callback2) {
	if len(s.start) == 0 {
		return
	}
	rr := radius * radius
	var keys [9]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for j := s.start[key]; j < s.end[key]; j++ {
			p := s.points[j]
			if geom.Distance2Sq(p, origin) <= rr {
				fn(s.sortedIndices[j], p)
			}
		}
	}
}

func (s *ParallelHashGridSearch2) HasNearbyPoint(origin r2.Vec, radius float64) bool {
	if len(s.start) == 0 {
		return false
	}
	rr := radius * radius
	var keys [9]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for j := s.start[key]; j < s.end[key]; j++ {
			if geom.Distance2Sq(s.points[j], origin) <= rr {
				return true
			}
		}
	}
	return false
}

func (s *ParallelHashGridSearch2) Clone() Searcher2 {
	return &ParallelHashGridSearch2{
		grid2:  s.grid2,
		table:  s.table.clone(),
		points: slices.Clone(s.points),
	}
}

type parallelGridState2 struct {
	Grid   gridState
	Table  tableState
	Points []r2.Vec
}

func (s *ParallelHashGridSearch2) Serialize() ([]byte, error) {
	return encode(parallelGridState2{Grid: s.grid2.state(), Table: s.table.state(), Points: s.points})
}

func (s *ParallelHashGridSearch2) Deserialize(data []byte) error {
	var st parallelGridState2
	if err := decode(data, &st); err != nil {
		return err
	}
	g, err := st.Grid.grid2()
	if err != nil {
		return err
	}
	t, err := st.Table.table(g.resolution.Count(), len(st.Points))
	if err != nil {
		return err
	}
	s.grid2, s.table, s.points = g, t, st.Points
	return nil
}
