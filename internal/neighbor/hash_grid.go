package neighbor

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
)

// HashGridSearch3 keeps one slice of point indices per hash bucket.
type HashGridSearch3 struct {
	grid3
	points  []r3.Vec
	buckets [][]int
}

// NewHashGridSearch3 panics on a non-positive resolution or negative spacing.
func NewHashGridSearch3(resolution geom.Size3, spacing float64) *HashGridSearch3 {
	return &HashGridSearch3{grid3: newGrid3(resolution, spacing)}
}

func (s *HashGridSearch3) TypeName() string { return HashGridSearch3Name }

// Build discards the previous contents and buckets points.
func (s *HashGridSearch3) Build(points []r3.Vec) {
	s.points = append(s.points[:0], points...)
	n := s.resolution.Count()
	if len(s.buckets) != n {
		s.buckets = make([][]int, n)
	} else {
		for i := range s.buckets {
			s.buckets[i] = s.buckets[i][:0]
		}
	}
	for i, p := range points {
		key := s.HashKeyFromPosition(p)
		s.buckets[key] = append(s.buckets[key], i)
	}
}

// Add appends p to the index without rebuilding. Its index is the
// number of points before the call.
func (s *HashGridSearch3) Add(p r3.Vec) {
	if len(s.buckets) != s.resolution.Count() {
		s.Build(s.points)
	}
	key := s.HashKeyFromPosition(p)
	s.buckets[key] = append(s.buckets[key], len(s.points))
	s.points = append(s.points, p)
}

// Buckets exposes the per-bucket index lists. Callers must not modify them.
func (s *HashGridSearch3) Buckets() [][]int { return s.buckets }

func (s *HashGridSearch3) ForEachNearbyPoint(origin r3.Vec, radius float64, fn Callback3) {
	if len(s.buckets) == 0 {
		return
	}
	rr := radius * radius
	var keys [27]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for _, i := range s.buckets[key] {
			p := s.points[i]
			if geom.Distance3Sq(p, origin) <= rr {
				fn(i, p)
			}
		}
	}
}

func (s *HashGridSearch3) HasNearbyPoint(origin r3.Vec, radius float64) bool {
	if len(s.buckets) == 0 {
		return false
	}
	rr := radius * radius
	var keys [27]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for _, i := range s.buckets[key] {
			if geom.Distance3Sq(s.points[i], origin) <= rr {
				return true
			}
		}
	}
	return false
}

func (s *HashGridSearch3) Clone() Searcher3 {
	c := &HashGridSearch3{
		grid3:  s.grid3,
		points: append([]r3.Vec(nil), s.points...),
	}
	if s.buckets != nil {
		c.buckets = make([][]int, len(s.buckets))
		for i, b := range s.buckets {
			c.buckets[i] = append([]int(nil), b...)
		}
	}
	return c
}

type hashGridState3 struct {
	Grid    gridState
	Points  []r3.Vec
	Buckets [][]int
}

func (s *HashGridSearch3) Serialize() ([]byte, error) {
	return encode(hashGridState3{Grid: s.state(), Points: s.points, Buckets: s.buckets})
}

// Deserialize replaces the whole state, geometry included.
func (s *HashGridSearch3) Deserialize(data []byte) error {
	var st hashGridState3
	if err := decode(data, &st); err != nil {
		return err
	}
	g, err := st.Grid.grid3()
	if err != nil {
		return err
	}
	if err := checkBuckets(st.Buckets, g.resolution.Count(), len(st.Points)); err != nil {
		return err
	}
	s.grid3, s.points, s.buckets = g, st.Points, st.Buckets
	return nil
}

// HashGridSearch2 keeps one slice of point indices per hash bucket.
type HashGridSearch2 struct {
	grid2
	points  []r2.Vec
	buckets [][]int
}

// NewHashGridSearch2 panics on a non-positive resolution or negative spacing.
func NewHashGridSearch2(resolution geom.Size2, spacing float64) *HashGridSearch2 {
	return &HashGridSearch2{grid2: newGrid2(resolution, spacing)}
}

func (s *HashGridSearch2) TypeName() string { return HashGridSearch2Name }

func (s *HashGridSearch2) Build(points []r2.Vec) {
	s.points = append(s.points[:0], points...)
	n := s.resolution.Count()
	if len(s.buckets) != n {
		s.buckets = make([][]int, n)
	} else {
		for i := range s.buckets {
			s.buckets[i] = s.buckets[i][:0]
		}
	}
	for i, p := range points {
		key := s.HashKeyFromPosition(p)
		s.buckets[key] = append(s.buckets[key], i)
	}
}

// Add appends p to the index without rebuilding. Its index is the
// number of points before the call.
func (s *HashGridSearch2) Add(p r2.Vec) {
	if len(s.buckets) != s.resolution.Count() {
		s.Build(s.points)
	}
	key := s.HashKeyFromPosition(p)
	s.buckets[key] = append(s.buckets[key], len(s.points))
	s.points = append(s.points, p)
}

func (s *HashGridSearch2) Buckets() [][]int { return s.buckets }

func (s *HashGridSearch2) ForEachNearbyPoint(origin r2.Vec, radius float64, fn Callback2) {
	if len(s.buckets) == 0 {
		return
	}
	rr := radius * radius
	var keys [9]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for _, i := range s.buckets[key] {
			p := s.points[i]
			if geom.Distance2Sq(p, origin) <= rr {
				fn(i, p)
			}
		}
	}
}

func (s *HashGridSearch2) HasNearbyPoint(origin r2.Vec, radius float64) bool {
	if len(s.buckets) == 0 {
		return false
	}
	rr := radius * radius
	var keys [9]int
	nk := s.nearbyKeys(origin, &keys)
	for _, key := range keys[:nk] {
		for _, i := range s.buckets[key] {
			if geom.Distance2Sq(s.points[i], origin) <= rr {
				return true
			}
		}
	}
	return false
}

func (s *HashGridSearch2) Clone() Searcher2 {
	c := &HashGridSearch2{
		grid2:  s.grid2,
		points: append([]r2.Vec(nil), s.points...),
	}
	if s.buckets != nil {
		c.buckets = make([][]int, len(s.buckets))
		for i, b := range s.buckets {
			c.buckets[i] = append([]int(nil), b...)
		}
	}
	return c
}

type hashGridState2 struct {
	Grid    gridState
	Points  []r2.Vec
	Buckets [][]int
}

func (s *HashGridSearch2) Serialize() ([]byte, error) {
	return encode(hashGridState2{Grid: s.state(), Points: s.points, Buckets: s.buckets})
}

func (s *HashGridSearch2) Deserialize(data []byte) error {
	var st hashGridState2
	if err := decode(data, &st); err != nil {
		return err
	}
	g, err := st.Grid.grid2()
	if err != nil {
		return err
	}
	if err := checkBuckets(st.Buckets, g.resolution.Count(), len(st.Points)); err != nil {
		return err
	}
	s.grid2, s.points, s.buckets = g, st.Points, st.Buckets
	return nil
}

func checkBuckets(buckets [][]int, count, numPoints int) error {
	if len(buckets) == 0 {
		if numPoints != 0 {
			return fmt.Errorf("%w: %d points without buckets", ErrCorruptSnapshot, numPoints)
		}
		return nil
	}
	if len(buckets) != count {
		return fmt.Errorf("%w: %d buckets, want %d", ErrCorruptSnapshot, len(buckets), count)
	}
	seen := 0
	for _, b := range buckets {
		for _, i := range b {
			if i < 0 || i >= numPoints {
				return fmt.Errorf("%w: point index %d out of range", ErrCorruptSnapshot, i)
			}
		}
		seen += len(b)
	}
	if seen != numPoints {
		return fmt.Errorf("%w: %d indexed points, want %d", ErrCorruptSnapshot, seen, numPoints)
	}
	return nil
}
