package neighbor

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
)

// ListSearch3 checks every stored point on each query.
type ListSearch3 struct {
	points []r3.Vec
}

func NewListSearch3() *ListSearch3 { return &ListSearch3{} }

func (s *ListSearch3) TypeName() string { return ListSearch3Name }

func (s *ListSearch3) Build(points []r3.Vec) {
	s.points = append(s.points[:0], points...)
}

func (s *ListSearch3) ForEachNearbyPoint(origin r3.Vec, radius float64, fn Callback3) {
	rr := radius * radius
	for i, p := range s.points {
		if geom.Distance3Sq(p, origin) <= rr {
			fn(i, p)
		}
	}
}

func (s *ListSearch3) HasNearbyPoint(origin r3.Vec, radius float64) bool {
	rr := radius * radius
	for _, p := range s.points {
		if geom.Distance3Sq(p, origin) <= rr {
			return true
		}
	}
	return false
}

func (s *ListSearch3) Clone() Searcher3 {
	return &ListSearch3{points: append([]r3.Vec(nil), s.points...)}
}

type listState3 struct {
	Points []r3.Vec
}

func (s *ListSearch3) Serialize() ([]byte, error) {
	return encode(listState3{Points: s.points})
}

func (s *ListSearch3) Deserialize(data []byte) error {
	var st listState3
	if err := decode(data, &st); err != nil {
		return err
	}
	s.points = st.Points
	return nil
}

// ListSearch2 checks every stored point on each query.
type ListSearch2 struct {
	points []r2.Vec
}

func NewListSearch2() *ListSearch2 { return &ListSearch2{} }

func (s *ListSearch2) TypeName() string { return ListSearch2Name }

func (s *ListSearch2) Build(points []r2.Vec) {
	s.points = append(s.points[:0], points...)
}

func (s *ListSearch2) ForEachNearbyPoint(origin r2.Vec, radius float64, fn Callback2) {
	rr := radius * radius
	for i, p := range s.points {
		if geom.Distance2Sq(p, origin) <= rr {
			fn(i, p)
		}
	}
}

func (s *ListSearch2) HasNearbyPoint(origin r2.Vec, radius float64) bool {
	rr := radius * radius
	for _, p := range s.points {
		if geom.Distance2Sq(p, origin) <= rr {
			return true
		}
	}
	return false
}

func (s *ListSearch2) Clone() Searcher2 {
	return &ListSearch2{points: append([]r2.Vec(nil), s.points...)}
}

type listState2 struct {
	Points []r2.Vec
}

func (s *ListSearch2) Serialize() ([]byte, error) {
	return encode(listState2{Points: s.points})
}

func (s *ListSearch2) Deserialize(data []byte) error {
	var st listState2
	if err := decode(data, &st); err != nil {
		return err
	}
	s.points = st.Points
	return nil
}
