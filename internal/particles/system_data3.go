package particles

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/neighbor"
	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
)

// SystemData3 is a set of 3D particles.
type SystemData3 struct {
	radius float64
	mass   float64
	n      int

	scalarData [][]float64
	scalarInit []float64
	vectorData [][]r3.Vec
	vectorInit []r3.Vec

	searcher        neighbor.Searcher3
	searcherBuilder SearcherBuilder3
	neighborLists   [][]int
}

func NewSystemData3(n int) *SystemData3 {
	d := &SystemData3{
		radius:          DefaultRadius,
		mass:            DefaultMass,
		searcherBuilder: DefaultSearcherBuilder3,
	}
	d.AddVectorData(r3.Vec{})
	d.AddVectorData(r3.Vec{})
	d.AddVectorData(r3.Vec{})
	d.Resize(n)
	return d
}

func (d *SystemData3) NumberOfParticles() int { return d.n }

// Resize grows or shrinks every channel to n particles. New particles take
// each channel's initial value.
func (d *SystemData3) Resize(n int) {
	n = max(n, 0)
	for i := range d.scalarData {
		d.scalarData[i] = resizeFill(d.scalarData[i], n, d.scalarInit[i])
	}
	for i := range d.vectorData {
		d.vectorData[i] = resizeFill(d.vectorData[i], n, d.vectorInit[i])
	}
	d.n = n
}

func (d *SystemData3) Radius() float64 { return d.radius }

func (d *SystemData3) SetRadius(r float64) { d.radius = numeric.AtLeast(r, 0) }

func (d *SystemData3) Mass() float64 { return d.mass }

func (d *SystemData3) SetMass(m float64) { d.mass = numeric.AtLeast(m, 0) }

// AddScalarData adds a channel and returns its index.
func (d *SystemData3) AddScalarData(initial float64) int {
	d.scalarData = append(d.scalarData, resizeFill(nil, d.n, initial))
	d.scalarInit = append(d.scalarInit, initial)
	return len(d.scalarData) - 1
}

// AddVectorData adds a channel and returns its index.
func (d *SystemData3) AddVectorData(initial r3.Vec) int {
	d.vectorData = append(d.vectorData, resizeFill(nil, d.n, initial))
	d.vectorInit = append(d.vectorInit, initial)
	return len(d.vectorData) - 1
}

func (d *SystemData3) NumberOfScalarData() int { return len(d.scalarData) }

func (d *SystemData3) NumberOfVectorData() int { return len(d.vectorData) }

func (d *SystemData3) ScalarDataAt(idx int) []float64 { return d.scalarData[idx] }

func (d *SystemData3) VectorDataAt(idx int) []r3.Vec { return d.vectorData[idx] }

func (d *SystemData3) Positions() []r3.Vec { return d.vectorData[positionIdx] }

func (d *SystemData3) Velocities() []r3.Vec { return d.vectorData[velocityIdx] }

func (d *SystemData3) Forces() []r3.Vec { return d.vectorData[forceIdx] }

func (d *SystemData3) AddParticle(p, v, f r3.Vec) {
	d.AddParticles([]r3.Vec{p}, []r3.Vec{v}, []r3.Vec{f})
}

// AddParticles appends particles. velocities and forces may be nil;
// otherwise they must match positions in length.
func (d *SystemData3) AddParticles(positions, velocities, forces []r3.Vec) {
	if (velocities != nil && len(velocities) != len(positions)) ||
		(forces != nil && len(forces) != len(positions)) {
		panic(fmt.Sprintf("particles: %d positions, %d velocities, %d forces",
			len(positions), len(velocities), len(forces)))
	}
	old := d.n
	d.Resize(old + len(positions))
	copy(d.Positions()[old:], positions)
	copy(d.Velocities()[old:], velocities)
	copy(d.Forces()[old:], forces)
}

func (d *SystemData3) NeighborSearcher() neighbor.Searcher3 { return d.searcher }

// SetNeighborSearcher replaces the current searcher. The next
// BuildNeighborSearcher call replaces it again.
func (d *SystemData3) SetNeighborSearcher(s neighbor.Searcher3) { d.searcher = s }

func (d *SystemData3) SearcherBuilder() SearcherBuilder3 { return d.searcherBuilder }

// SetSearcherBuilder changes how BuildNeighborSearcher creates searchers.
func (d *SystemData3) SetSearcherBuilder(b SearcherBuilder3) {
	if b == nil {
		b = DefaultSearcherBuilder3
	}
	d.searcherBuilder = b
}

// NeighborLists holds, per particle, the indices of the other particles
// found by the last BuildNeighborLists call.
func (d *SystemData3) NeighborLists() [][]int { return d.neighborLists }

// BuildNeighborSearcher indexes the current positions for queries up to radius.
func (d *SystemData3) BuildNeighborSearcher(radius float64) {
	d.searcher = d.searcherBuilder(radius)
	d.searcher.Build(d.Positions())
}

// BuildNeighborLists records the neighbors of every particle within radius.
func (d *SystemData3) BuildNeighborLists(radius float64) {
	if d.searcher == nil {
		d.BuildNeighborSearcher(radius)
	}
	pos := d.Positions()
	d.neighborLists = resizeLists(d.neighborLists, d.n)
	parallel.For(0, d.n, func(i int) {
		list := d.neighborLists[i][:0]
		d.searcher.ForEachNearbyPoint(pos[i], radius, func(j int, _ r3.Vec) {
			if j != i {
				list = append(list, j)
			}
		})
		d.neighborLists[i] = list
	})
}

// CheckState reports the first particle with a non-finite position or velocity.
func (d *SystemData3) CheckState() error {
	pos, vel := d.Positions(), d.Velocities()
	for i := 0; i < d.n; i++ {
		if !geom.IsFinite3(pos[i]) || !geom.IsFinite3(vel[i]) {
			return fmt.Errorf("particle %d: position %v velocity %v", i, pos[i], vel[i])
		}
	}
	return nil
}

type systemState3 struct {
	Radius        float64
	Mass          float64
	Count         int
	ScalarData    [][]float64
	ScalarInit    []float64
	VectorData    [][]r3.Vec
	VectorInit    []r3.Vec
	Searcher      []byte
	NeighborLists [][]int
}

// Serialize writes every channel, the searcher and the neighbor lists.
func (d *SystemData3) Serialize() ([]byte, error) {
	st := systemState3{
		Radius:        d.radius,
		Mass:          d.mass,
		Count:         d.n,
		ScalarData:    d.scalarData,
		ScalarInit:    d.scalarInit,
		VectorData:    d.vectorData,
		VectorInit:    d.vectorInit,
		NeighborLists: d.neighborLists,
	}
	if d.searcher != nil {
		data, err := neighbor.Encode3(d.searcher)
		if err != nil {
			return nil, err
		}
		st.Searcher = data
	}
	return encode(st)
}

// Deserialize replaces the state with a snapshot written by Serialize.
// The searcher builder is kept.
func (d *SystemData3) Deserialize(data []byte) error {
	var st systemState3
	if err := decode(data, &st); err != nil {
		return err
	}
	if len(st.VectorData) < 3 || len(st.VectorInit) != len(st.VectorData) ||
		len(st.ScalarInit) != len(st.ScalarData) {
		return fmt.Errorf("%w: channel layout", ErrCorruptSnapshot)
	}
	for _, ch := range st.ScalarData {
		if len(ch) != st.Count {
			return fmt.Errorf("%w: scalar channel of %d for %d particles", ErrCorruptSnapshot, len(ch), st.Count)
		}
	}
	for _, ch := range st.VectorData {
		if len(ch) != st.Count {
			return fmt.Errorf("%w: vector channel of %d for %d particles", ErrCorruptSnapshot, len(ch), st.Count)
		}
	}
	var searcher neighbor.Searcher3
	if len(st.Searcher) > 0 {
		s, err := neighbor.Decode3(st.Searcher)
		if err != nil {
			return err
		}
		searcher = s
	}

	d.radius, d.mass, d.n = st.Radius, st.Mass, st.Count
	d.scalarData, d.scalarInit = st.ScalarData, st.ScalarInit
	d.vectorData, d.vectorInit = st.VectorData, st.VectorInit
	// gob drops empty slices; restore them so channels stay addressable.
	for i := range d.scalarData {
		d.scalarData[i] = resizeFill(d.scalarData[i], d.n, d.scalarInit[i])
	}
	for i := range d.vectorData {
		d.vectorData[i] = resizeFill(d.vectorData[i], d.n, d.vectorInit[i])
	}
	d.searcher = searcher
	d.neighborLists = st.NeighborLists
	return nil
}
