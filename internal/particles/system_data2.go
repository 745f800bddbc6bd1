package particles

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/neighbor"
	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
)

// SystemData2 is a set of 2D particles.
type SystemData2 struct {
	radius float64
	mass   float64
	n      int

	scalarData [][]float64
	scalarInit []float64
	vectorData [][]r2.Vec
	vectorInit []r2.Vec

	searcher        neighbor.Searcher2
	searcherBuilder SearcherBuilder2
	neighborLists   [][]int
}

func NewSystemData2(n int) *SystemData2 {
	d := &SystemData2{
		radius:          DefaultRadius,
		mass:            DefaultMass,
		searcherBuilder: DefaultSearcherBuilder2,
	}
	d.AddVectorData(r2.Vec{})
	d.AddVectorData(r2.Vec{})
	d.AddVectorData(r2.Vec{})
	d.Resize(n)
	return d
}

func (d *SystemData2) NumberOfParticles() int { return d.n }

// Resize grows or shrinks every channel to n particles. New particles take
// each channel's initial value.
func (d *SystemData2) Resize(n int) {
	n = max(n, 0)
	for i := range d.scalarData {
		d.scalarData[i] = resizeFill(d.scalarData[i], n, d.scalarInit[i])
	}
	for i := range d.vectorData {
		d.vectorData[i] = resizeFill(d.vectorData[i], n, d.vectorInit[i])
	}
	d.n = n
}

func (d *SystemData2) Radius() float64 { return d.radius }

func (d *SystemData2) SetRadius(r float64) { d.radius = numeric.AtLeast(r, 0) }

func (d *SystemData2) Mass() float64 { return d.mass }

func (d *SystemData2) SetMass(m float64) { d.mass = numeric.AtLeast(m, 0) }

// AddScalarData adds a channel and returns its index.
func (d *SystemData2) AddScalarData(initial float64) int {
	d.scalarData = append(d.scalarData, resizeFill(nil, d.n, initial))
	d.scalarInit = append(d.scalarInit, initial)
	return len(d.scalarData) - 1
}

// AddVectorData adds a channel and returns its index.
func (d *SystemData2) AddVectorData(initial r2.Vec) int {
	d.vectorData = append(d.vectorData, resizeFill(nil, d.n, initial))
	d.vectorInit = append(d.vectorInit, initial)
	return len(d.vectorData) - 1
}

func (d *SystemData2) NumberOfScalarData() int { return len(d.scalarData) }

func (d *SystemData2) NumberOfVectorData() int { return len(d.vectorData) }

func (d *SystemData2) ScalarDataAt(idx int) []float64 { return d.scalarData[idx] }

func (d *SystemData2) VectorDataAt(idx int) []r2.Vec { return d.vectorData[idx] }

func (d *SystemData2) Positions() []r2.Vec { return d.vectorData[positionIdx] }

func (d *SystemData2) Velocities() []r2.Vec { return d.vectorData[velocityIdx] }

func (d *SystemData2) Forces() []r2.Vec { return d.vectorData[forceIdx] }

func (d *SystemData2) AddParticle(p, v, f r2.Vec) {
	d.AddParticles([]r2.Vec{p}, []r2.Vec{v}, []r2.Vec{f})
}

// AddParticles appends particles. velocities and forces may be nil;
// otherwise they must match positions in length.
func (d *SystemData2) AddParticles(positions, velocities, forces []r2.Vec) {
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

func (d *SystemData2) NeighborSearcher() neighbor.Searcher2 { return d.searcher }

// SetNeighborSearcher replaces the current searcher. The next
// BuildNeighborSearcher call replaces it again.
func (d *SystemData2) SetNeighborSearcher(s neighbor.Searcher2) { d.searcher = s }

func (d *SystemData2) SearcherBuilder() SearcherBuilder2 { return d.searcherBuilder }

// SetSearcherBuilder changes how BuildNeighborSearcher creates searchers.
func (d *SystemData2) SetSearcherBuilder(b SearcherBuilder2) {
	if b == nil {
		b = DefaultSearcherBuilder2
	}
	d.searcherBuilder = b
}

// NeighborLists holds, per particle, the indices of the other particles
// found by the last BuildNeighborLists call.
func (d *SystemData2) NeighborLists() [][]int { return d.neighborLists }

// BuildNeighborSearcher indexes the current positions for queries up to radius.
func (d *SystemData2) BuildNeighborSearcher(radius float64) {
	d.searcher = d.searcherBuilder(radius)
	d.searcher.Build(d.Positions())
}

// BuildNeighborLists records the neighbors of every particle within radius.
func (d *SystemData2) BuildNeighborLists(radius float64) {
	if d.searcher == nil {
		d.BuildNeighborSearcher(radius)
	}
	pos := d.Positions()
	d.neighborLists = resizeLists(d.neighborLists, d.n)
	parallel.For(0, d.n, func(i int) {
		list := d.neighborLists[i][:0]
		d.searcher.ForEachNearbyPoint(pos[i], radius, func(j int, _ r2.Vec) {
			if j != i {
				list = append(list, j)
			}
		})
		d.neighborLists[i] = list
	})
}

// CheckState reports the first particle with a non-finite position or velocity.
func (d *SystemData2) CheckState() error {
	pos, vel := d.Positions(), d.Velocities()
	for i := 0; i < d.n; i++ {
		if !geom.IsFinite2(pos[i]) || !geom.IsFinite2(vel[i]) {
			return fmt.Errorf("particle %d: position %v velocity %v", i, pos[i], vel[i])
		}
	}
	return nil
}

type systemState2 struct {
	Radius        float64
	Mass          float64
	Count         int
	ScalarData    [][]float64
	ScalarInit    []float64
	VectorData    [][]r2.Vec
	VectorInit    []r2.Vec
	Searcher      []byte
	NeighborLists [][]int
}

func (d *SystemData2) Serialize() ([]byte, error) {
	st := systemState2{
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
		data, err := neighbor.Encode2(d.searcher)
		if err != nil {
			return nil, err
		}
		st.Searcher = data
	}
	return encode(st)
}

func (d *SystemData2) Deserialize(data []byte) error {
	var st systemState2
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
	var searcher neighbor.Searcher2
	if len(st.Searcher) > 0 {
		s, err := neighbor.Decode2(st.Searcher)
		if err != nil {
			return err
		}
		searcher = s
	}

	d.radius, d.mass, d.n = st.Radius, st.Mass, st.Count
	d.scalarData, d.scalarInit = st.ScalarData, st.ScalarInit
	d.vectorData, d.vectorInit = st.VectorData, st.VectorInit
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
