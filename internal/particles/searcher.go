package particles

import (
	"fmt"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/neighbor"
)

// SearcherResolution is the hash grid resolution used for neighbor search.
const SearcherResolution = 64

// SearcherBuilder3 builds a searcher able to answer queries up to radius.
type SearcherBuilder3 func(radius float64) neighbor.Searcher3

// SearcherBuilder2 builds a searcher able to answer queries up to radius.
type SearcherBuilder2 func(radius float64) neighbor.Searcher2

// DefaultSearcherBuilder3 returns a parallel hash grid with cells twice
// the query radius.
func DefaultSearcherBuilder3(radius float64) neighbor.Searcher3 {
	res := geom.NewSize3(SearcherResolution, SearcherResolution, SearcherResolution)
	return neighbor.NewParallelHashGridSearch3(res, 2*radius)
}

func DefaultSearcherBuilder2(radius float64) neighbor.Searcher2 {
	res := geom.NewSize2(SearcherResolution, SearcherResolution)
	return neighbor.NewParallelHashGridSearch2(res, 2*radius)
}

// SearcherBuilder3ByName maps a registered searcher name to a builder.
// Hash grids are sized for the radius; other registered types are built
// with their defaults.
func SearcherBuilder3ByName(name string) (SearcherBuilder3, error) {
	res := geom.NewSize3(SearcherResolution, SearcherResolution, SearcherResolution)
	switch name {
	case "", neighbor.ParallelHashGridSearch3Name:
		return DefaultSearcherBuilder3, nil
	case neighbor.HashGridSearch3Name:
		return func(radius float64) neighbor.Searcher3 {
			return neighbor.NewHashGridSearch3(res, 2*radius)
		}, nil
	case neighbor.ListSearch3Name:
		return func(float64) neighbor.Searcher3 { return neighbor.NewListSearch3() }, nil
	}
	if neighbor.NewSearcher3(name) == nil {
		return nil, fmt.Errorf("%w: %q", neighbor.ErrUnknownSearcher, name)
	}
	return func(float64) neighbor.Searcher3 { return neighbor.NewSearcher3(name) }, nil
}

func SearcherBuilder2ByName(name string) (SearcherBuilder2, error) {
	res := geom.NewSize2(SearcherResolution, SearcherResolution)
	switch name {
	case "", neighbor.ParallelHashGridSearch2Name:
		return DefaultSearcherBuilder2, nil
	case neighbor.HashGridSearch2Name:
		return func(radius float64) neighbor.Searcher2 {
			return neighbor.NewHashGridSearch2(res, 2*radius)
		}, nil
	case neighbor.ListSearch2Name:
		return func(float64) neighbor.Searcher2 { return neighbor.NewListSearch2() }, nil
	}
	if neighbor.NewSearcher2(name) == nil {
		return nil, fmt.Errorf("%w: %q", neighbor.ErrUnknownSearcher, name)
	}
	return func(float64) neighbor.Searcher2 { return neighbor.NewSearcher2(name) }, nil
}
