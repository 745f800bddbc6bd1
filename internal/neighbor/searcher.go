// Package neighbor implements fixed-radius neighbor search over point sets.
//
// Three strategies share one contract:
//
//   - [ListSearch3]: brute force, the reference oracle for small sets;
//   - [HashGridSearch3]: uniform hash grid, one index bucket per cell;
//   - [ParallelHashGridSearch3]: the same grid stored as sorted arrays with
//     a start/end table per cell, built with fork-join loops.
//
// The hash grids visit the 3×3(×3) cells around the query origin, so they
// only find every neighbor when the query radius does not exceed the grid
// spacing. Callers usually build them with spacing = 2 × max radius.
//
// Searchers serialize to a binary snapshot. [Encode3] and [Decode3] wrap the
// snapshot with the searcher's registered name so it can be decoded without
// knowing its concrete type.
package neighbor

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnknownSearcher indicates a name with no registered builder.
	ErrUnknownSearcher = errors.New("neighbor: unknown searcher type")

	// ErrCorruptSnapshot indicates serialized data that does not describe a valid searcher.
	ErrCorruptSnapshot = errors.New("neighbor: corrupt snapshot")
)

// Callback3 receives the index of a nearby point and its position.
type Callback3 func(i int, p r3.Vec)

// Callback2 receives the index of a nearby point and its position.
type Callback2 func(i int, p r2.Vec)

// Searcher3 finds the points of a 3D set within a radius of an origin.
//
// Indices passed to callbacks are positions in the slice given to Build.
// Build snapshots the points, so later changes to that slice do not affect
// queries. Queries on a searcher that was never built find nothing.
type Searcher3 interface {
	TypeName() string
	Build(points []r3.Vec)
	ForEachNearbyPoint(origin r3.Vec, radius float64, fn Callback3)
	HasNearbyPoint(origin r3.Vec, radius float64) bool
	Clone() Searcher3
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

// Searcher2 is the 2D counterpart of Searcher3.
type Searcher2 interface {
	TypeName() string
	Build(points []r2.Vec)
	ForEachNearbyPoint(origin r2.Vec, radius float64, fn Callback2)
	HasNearbyPoint(origin r2.Vec, radius float64) bool
	Clone() Searcher2
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

type envelope struct {
	Type    string
	Payload []byte
}

// Encode3 serializes s together with its type name.
func Encode3(s Searcher3) ([]byte, error) {
	payload, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	return encode(envelope{Type: s.TypeName(), Payload: payload})
}

// Decode3 rebuilds a searcher written by Encode3.
func Decode3(data []byte) (Searcher3, error) {
	var env envelope
	if err := decode(data, &env); err != nil {
		return nil, err
	}
	s := NewSearcher3(env.Type)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSearcher, env.Type)
	}
	if err := s.Deserialize(env.Payload); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode2 serializes s together with its type name.
func Encode2(s Searcher2) ([]byte, error) {
	payload, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	return encode(envelope{Type: s.TypeName(), Payload: payload})
}

// Decode2 rebuilds a searcher written by Encode2.
func Decode2(data []byte) (Searcher2, error) {
	var env envelope
	if err := decode(data, &env); err != nil {
		return nil, err
	}
	s := NewSearcher2(env.Type)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSearcher, env.Type)
	}
	if err := s.Deserialize(env.Payload); err != nil {
		return nil, err
	}
	return s, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("neighbor: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}
