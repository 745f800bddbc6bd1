package particles

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
)

const (
	// DefaultRadius is the particle radius of a new system.
	DefaultRadius = 1e-3

	// DefaultMass is the particle mass of a new system.
	DefaultMass = 1e-3

	DefaultGravity         = -9.8
	DefaultDragCoefficient = 1e-4
)

const (
	positionIdx = iota
	velocityIdx
	forceIdx
)

// ErrCorruptSnapshot indicates serialized particle data that cannot be restored.
var ErrCorruptSnapshot = errors.New("particles: corrupt snapshot")

func resizeFill[T any](s []T, n int, fill T) []T {
	old := len(s)
	if n <= old {
		return s[:n]
	}
	if cap(s) < n {
		grown := make([]T, n, max(n, 2*cap(s)))
		copy(grown, s)
		s = grown
	} else {
		s = s[:n]
	}
	for i := old; i < n; i++ {
		s[i] = fill
	}
	return s
}

func resizeLists(lists [][]int, n int) [][]int {
	if cap(lists) < n {
		grown := make([][]int, n)
		copy(grown, lists)
		return grown
	}
	return lists[:n]
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("particles: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}
