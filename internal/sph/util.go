package sph

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/san-kum/jetsim/internal/particles"
)

const (
	// DefaultTargetDensity is the density of water in kg/m³.
	DefaultTargetDensity = 1000.0

	DefaultTargetSpacing        = 0.1
	DefaultRelativeKernelRadius = 1.8
)

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("sph: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", particles.ErrCorruptSnapshot, err)
	}
	return nil
}
