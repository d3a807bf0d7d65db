package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the complete set of host buffers handed to the device.
type Scene struct {
	Vertices  []Vertex
	Indices   []uint32
	Objects   []Object
	Materials []Material
}

func NewScene(geo *Geometry, materials []Material) *Scene {
	return &Scene{
		Vertices:  geo.Vertices,
		Indices:   geo.Indices,
		Objects:   geo.Objects,
		Materials: materials,
	}
}

// Validate checks the contract the kernel relies on: object ranges tile the
// index buffer in order, indices address emitted vertices and material ids
// address the material table.
func (s *Scene) Validate() error {
	next := uint32(0)
	for i, o := range s.Objects {
		if o.Start != next {
			return fmt.Errorf("object %d starts at %d, want %d", i, o.Start, next)
		}
		if o.End < o.Start || int(o.End) > len(s.Indices) {
			return fmt.Errorf("object %d range [%d, %d) outside %d indices", i, o.Start, o.End, len(s.Indices))
		}
		if int(o.MaterialID) >= len(s.Materials) {
			return fmt.Errorf("object %d material %d of %d: %w", i, o.MaterialID, len(s.Materials), ErrMissingMaterial)
		}
		next = o.End
	}
	if int(next) != len(s.Indices) {
		return fmt.Errorf("objects cover %d of %d indices", next, len(s.Indices))
	}
	for i, idx := range s.Indices {
		if int(idx) >= len(s.Vertices) {
			return fmt.Errorf("index %d references vertex %d of %d", i, idx, len(s.Vertices))
		}
	}
	return nil
}

// Bounds is the union of all non-empty object boxes. ok is false when every
// object is empty.
func (s *Scene) Bounds() (minB, maxB mgl32.Vec3, ok bool) {
	minB, maxB = EmptyBounds()
	for _, o := range s.Objects {
		if o.Empty() {
			continue
		}
		for i := 0; i < 3; i++ {
			minB[i] = min(minB[i], o.Min[i])
			maxB[i] = max(maxB[i], o.Max[i])
		}
		ok = true
	}
	return minB, maxB, ok
}

func (s *Scene) TriangleCount() int {
	return len(s.Indices) / 3
}

// Params returns the uniform block passed alongside the buffers.
func (s *Scene) Params(width, height uint32) SceneParams {
	return SceneParams{
		ObjectCount: uint32(len(s.Objects)),
		Width:       width,
		Height:      height,
	}
}
