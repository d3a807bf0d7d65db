package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBoxScene(t *testing.T) *Scene {
	t.Helper()
	positions, quads := unitCube()
	geo, err := Compact(positions, []ShapeGroup{
		{Name: "front", Refs: fan(quads[:1]), MaterialID: 0},
		{Name: "back", Refs: fan(quads[1:2]), MaterialID: 1},
	})
	require.NoError(t, err)
	return NewScene(geo, []Material{DefaultMaterial(), NewMaterial(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, 0.2)})
}

func TestScene_Validate(t *testing.T) {
	s := twoBoxScene(t)
	require.NoError(t, s.Validate())
	assert.Equal(t, 4, s.TriangleCount())

	params := s.Params(64, 32)
	assert.Equal(t, uint32(2), params.ObjectCount)
	assert.Equal(t, uint32(64), params.Width)
	assert.Equal(t, uint32(32), params.Height)
}

func TestScene_ValidateRejects(t *testing.T) {
	t.Run("missing material", func(t *testing.T) {
		s := twoBoxScene(t)
		s.Materials = s.Materials[:1]
		assert.ErrorIs(t, s.Validate(), ErrMissingMaterial)
	})
	t.Run("gap between objects", func(t *testing.T) {
		s := twoBoxScene(t)
		s.Objects[1].Start++
		assert.Error(t, s.Validate())
	})
	t.Run("uncovered indices", func(t *testing.T) {
		s := twoBoxScene(t)
		s.Indices = append(s.Indices, 0, 1, 2)
		assert.Error(t, s.Validate())
	})
	t.Run("dangling index", func(t *testing.T) {
		s := twoBoxScene(t)
		s.Indices[0] = uint32(len(s.Vertices))
		assert.Error(t, s.Validate())
	})
}

func TestScene_Bounds(t *testing.T) {
	s := twoBoxScene(t)
	minB, maxB, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, minB)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, maxB)

	empty := NewScene(&Geometry{}, nil)
	_, _, ok = empty.Bounds()
	assert.False(t, ok)
	assert.NoError(t, empty.Validate())
}
