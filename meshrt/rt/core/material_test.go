package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBuildMaterialTable(t *testing.T) {
	src := []SourceMaterial{
		{Name: "red", Diffuse: mgl32.Vec3{1, 0, 0}, Roughness: 0.5},
		{Name: "lamp", Diffuse: mgl32.Vec3{0.2, 0.2, 0.2}, Emission: mgl32.Vec3{4, 4, 3}, Roughness: 1},
		{Name: "hot", Diffuse: mgl32.Vec3{1.5, -0.25, 2}, Roughness: 3},
	}

	table := BuildMaterialTable(src)
	assert.Len(t, table, len(src))
	for i, m := range src {
		assert.Equal(t, m.Diffuse, table[i].Albedo, m.Name)
		assert.Equal(t, m.Emission, table[i].Emission, m.Name)
		assert.Equal(t, m.Roughness, table[i].Roughness, m.Name)
	}

	// Out-of-range values are not clamped.
	assert.Equal(t, mgl32.Vec3{1.5, -0.25, 2}, table[2].Albedo)
	assert.Equal(t, float32(3), table[2].Roughness)
}

func TestBuildMaterialTable_Empty(t *testing.T) {
	assert.Empty(t, BuildMaterialTable(nil))
}

func TestDefaultMaterial(t *testing.T) {
	m := DefaultMaterial()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Albedo)
	assert.Equal(t, mgl32.Vec3{}, m.Emission)
	assert.Equal(t, float32(1), m.Roughness)
}
