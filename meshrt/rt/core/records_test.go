package core

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The kernel reads these records by raw memory layout; any drift here
// silently corrupts rendering.
func TestRecordLayout(t *testing.T) {
	assert.Equal(t, uintptr(SizeofVertex), unsafe.Sizeof(Vertex{}))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(Vertex{}.Position))

	var o Object
	assert.Equal(t, uintptr(SizeofObject), unsafe.Sizeof(o))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(o.Min))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(o.Max))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(o.Start))
	assert.Equal(t, uintptr(36), unsafe.Offsetof(o.End))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(o.MaterialID))

	var m Material
	assert.Equal(t, uintptr(SizeofMaterial), unsafe.Sizeof(m))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(m.Albedo))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(m.Emission))
	assert.Equal(t, uintptr(28), unsafe.Offsetof(m.Roughness))

	var c Camera
	assert.Equal(t, uintptr(SizeofCamera), unsafe.Sizeof(c))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(c.Origin))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(c.Horizontal))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(c.Vertical))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(c.LowerLeft))

	var p SceneParams
	assert.Equal(t, uintptr(SizeofSceneParams), unsafe.Sizeof(p))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(p.ObjectCount))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(p.Width))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(p.Height))

	assert.Equal(t, uintptr(SizeofIndex), unsafe.Sizeof(uint32(0)))
}

func TestObjectHelpers(t *testing.T) {
	minB, maxB := EmptyBounds()
	empty := Object{Min: minB, Max: maxB, Start: 6, End: 6}
	assert.True(t, empty.Empty())
	assert.Equal(t, uint32(0), empty.Count())
	assert.False(t, empty.Contains([3]float32{0, 0, 0}))

	box := Object{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}, Start: 0, End: 36}
	assert.False(t, box.Empty())
	assert.Equal(t, uint32(36), box.Count())
	assert.True(t, box.Contains([3]float32{1, -1, 0}))
	assert.False(t, box.Contains([3]float32{1.01, 0, 0}))
}
