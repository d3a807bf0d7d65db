package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrMissingMaterial = errors.New("shape group has no material assigned")
	ErrIndexOutOfRange = errors.New("face references a position outside the attribute pool")
	ErrTooLarge        = errors.New("scene exceeds 32-bit index range")
)

// ShapeGroup is one named group of triangles as delivered by the mesh parser.
// Refs holds one position index per triangle corner, three per triangle.
type ShapeGroup struct {
	Name       string
	Refs       []int
	MaterialID int
}

// dedupSlot records whether a source position has been emitted and where.
type dedupSlot struct {
	seen  bool
	index uint32
}

// DedupTable maps source position ids to compacted vertex indices. It spans the
// whole scene: one table is shared by every group so that positions referenced
// from several groups are emitted once.
type DedupTable struct {
	slots []dedupSlot
}

func NewDedupTable(positions int) *DedupTable {
	return &DedupTable{slots: make([]dedupSlot, positions)}
}

// Len is the number of source positions the table covers.
func (t *DedupTable) Len() int {
	return len(t.slots)
}

// Lookup returns the compacted index of a source position, if emitted.
func (t *DedupTable) Lookup(src int) (uint32, bool) {
	if src < 0 || src >= len(t.slots) {
		return 0, false
	}
	s := t.slots[src]
	return s.index, s.seen
}

// Geometry is the compacted output: shared vertex and index buffers and the
// objects that partition the index buffer.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Objects  []Object
}

// EmptyBounds returns the inverted box every accumulation starts from.
func EmptyBounds() (mgl32.Vec3, mgl32.Vec3) {
	inf := float32(math.Inf(1))
	return mgl32.Vec3{inf, inf, inf}, mgl32.Vec3{-inf, -inf, -inf}
}

// Compact deduplicates the positions referenced by groups and builds one
// Object per group. positions is the flat xyz attribute pool.
func Compact(positions []float32, groups []ShapeGroup) (*Geometry, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("attribute pool length %d is not a multiple of 3", len(positions))
	}

	refs := 0
	for _, g := range groups {
		refs += len(g.Refs)
	}
	if uint64(refs) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	table := NewDedupTable(len(positions) / 3)
	geo := &Geometry{
		Vertices: make([]Vertex, 0, min(refs, table.Len())),
		Indices:  make([]uint32, 0, refs),
		Objects:  make([]Object, 0, len(groups)),
	}
	for _, g := range groups {
		if _, err := geo.AppendGroup(table, positions, g); err != nil {
			return nil, err
		}
	}
	return geo, nil
}

// AppendGroup compacts one group into geo using the caller's table and
// appends the resulting Object. The table must be the one used for every
// previous group of the scene.
func (geo *Geometry) AppendGroup(table *DedupTable, positions []float32, g ShapeGroup) (Object, error) {
	if g.MaterialID < 0 {
		return Object{}, fmt.Errorf("group %q: %w", g.Name, ErrMissingMaterial)
	}

	start := len(geo.Indices)
	minB, maxB := EmptyBounds()

	for _, src := range g.Refs {
		if src < 0 || src >= table.Len() {
			return Object{}, fmt.Errorf("group %q: position %d of %d: %w", g.Name, src, table.Len(), ErrIndexOutOfRange)
		}

		slot := &table.slots[src]
		if !slot.seen {
			slot.seen = true
			slot.index = uint32(len(geo.Vertices))
			geo.Vertices = append(geo.Vertices, Vertex{Position: mgl32.Vec3{
				positions[3*src+0],
				positions[3*src+1],
				positions[3*src+2],
			}})
		}

		// Fold every referenced position, not only newly emitted ones, so a
		// position shared with an earlier group still lands inside this box.
		p := geo.Vertices[slot.index].Position
		for i := 0; i < 3; i++ {
			minB[i] = min(minB[i], p[i])
			maxB[i] = max(maxB[i], p[i])
		}

		geo.Indices = append(geo.Indices, slot.index)
	}

	obj := Object{
		Min:        minB,
		Max:        maxB,
		Start:      uint32(start),
		End:        uint32(len(geo.Indices)),
		MaterialID: uint32(g.MaterialID),
	}
	geo.Objects = append(geo.Objects, obj)
	return obj, nil
}
