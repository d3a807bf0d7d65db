package wavefront

import (
	"github.com/gekko3d/meshtrace/meshrt/rt/core"
)

// ShapeGroups converts the decoded groups for the scene compactor.
func (dec *Decoder) ShapeGroups() []core.ShapeGroup {
	groups := make([]core.ShapeGroup, len(dec.Objects))
	for i, ob := range dec.Objects {
		groups[i] = core.ShapeGroup{
			Name:       ob.Name,
			Refs:       ob.Refs,
			MaterialID: ob.MaterialID,
		}
	}
	return groups
}

// SourceMaterials converts the decoded materials, keeping declaration order
// so that material ids stay valid.
func (dec *Decoder) SourceMaterials() []core.SourceMaterial {
	mats := make([]core.SourceMaterial, len(dec.Materials))
	for i, m := range dec.Materials {
		mats[i] = core.SourceMaterial{
			Name:      m.Name,
			Diffuse:   m.Diffuse,
			Emission:  m.Emissive,
			Roughness: m.Roughness,
		}
	}
	return mats
}

// TriangleCount is the number of triangles across all groups.
func (dec *Decoder) TriangleCount() int {
	n := 0
	for i := range dec.Objects {
		n += dec.Objects[i].Triangles()
	}
	return n
}
