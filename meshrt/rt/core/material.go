package core

import "github.com/go-gl/mathgl/mgl32"

// SourceMaterial is a material as the mesh parser reports it.
type SourceMaterial struct {
	Name      string
	Diffuse   mgl32.Vec3
	Emission  mgl32.Vec3
	Roughness float32
}

// BuildMaterialTable packs src 1:1 and in order. Values pass through
// unclamped; the kernel owns their physical interpretation.
func BuildMaterialTable(src []SourceMaterial) []Material {
	out := make([]Material, len(src))
	for i, m := range src {
		out[i] = Material{
			Albedo:    m.Diffuse,
			Emission:  m.Emission,
			Roughness: m.Roughness,
		}
	}
	return out
}

func NewMaterial(albedo, emission mgl32.Vec3, roughness float32) Material {
	return Material{
		Albedo:    albedo,
		Emission:  emission,
		Roughness: roughness,
	}
}

// Helper for default white
func DefaultMaterial() Material {
	return NewMaterial(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, 1.0)
}
