package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LayoutVersion identifies the record layouts below. Bump it whenever a field
// moves, and update the WGSL structs in rt/shaders to match.
const LayoutVersion = 1

// Matches WGSL (read as array<f32>, stride 3)
// vertex: x, y, z  -> 12 bytes
type Vertex struct {
	Position mgl32.Vec3
}

// Matches WGSL Object
//
//	struct Object {
//	   min : vec3<f32>;       (0)
//	   _pad0 : f32;           (12)
//	   max : vec3<f32>;       (16)
//	   _pad1 : f32;           (28)
//	   start : u32;           (32)
//	   end : u32;             (36)
//	   material_id : u32;     (40)
//	   _pad2 : u32;           (44)
//	}; -> 48 bytes
type Object struct {
	Min        mgl32.Vec3
	_          float32
	Max        mgl32.Vec3
	_          float32
	Start      uint32
	End        uint32
	MaterialID uint32
	_          uint32
}

// Count is the number of indices (three per triangle) the object covers.
func (o Object) Count() uint32 {
	return o.End - o.Start
}

// Empty reports whether the bounds are inverted, as for a group with no faces.
func (o Object) Empty() bool {
	return o.Min.X() > o.Max.X() || o.Min.Y() > o.Max.Y() || o.Min.Z() > o.Max.Z()
}

// Contains reports whether p lies within [Min, Max] on every axis.
func (o Object) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < o.Min[i] || p[i] > o.Max[i] {
			return false
		}
	}
	return true
}

// Matches WGSL Material
//
//	struct Material {
//	   albedo : vec3<f32>;    (0)
//	   _pad0 : f32;           (12)
//	   emission : vec3<f32>;  (16)
//	   roughness : f32;       (28)
//	}; -> 32 bytes
type Material struct {
	Albedo    mgl32.Vec3
	_         float32
	Emission  mgl32.Vec3
	Roughness float32
}

// Matches WGSL Camera (uniform)
//
//	struct Camera {
//	   origin : vec3<f32>;      (0)
//	   horizontal : vec3<f32>;  (16)
//	   vertical : vec3<f32>;    (32)
//	   lower_left : vec3<f32>;  (48)
//	}; -> 64 bytes
type Camera struct {
	Origin     mgl32.Vec3
	_          float32
	Horizontal mgl32.Vec3
	_          float32
	Vertical   mgl32.Vec3
	_          float32
	LowerLeft  mgl32.Vec3
	_          float32
}

// Matches WGSL SceneParams (uniform)
//
//	struct SceneParams {
//	   object_count : u32;  (0)
//	   width : u32;         (4)
//	   height : u32;        (8)
//	   _pad : u32;          (12)
//	}; -> 16 bytes
type SceneParams struct {
	ObjectCount uint32
	Width       uint32
	Height      uint32
	_           uint32
}

// Record sizes in bytes, as seen by the kernel.
const (
	SizeofVertex      = 12
	SizeofIndex       = 4
	SizeofObject      = 48
	SizeofMaterial    = 32
	SizeofCamera      = 64
	SizeofSceneParams = 16
)
