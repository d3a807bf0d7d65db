package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meshtrace/meshrt/rt/core"
)

// minBufferSize keeps empty scenes bindable: a storage binding needs room for
// at least one element of its runtime-sized array.
const minBufferSize = 64

// Bind slots of the render kernel, group 0.
const (
	BindingImage = iota
	BindingCamera
	BindingVertices
	BindingIndices
	BindingObjects
	BindingMaterials
	BindingParams
)

// stagedScene is the host-side byte image of every kernel input.
type stagedScene struct {
	Camera    []byte
	Vertices  []byte
	Indices   []byte
	Objects   []byte
	Materials []byte
	Params    []byte
}

func stageScene(cam core.Camera, scene *core.Scene, width, height uint32) stagedScene {
	return stagedScene{
		Camera:    wgpu.ToBytes([]core.Camera{cam}),
		Vertices:  padded(recordBytes(scene.Vertices)),
		Indices:   padded(recordBytes(scene.Indices)),
		Objects:   padded(recordBytes(scene.Objects)),
		Materials: padded(recordBytes(scene.Materials)),
		Params:    wgpu.ToBytes([]core.SceneParams{scene.Params(width, height)}),
	}
}

func recordBytes[E any](records []E) []byte {
	if len(records) == 0 {
		return nil
	}
	return wgpu.ToBytes(records)
}

func padded(data []byte) []byte {
	if len(data) >= minBufferSize {
		return data
	}
	out := make([]byte, minBufferSize)
	copy(out, data)
	return out
}

// sceneBuffers are the device copies of a stagedScene, uploaded once.
type sceneBuffers struct {
	Camera    *wgpu.Buffer
	Vertices  *wgpu.Buffer
	Indices   *wgpu.Buffer
	Objects   *wgpu.Buffer
	Materials *wgpu.Buffer
	Params    *wgpu.Buffer
}

func (d *Device) uploadScene(s stagedScene) (*sceneBuffers, error) {
	b := &sceneBuffers{}
	uploads := []struct {
		label string
		dst   **wgpu.Buffer
		data  []byte
		usage wgpu.BufferUsage
	}{
		{"CameraBuf", &b.Camera, s.Camera, wgpu.BufferUsageUniform},
		{"VerticesBuf", &b.Vertices, s.Vertices, wgpu.BufferUsageStorage},
		{"IndicesBuf", &b.Indices, s.Indices, wgpu.BufferUsageStorage},
		{"ObjectsBuf", &b.Objects, s.Objects, wgpu.BufferUsageStorage},
		{"MaterialsBuf", &b.Materials, s.Materials, wgpu.BufferUsageStorage},
		{"ParamsBuf", &b.Params, s.Params, wgpu.BufferUsageUniform},
	}
	for _, u := range uploads {
		buf, err := d.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    u.label,
			Contents: u.data,
			Usage:    u.usage,
		})
		if err != nil {
			b.Release()
			return nil, err
		}
		*u.dst = buf
		d.logger.Debugf("uploaded %s: %d bytes", u.label, len(u.data))
	}
	return b, nil
}

func (b *sceneBuffers) Release() {
	for _, buf := range []**wgpu.Buffer{&b.Camera, &b.Vertices, &b.Indices, &b.Objects, &b.Materials, &b.Params} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
}

// bindGroupEntries lays out the kernel arguments in their fixed slot order.
func bindGroupEntries(image *wgpu.TextureView, b *sceneBuffers) []wgpu.BindGroupEntry {
	return []wgpu.BindGroupEntry{
		{Binding: BindingImage, TextureView: image},
		{Binding: BindingCamera, Buffer: b.Camera, Size: wgpu.WholeSize},
		{Binding: BindingVertices, Buffer: b.Vertices, Size: wgpu.WholeSize},
		{Binding: BindingIndices, Buffer: b.Indices, Size: wgpu.WholeSize},
		{Binding: BindingObjects, Buffer: b.Objects, Size: wgpu.WholeSize},
		{Binding: BindingMaterials, Buffer: b.Materials, Size: wgpu.WholeSize},
		{Binding: BindingParams, Buffer: b.Params, Size: wgpu.WholeSize},
	}
}
