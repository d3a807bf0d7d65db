package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meshtrace"
	"github.com/gekko3d/meshtrace/meshrt/rt/core"
)

// Render runs kernel once over a width x height image and returns the
// pixels it wrote. The call stages the scene, dispatches one invocation per
// pixel in TileSize tiles, blocks until the device is idle and reads the
// image back; every per-render resource is released before it returns.
func (d *Device) Render(kernel *Kernel, cam core.Camera, scene *core.Scene, width, height uint32) (*image.RGBA, error) {
	wgX, wgY, err := DispatchSize(width, height, meshtrace.TileSize, d.Limits.MaxTextureDimension2D)
	if err != nil {
		return nil, err
	}
	fail := func(step string, err error) (*image.RGBA, error) {
		return nil, &meshtrace.DispatchError{
			Width: width, Height: height, Tile: meshtrace.TileSize,
			Reason: fmt.Sprintf("%s: %v", step, err),
		}
	}

	// Output image
	texture, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Render Target",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopySrc,
		SampleCount:   1,
	})
	if err != nil {
		return fail("create texture", err)
	}
	defer texture.Release()
	view, err := texture.CreateView(nil)
	if err != nil {
		return fail("create texture view", err)
	}
	defer view.Release()

	// Inputs
	buffers, err := d.uploadScene(stageScene(cam, scene, width, height))
	if err != nil {
		return fail("upload scene", err)
	}
	defer buffers.Release()

	bindGroup, err := d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Render BG",
		Layout:  kernel.Pipeline.GetBindGroupLayout(0),
		Entries: bindGroupEntries(view, buffers),
	})
	if err != nil {
		return fail("bind arguments", err)
	}
	defer bindGroup.Release()

	// Readback
	bytesPerRow := PaddedRowSize(width)
	readback, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Render Readback",
		Size:  uint64(bytesPerRow) * uint64(height),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return fail("create readback buffer", err)
	}
	defer readback.Release()

	encoder, err := d.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fail("create command encoder", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(kernel.Pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(wgX, wgY, 1)
	if err := pass.End(); err != nil {
		return fail("end compute pass", err)
	}

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fail("finish commands", err)
	}
	defer cmd.Release()

	d.logger.Debugf("dispatch %dx%d workgroups for %dx%d image", wgX, wgY, width, height)
	d.Queue.Submit(cmd)
	d.wait()

	if err := d.mapRead(readback); err != nil {
		return fail("map readback buffer", err)
	}
	data := readback.GetMappedRange(0, uint(readback.GetSize()))
	img := unpadRows(data, width, height, bytesPerRow)
	readback.Unmap()
	return img, nil
}

// mapRead maps buf for reading and waits for the mapping to complete.
func (d *Device) mapRead(buf *wgpu.Buffer) error {
	var status wgpu.BufferMapAsyncStatus
	err := buf.MapAsync(wgpu.MapModeRead, 0, buf.GetSize(), func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return err
	}
	d.wait()
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return errors.New("buffer map was not successful: " + status.String())
	}
	return nil
}
