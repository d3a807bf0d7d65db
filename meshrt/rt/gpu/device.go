package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meshtrace"
)

// Minimum adapter capabilities the render kernel needs: one invocation per
// pixel of a TileSize x TileSize tile, seven bindings of which four are
// read-only storage buffers and one a storage texture.
const (
	minInvocations     = meshtrace.TileSize * meshtrace.TileSize
	minStorageBuffers  = 4
	minStorageTextures = 1
	minUniformBuffers  = 2
)

// Device owns the WebGPU instance, adapter, device and queue for one run.
type Device struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	Info   wgpu.AdapterInfo
	Limits wgpu.Limits

	logger meshtrace.Logger
}

// OpenDevice requests a high-performance adapter without a surface and a
// device with the adapter's full limits. It fails with
// *meshtrace.DeviceUnavailableError if no adapter is present or it cannot run
// TileSize x TileSize workgroups.
func OpenDevice(logger meshtrace.Logger) (*Device, error) {
	logger = meshtrace.OrNop(logger)
	d := &Device{logger: logger}

	d.Instance = wgpu.CreateInstance(nil)
	adapter, err := d.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		d.Release()
		return nil, &meshtrace.DeviceUnavailableError{Reason: "request adapter", Err: err}
	}
	d.Adapter = adapter
	d.Info = adapter.GetInfo()
	logger.Infof("adapter: %s (%v, %v)", d.Info.Name, d.Info.AdapterType, d.Info.BackendType)

	supported := adapter.GetLimits()
	if err := CheckLimits(supported.Limits); err != nil {
		d.Release()
		return nil, err
	}
	d.Limits = supported.Limits

	d.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "meshtrace",
		RequiredLimits: &wgpu.RequiredLimits{Limits: supported.Limits},
	})
	if err != nil {
		d.Release()
		return nil, &meshtrace.DeviceUnavailableError{Reason: "request device", Err: err}
	}
	d.Queue = d.Device.GetQueue()

	logger.Debugf("device limits: maxTexture2D=%d invocations=%d workgroup=%dx%d storageBuffers=%d",
		d.Limits.MaxTextureDimension2D,
		d.Limits.MaxComputeInvocationsPerWorkgroup,
		d.Limits.MaxComputeWorkgroupSizeX, d.Limits.MaxComputeWorkgroupSizeY,
		d.Limits.MaxStorageBuffersPerShaderStage)
	return d, nil
}

// CheckLimits reports whether an adapter can run the render kernel.
func CheckLimits(l wgpu.Limits) error {
	switch {
	case l.MaxComputeInvocationsPerWorkgroup < minInvocations:
		return limitError("invocations per workgroup", l.MaxComputeInvocationsPerWorkgroup, minInvocations)
	case l.MaxComputeWorkgroupSizeX < meshtrace.TileSize:
		return limitError("workgroup size x", l.MaxComputeWorkgroupSizeX, meshtrace.TileSize)
	case l.MaxComputeWorkgroupSizeY < meshtrace.TileSize:
		return limitError("workgroup size y", l.MaxComputeWorkgroupSizeY, meshtrace.TileSize)
	case l.MaxStorageBuffersPerShaderStage < minStorageBuffers:
		return limitError("storage buffers per stage", l.MaxStorageBuffersPerShaderStage, minStorageBuffers)
	case l.MaxStorageTexturesPerShaderStage < minStorageTextures:
		return limitError("storage textures per stage", l.MaxStorageTexturesPerShaderStage, minStorageTextures)
	case l.MaxUniformBuffersPerShaderStage < minUniformBuffers:
		return limitError("uniform buffers per stage", l.MaxUniformBuffersPerShaderStage, minUniformBuffers)
	}
	return nil
}

func limitError(what string, got, want uint32) error {
	return &meshtrace.DeviceUnavailableError{
		Reason: fmt.Sprintf("adapter supports %d %s, need %d", got, what, want),
	}
}

// Release frees the device and everything it was created from. Safe to call
// on a partially opened Device.
func (d *Device) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}
	if d.Instance != nil {
		d.Instance.Release()
		d.Instance = nil
	}
}

// wait blocks until all submitted work has completed.
func (d *Device) wait() {
	d.Device.Poll(true, nil)
}
