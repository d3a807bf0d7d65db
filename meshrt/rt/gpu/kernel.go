package gpu

import (
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meshtrace"
	"github.com/gekko3d/meshtrace/meshrt/rt/shaders"
)

// Kernel is a compiled render kernel ready for dispatch.
type Kernel struct {
	Label    string
	Module   *wgpu.ShaderModule
	Pipeline *wgpu.ComputePipeline
}

// KernelSource returns the WGSL text at path, or the embedded kernel when
// path is empty.
func KernelSource(path string) (label, source string, err error) {
	if path == "" {
		return "render.wgsl", shaders.RenderWGSL, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", &meshtrace.IOError{Op: "read kernel", Path: path, Err: err, Step: meshtrace.StageKernel}
	}
	return path, string(data), nil
}

// CompileKernel builds source into a compute pipeline with the render entry
// point. Compiler diagnostics are returned verbatim in a
// *meshtrace.KernelBuildError.
func (d *Device) CompileKernel(label, source string) (*Kernel, error) {
	module, err := d.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, &meshtrace.KernelBuildError{Label: label, Log: err.Error()}
	}

	// Layout auto
	pipeline, err := d.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: shaders.RenderEntryPoint,
		},
	})
	if err != nil {
		module.Release()
		return nil, &meshtrace.KernelBuildError{Label: label, Log: err.Error()}
	}

	d.logger.Debugf("compiled kernel %q (%d bytes of WGSL)", label, len(source))
	return &Kernel{Label: label, Module: module, Pipeline: pipeline}, nil
}

func (k *Kernel) Release() {
	if k.Pipeline != nil {
		k.Pipeline.Release()
		k.Pipeline = nil
	}
	if k.Module != nil {
		k.Module.Release()
		k.Module = nil
	}
}
