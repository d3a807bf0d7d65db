package meshtrace

import (
	"errors"
	"fmt"
)

// Pipeline stages, used to tell the user which part of a run failed.
const (
	StageConfig = "config"
	StageScene  = "scene load"
	StageDevice = "device"
	StageKernel = "kernel build"
	StageRender = "dispatch"
	StageOutput = "image write"
)

// SceneLoadError reports a mesh that could not be read, parsed or compacted.
type SceneLoadError struct {
	Path string
	Err  error
}

func (e *SceneLoadError) Error() string {
	return fmt.Sprintf("load scene %q: %v", e.Path, e.Err)
}

func (e *SceneLoadError) Unwrap() error { return e.Err }
func (e *SceneLoadError) Stage() string { return StageScene }

// DeviceUnavailableError reports that no usable adapter or device was found.
type DeviceUnavailableError struct {
	Reason string
	Err    error
}

func (e *DeviceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no usable compute device: %s: %v", e.Reason, e.Err)
	}
	return "no usable compute device: " + e.Reason
}

func (e *DeviceUnavailableError) Unwrap() error { return e.Err }
func (e *DeviceUnavailableError) Stage() string { return StageDevice }

// KernelBuildError carries the compiler diagnostic of a failed kernel build verbatim.
type KernelBuildError struct {
	Label string
	Log   string
}

func (e *KernelBuildError) Error() string {
	return fmt.Sprintf("build kernel %q:\n%s", e.Label, e.Log)
}

func (e *KernelBuildError) Stage() string { return StageKernel }

// DispatchError reports a dispatch that was rejected before any device work.
type DispatchError struct {
	Width, Height uint32
	Tile          uint32
	Reason        string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("invalid dispatch %dx%d (tile %d): %s", e.Width, e.Height, e.Tile, e.Reason)
}

func (e *DispatchError) Stage() string { return StageRender }

// IOError reports a failed read of an input file or write of the output image.
type IOError struct {
	Op   string
	Path string
	Err  error
	// Step overrides the reported stage; empty means StageOutput.
	Step string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
func (e *IOError) Stage() string {
	if e.Step != "" {
		return e.Step
	}
	return StageOutput
}

// ConfigError reports an unreadable or invalid configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) Stage() string { return StageConfig }

type staged interface {
	Stage() string
}

// StageOf returns the pipeline stage an error belongs to, or "" if it is not
// one of the taxonomy errors.
func StageOf(err error) string {
	var s staged
	if errors.As(err, &s) {
		return s.Stage()
	}
	return ""
}

// Describe formats err for the user, naming the stage that failed.
func Describe(err error) string {
	if stage := StageOf(err); stage != "" {
		return fmt.Sprintf("%s failed: %v", stage, err)
	}
	return err.Error()
}
