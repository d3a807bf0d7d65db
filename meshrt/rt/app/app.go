package app

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/google/uuid"

	"github.com/gekko3d/meshtrace"
	"github.com/gekko3d/meshtrace/meshrt/rt/core"
	"github.com/gekko3d/meshtrace/meshrt/rt/gpu"
	"github.com/gekko3d/meshtrace/meshrt/rt/imageio"
	"github.com/gekko3d/meshtrace/meshrt/rt/wavefront"
)

var ErrNoShapes = errors.New("mesh contains no faces")

// maxWarnings bounds how many parser warnings are logged individually.
const maxWarnings = 20

type App struct {
	Config   meshtrace.Config
	Logger   meshtrace.Logger
	Profiler *Profiler
	RunID    uuid.UUID
}

// NewApp creates an app for one run. A nil logger gets a DefaultLogger
// prefixed with the short run id.
func NewApp(cfg meshtrace.Config, logger meshtrace.Logger) *App {
	id := uuid.New()
	if logger == nil {
		logger = meshtrace.NewDefaultLogger(id.String()[:8], cfg.Debug)
	}
	return &App{
		Config:   cfg,
		Logger:   logger,
		Profiler: NewProfiler(),
		RunID:    id,
	}
}

// LoadScene parses the mesh at meshPath and builds the validated scene
// buffers. Every failure is a *meshtrace.SceneLoadError.
func (a *App) LoadScene(meshPath string) (*core.Scene, error) {
	fail := func(err error) (*core.Scene, error) {
		return nil, &meshtrace.SceneLoadError{Path: meshPath, Err: err}
	}

	var dec *wavefront.Decoder
	err := a.Profiler.Measure("load", func() error {
		var err error
		dec, err = wavefront.LoadObjFile(meshPath)
		return err
	})
	if err != nil {
		return fail(err)
	}
	a.logWarnings(dec)
	if len(dec.Objects) == 0 {
		return fail(ErrNoShapes)
	}

	var geo *core.Geometry
	err = a.Profiler.Measure("compact", func() error {
		var err error
		geo, err = core.Compact(dec.Vertices, dec.ShapeGroups())
		return err
	})
	if err != nil {
		return fail(err)
	}

	var materials []core.Material
	a.Profiler.Measure("materials", func() error {
		materials = core.BuildMaterialTable(dec.SourceMaterials())
		return nil
	})

	scene := core.NewScene(geo, materials)
	if err := scene.Validate(); err != nil {
		return fail(err)
	}

	a.Profiler.SetCount("positions", len(dec.Vertices)/3)
	a.Profiler.SetCount("vertices", len(scene.Vertices))
	a.Profiler.SetCount("triangles", scene.TriangleCount())
	a.Profiler.SetCount("objects", len(scene.Objects))
	a.Profiler.SetCount("materials", len(scene.Materials))
	a.Logger.Infof("loaded %s: %d objects, %d triangles, %d vertices (%d in file), %d materials",
		meshPath, len(scene.Objects), scene.TriangleCount(), len(scene.Vertices), len(dec.Vertices)/3, len(scene.Materials))
	return scene, nil
}

func (a *App) logWarnings(dec *wavefront.Decoder) {
	for i, w := range dec.Warnings {
		if i == maxWarnings {
			a.Logger.Warnf("%d more parser warnings", len(dec.Warnings)-maxWarnings)
			break
		}
		a.Logger.Warnf("%s", w)
	}
	for _, name := range dec.MixedMaterials {
		a.Logger.Warnf("group %q uses several materials; the first face's material applies to all", name)
	}
}

// Render runs the whole pipeline for meshPath and writes the image to the
// configured output path.
func (a *App) Render(meshPath string) error {
	cfg := a.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Reject bad dimensions before any parsing or device work.
	if _, _, err := gpu.DispatchSize(cfg.Width, cfg.Height, meshtrace.TileSize, 0); err != nil {
		return err
	}

	scene, err := a.LoadScene(meshPath)
	if err != nil {
		return err
	}

	var cam core.Camera
	a.Profiler.Measure("camera", func() error {
		cam = core.BuildCamera(cfg.Camera.EyeVec(), cfg.Camera.TargetVec(), cfg.Camera.FOV, cfg.Aspect())
		return nil
	})
	a.Logger.Debugf("camera: origin=%v horizontal=%v vertical=%v lower_left=%v",
		cam.Origin, cam.Horizontal, cam.Vertical, cam.LowerLeft)

	var dev *gpu.Device
	if err := a.Profiler.Measure("device", func() error {
		var err error
		dev, err = gpu.OpenDevice(a.Logger)
		return err
	}); err != nil {
		return err
	}
	defer dev.Release()

	var kernel *gpu.Kernel
	if err := a.Profiler.Measure("kernel", func() error {
		label, src, err := gpu.KernelSource(cfg.KernelPath)
		if err != nil {
			return err
		}
		kernel, err = dev.CompileKernel(label, src)
		return err
	}); err != nil {
		return err
	}
	defer kernel.Release()

	var img *image.RGBA
	if err := a.Profiler.Measure("dispatch", func() error {
		var err error
		img, err = dev.Render(kernel, cam, scene, cfg.Width, cfg.Height)
		return err
	}); err != nil {
		return err
	}

	if err := a.Profiler.Measure("write", func() error {
		return imageio.Write(cfg.OutputPath, img, imageio.Options{Delimiter: cfg.Delimiter})
	}); err != nil {
		return err
	}

	a.Logger.Infof("wrote %dx%d image to %s", cfg.Width, cfg.Height, cfg.OutputPath)
	a.Logger.Debugf("\n%s", a.Profiler.GetStatsString())
	return nil
}

// Inspect loads meshPath and prints a summary of the scene buffers to w
// without touching the device.
func (a *App) Inspect(meshPath string, w io.Writer) error {
	scene, err := a.LoadScene(meshPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "mesh:      %s\n", meshPath)
	fmt.Fprintf(w, "vertices:  %d (%d bytes)\n", len(scene.Vertices), len(scene.Vertices)*core.SizeofVertex)
	fmt.Fprintf(w, "indices:   %d (%d triangles)\n", len(scene.Indices), scene.TriangleCount())
	fmt.Fprintf(w, "objects:   %d\n", len(scene.Objects))
	fmt.Fprintf(w, "materials: %d\n", len(scene.Materials))
	if minB, maxB, ok := scene.Bounds(); ok {
		fmt.Fprintf(w, "bounds:    [%g %g %g] - [%g %g %g]\n", minB[0], minB[1], minB[2], maxB[0], maxB[1], maxB[2])
	} else {
		fmt.Fprintf(w, "bounds:    empty\n")
	}
	for i, o := range scene.Objects {
		if o.Empty() {
			fmt.Fprintf(w, "  object %d: indices [%d, %d) material %d bounds empty\n", i, o.Start, o.End, o.MaterialID)
			continue
		}
		fmt.Fprintf(w, "  object %d: indices [%d, %d) material %d bounds [%g %g %g] - [%g %g %g]\n",
			i, o.Start, o.End, o.MaterialID,
			o.Min[0], o.Min[1], o.Min[2], o.Max[0], o.Max[1], o.Max[2])
	}
	return nil
}
