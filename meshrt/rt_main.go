package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"

	"github.com/gekko3d/meshtrace"
	"github.com/gekko3d/meshtrace/meshrt/rt/app"
)

func init() {
	runtime.LockOSThread()
}

var errNoMesh = errors.New("missing mesh argument")

func main() {
	a := cli.NewApp()
	a.Name = "meshtrace"
	a.Usage = "render a Wavefront OBJ scene with a WebGPU compute kernel"
	a.Version = "0.1.0"
	a.ArgsUsage = "mesh.obj"
	a.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML config file; flags override its values",
		},
		cli.UintFlag{
			Name:  "width",
			Value: 2048,
			Usage: "image width in pixels, a multiple of 32",
		},
		cli.UintFlag{
			Name:  "height",
			Value: 2048,
			Usage: "image height in pixels, a multiple of 32",
		},
		cli.StringFlag{
			Name:  "kernel, k",
			Usage: "WGSL render kernel; defaults to the built-in kernel",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "image.ppm",
			Usage: "output image; .ppm, .png, .bmp or .tiff",
		},
		cli.StringFlag{
			Name:  "delimiter",
			Value: " ",
			Usage: "channel separator in the .ppm text dump",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug logging and stage timings",
		},
	}
	a.Action = render
	a.Commands = []cli.Command{
		{
			Name:      "inspect",
			Usage:     "print the compacted scene without rendering",
			ArgsUsage: "mesh.obj",
			Action:    inspect,
		},
	}

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "meshtrace: "+meshtrace.Describe(err))
		os.Exit(1)
	}
}

func render(ctx *cli.Context) error {
	mesh := ctx.Args().First()
	if mesh == "" {
		cli.ShowAppHelp(ctx)
		return errNoMesh
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return app.NewApp(cfg, nil).Render(mesh)
}

func inspect(ctx *cli.Context) error {
	mesh := ctx.Args().First()
	if mesh == "" {
		return errNoMesh
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return app.NewApp(cfg, nil).Inspect(mesh, os.Stdout)
}

// loadConfig reads the optional config file and applies explicitly set flags
// on top of it.
func loadConfig(ctx *cli.Context) (meshtrace.Config, error) {
	cfg := meshtrace.DefaultConfig()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = meshtrace.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet("width") {
		cfg.Width = uint32(ctx.GlobalUint("width"))
	}
	if ctx.GlobalIsSet("height") {
		cfg.Height = uint32(ctx.GlobalUint("height"))
	}
	if ctx.GlobalIsSet("kernel") {
		cfg.KernelPath = ctx.GlobalString("kernel")
	}
	if ctx.GlobalIsSet("out") {
		cfg.OutputPath = ctx.GlobalString("out")
	}
	if ctx.GlobalIsSet("delimiter") {
		cfg.Delimiter = ctx.GlobalString("delimiter")
	}
	if ctx.GlobalBool("debug") {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}
