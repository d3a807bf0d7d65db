package meshtrace

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// TileSize is the edge length of the square workgroup tile the render kernel
// is dispatched in. Image dimensions must be multiples of it.
const TileSize = 32

// Config holds everything a render run needs besides the mesh itself.
type Config struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`

	Camera CameraConfig `yaml:"camera"`

	// KernelPath is a WGSL file; empty selects the embedded kernel.
	KernelPath string `yaml:"kernel"`
	OutputPath string `yaml:"output"`
	// Delimiter separates channels in the text pixel dump.
	Delimiter string `yaml:"delimiter"`

	Debug bool `yaml:"debug"`
}

type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	// FOV is the vertical field of view in radians.
	FOV float32 `yaml:"fov"`
}

func DefaultConfig() Config {
	return Config{
		Width:  2048,
		Height: 2048,
		Camera: CameraConfig{
			Eye:    [3]float32{0, 0, 4},
			Target: [3]float32{0, 0, 0},
			FOV:    3.14 * 0.5,
		},
		OutputPath: "image.ppm",
		Delimiter:  " ",
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &ConfigError{Err: err}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	return cfg, cfg.Validate()
}

// Aspect is the image aspect ratio, width over height.
func (c Config) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}

func (c CameraConfig) EyeVec() mgl32.Vec3    { return mgl32.Vec3(c.Eye) }
func (c CameraConfig) TargetVec() mgl32.Vec3 { return mgl32.Vec3(c.Target) }

func (c Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return &ConfigError{Field: "width/height", Err: fmt.Errorf("must be positive, got %dx%d", c.Width, c.Height)}
	}
	if c.OutputPath == "" {
		return &ConfigError{Field: "output", Err: errors.New("must not be empty")}
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= math.Pi {
		return &ConfigError{Field: "camera.fov", Err: fmt.Errorf("must be in (0, pi) radians, got %g", c.Camera.FOV)}
	}

	view := c.Camera.EyeVec().Sub(c.Camera.TargetVec())
	if view.Len() == 0 {
		return &ConfigError{Field: "camera", Err: errors.New("eye and target coincide")}
	}
	// World up is +Y; a view along it leaves the camera's right axis undefined.
	worldUp := mgl32.Vec3{0, 1, 0}
	if side := worldUp.Cross(view.Normalize()); side.Len() < 1e-6 {
		return &ConfigError{Field: "camera", Err: errors.New("view direction is parallel to world up")}
	}
	return nil
}
