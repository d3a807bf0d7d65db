package meshtrace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesBaseConfiguration(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, uint32(2048), cfg.Width)
	assert.Equal(t, uint32(2048), cfg.Height)
	assert.Equal(t, [3]float32{0, 0, 4}, cfg.Camera.Eye)
	assert.Equal(t, [3]float32{0, 0, 0}, cfg.Camera.Target)
	assert.InDelta(t, 1.57, cfg.Camera.FOV, 1e-6)
	assert.Equal(t, "image.ppm", cfg.OutputPath)
	assert.Equal(t, float32(1), cfg.Aspect())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.yaml")
	yml := "width: 512\nheight: 256\ncamera:\n  eye: [1, 2, 3]\noutput: out.png\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(512), cfg.Width)
	assert.Equal(t, uint32(256), cfg.Height)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Eye)
	// Untouched keys keep their defaults.
	assert.Equal(t, [3]float32{0, 0, 0}, cfg.Camera.Target)
	assert.InDelta(t, 1.57, cfg.Camera.FOV, 1e-6)
	assert.Equal(t, "out.png", cfg.OutputPath)
	assert.Equal(t, float32(2), cfg.Aspect())
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("width: [oops\n"), 0o644))
	_, err = LoadConfig(bad)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, StageConfig, StageOf(err))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width/height"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "output"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 3.2 }, "camera.fov"},
		{"fov zero", func(c *Config) { c.Camera.FOV = 0 }, "camera.fov"},
		{"eye on target", func(c *Config) { c.Camera.Eye = c.Camera.Target }, "camera"},
		{"looking straight down", func(c *Config) { c.Camera.Eye = [3]float32{0, 5, 0} }, "camera"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
