package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 75.0, cfg.Camera.FOV)
	assert.Equal(t, [3]float64{2, 2, 5}, cfg.Camera.Position)
	assert.True(t, cfg.Controls.EnableDamping)
	assert.Equal(t, 0.05, cfg.Controls.DampingFactor)
	assert.Equal(t, "vsync", cfg.Renderer.PresentMode)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "plane"
width = 800

[camera]
fov = 60
position = [0, 1, 3]

[renderer]
present_mode = "uncapped"
msaa = 0

[panel]
refresh = "250ms"

[profiling]
enabled = true
interval = "2s"
`))
	require.NoError(t, err)

	assert.Equal(t, "plane", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, 60.0, cfg.Camera.FOV)
	assert.Equal(t, [3]float64{0, 1, 3}, cfg.Camera.Position)
	assert.Equal(t, "uncapped", cfg.Renderer.PresentMode)
	assert.Equal(t, 250*time.Millisecond, cfg.Panel.Refresh.Std())
	assert.True(t, cfg.Profiling.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Profiling.Interval.Std())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[window]\nwidht = 10\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "widht")
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	_, err := Parse([]byte("[window\n"))
	require.Error(t, err)

	_, err = Parse([]byte("[panel]\nrefresh = \"soon\"\n"))
	require.Error(t, err)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Camera.Near = 0
	cfg.Controls.DampingFactor = 2
	cfg.Renderer.PresentMode = "sometimes"
	cfg.Renderer.MSAA = 3
	cfg.Panel.Addr = ""
	cfg.Assets.Workers = 0
	cfg.Profiling.Enabled = true
	cfg.Profiling.Interval = 0

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"window size", "clip planes", "damping_factor", "present mode", "msaa", "panel addr", "workers", "profiling interval"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateIgnoresDisabledSections(t *testing.T) {
	cfg := Default()
	cfg.Panel.Enabled = false
	cfg.Panel.Addr = ""
	cfg.Controls.EnableDamping = false
	cfg.Controls.DampingFactor = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\nworkers = 2\nwatch = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Assets.Workers)
	assert.True(t, cfg.Assets.Watch)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "configs", "sandbox.toml"))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Window.MinWidth)
	assert.Equal(t, 2048, cfg.Assets.MaxTextureSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Panel.Refresh.Std())
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "box"
	cfg.Profiling.Interval = Duration(1500 * time.Millisecond)

	data, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.5s")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestComponentOptions(t *testing.T) {
	cfg := Default()

	cam := cfg.Camera.NewCamera(2)
	assert.Equal(t, 75.0, cam.Fov)
	assert.Equal(t, 2.0, cam.Aspect())
	assert.Equal(t, 5.0, cam.Position.Z)

	oc := controls.NewOrbitControls(cam, cfg.Controls.Options()...)
	assert.True(t, oc.EnableDamping)
	assert.Equal(t, 0.05, oc.DampingFactor)
	assert.True(t, math.IsInf(oc.MaxDistance, 1))

	opts, err := cfg.Renderer.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	cfg.Renderer.MSAA = 2
	_, err = cfg.Renderer.Options()
	assert.Error(t, err)

	assert.Len(t, cfg.Assets.Options(), 5)
	assert.Len(t, cfg.Panel.Options(), 3)
	assert.Len(t, cfg.Profiling.Options(), 1)
}
