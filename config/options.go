package config

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controls"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
)

// NewCamera builds the configured camera for the given aspect ratio.
func (c CameraConfig) NewCamera(aspect float64) *camera.PerspectiveCamera {
	return camera.NewPerspectiveCamera(c.FOV, aspect, c.Near, c.Far,
		camera.WithPosition(c.Position[0], c.Position[1], c.Position[2]),
		camera.WithTarget(c.Target[0], c.Target[1], c.Target[2]),
	)
}

// Options converts the section into orbit control options.
func (c ControlsConfig) Options() []controls.OrbitControlsBuilderOption {
	maxDistance := c.MaxDistance
	if maxDistance == 0 {
		maxDistance = math.Inf(1)
	}
	opts := []controls.OrbitControlsBuilderOption{
		controls.WithSpeeds(c.RotateSpeed, c.ZoomSpeed, c.PanSpeed),
		controls.WithDistanceLimits(c.MinDistance, maxDistance),
	}
	if c.EnableDamping {
		opts = append(opts, controls.WithDamping(c.DampingFactor))
	}
	return opts
}

// Options converts the section into renderer options.
//
// Returns:
//   - []renderer.RendererBuilderOption: the options
//   - error: an error if the present mode or sample count is not recognized
func (c RendererConfig) Options() ([]renderer.RendererBuilderOption, error) {
	mode, err := renderer.ParsePresentMode(c.PresentMode)
	if err != nil {
		return nil, err
	}
	msaa, err := renderer.ParseMSAA(c.MSAA)
	if err != nil {
		return nil, err
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(c.ForceSoftware),
	}, nil
}

// Options converts the section into texture loader options.
func (c AssetsConfig) Options() []loader.LoaderBuilderOption {
	return []loader.LoaderBuilderOption{
		loader.WithBaseDir(c.TextureDir),
		loader.WithWorkers(c.Workers),
		loader.WithMaxSize(c.MaxTextureSize),
		loader.WithExposure(c.Exposure),
		loader.WithVerbose(c.Verbose),
	}
}

// Options converts the section into panel server options.
func (c PanelConfig) Options() []panel.ServerBuilderOption {
	return []panel.ServerBuilderOption{
		panel.WithAddr(c.Addr),
		panel.WithRefreshInterval(c.Refresh.Std()),
		panel.WithAllowedOrigin(c.AllowAnyOrigin),
	}
}

// Options converts the section into profiler options.
func (c ProfilingConfig) Options() []profiler.ProfilerBuilderOption {
	return []profiler.ProfilerBuilderOption{profiler.WithInterval(c.Interval.Std())}
}
