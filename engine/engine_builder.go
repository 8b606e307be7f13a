package engine

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/viewport"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose events drive the engine.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderTarget sets the surface mounted scenes draw to, usually a *renderer.Renderer.
//
// Parameters:
//   - target: the render target
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderTarget(target viewport.RenderTarget) EngineBuilderOption {
	return func(e *engine) {
		e.target = target
	}
}

// WithLoader sets the texture loader whose finished decodes are applied each frame.
//
// Parameters:
//   - l: the texture loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l *loader.TextureLoader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - options: options for the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		if enabled {
			e.profiler = profiler.NewProfiler(options...)
		}
	}
}

// WithPanel serves the mounted panel over HTTP while the engine runs.
//
// Parameters:
//   - enabled: if true, the panel server is started by Run
//   - options: options for the panel server
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPanel(enabled bool, options ...panel.ServerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.panelEnabled = enabled
		e.panelOptions = options
	}
}

// WithVerbose enables extra lifecycle logging.
func WithVerbose(verbose bool) EngineBuilderOption {
	return func(e *engine) {
		e.verbose = verbose
	}
}
