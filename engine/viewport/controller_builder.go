package viewport

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerBuilderOption func(c *Controller)

// WithProfiler ticks p once per rendered frame.
//
// Parameters:
//   - p: the profiler to tick
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) ControllerBuilderOption {
	return func(c *Controller) {
		c.profiler = p
	}
}

// WithFrameHook registers a hook run at the start of every frame. See Controller.OnFrame.
//
// Parameters:
//   - hook: the function to run each frame
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithFrameHook(hook func()) ControllerBuilderOption {
	return func(c *Controller) {
		if hook != nil {
			c.hooks = append(c.hooks, hook)
		}
	}
}

// WithVerbose logs ignored resize events.
func WithVerbose(verbose bool) ControllerBuilderOption {
	return func(c *Controller) {
		c.verbose = verbose
	}
}
