package viewport

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
)

// Controller owns the render loop and keeps the render target size and the camera's aspect
// ratio in step with the host.
//
// Frames and resizes are serialized under one mutex, so a resize is applied either wholly
// before or wholly after a frame's controls update and render. Frame hooks run on the frame
// callback just before that critical section; they are where queued cross-goroutine work
// (panel edits, finished texture loads) is applied to the scene.
type Controller struct {
	ctx  Context
	host Host

	mu       sync.Mutex
	state    atomic.Int32
	viewport Viewport
	loop     *RenderLoop
	hooks    []func()

	profiler *profiler.Profiler
	verbose  bool
	lastErr  string
}

// NewController creates a controller for the given scene, camera, render target and optional
// controls. Nothing is rendered and no handlers are attached until Start.
//
// Parameters:
//   - ctx: the collaborators to drive; Scene, Camera and Target are required
//   - host: the display environment
//   - options: functional options to configure the controller
//
// Returns:
//   - *Controller: the new controller
//   - error: ErrIncompleteContext if a required collaborator or the host is nil
func NewController(ctx Context, host Host, options ...ControllerBuilderOption) (*Controller, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrIncompleteContext
	}
	c := &Controller{ctx: ctx, host: host}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Context returns the collaborators this controller drives.
func (c *Controller) Context() Context {
	return c.ctx
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Viewport returns the most recently applied size and aspect ratio.
func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// OnFrame registers a hook run at the start of every frame, before controls and rendering.
// Hooks run on the host's frame callback and must not call Resize or Start.
//
// Parameters:
//   - hook: the function to run each frame
func (c *Controller) OnFrame(hook func()) {
	if hook == nil {
		return
	}
	c.mu.Lock()
	c.hooks = append(c.hooks, hook)
	c.mu.Unlock()
}

// Start begins rendering. It syncs the render target and camera to the host's current size,
// attaches the resize handler, renders the first frame before returning and schedules the next
// one with the host. Each later frame runs the frame hooks, updates the controls, renders exactly
// once and schedules its successor.
//
// Only one loop exists per controller: subsequent calls return the same handle.
//
// Returns:
//   - *RenderLoop: the handle used to stop the loop
func (c *Controller) Start() *RenderLoop {
	c.mu.Lock()
	if c.loop != nil {
		loop := c.loop
		c.mu.Unlock()
		return loop
	}
	c.loop = newRenderLoop()
	c.mu.Unlock()

	c.runHooks()

	// The resize handler is attached while holding the lock, so no resize can be applied
	// until the first frame has been rendered.
	c.mu.Lock()
	c.applySize(c.host.Width(), c.host.Height())
	c.state.Store(int32(StateRunning))
	c.host.SetResizeCallback(c.Resize)
	c.renderLocked()
	vp := c.viewport
	c.mu.Unlock()

	log.Printf("[Viewport] render loop started at %dx%d", vp.Width, vp.Height)
	c.host.RequestFrame(c.frame)
	return c.loop
}

// Resize applies a new drawable size: the render target is resized and the camera's aspect
// ratio and projection are recomputed as one step. Non-positive dimensions (a minimized
// window) and calls made while the controller is not running are ignored.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
func (c *Controller) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		if c.verbose {
			log.Printf("[Viewport] ignoring resize to %dx%d", width, height)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State() != StateRunning {
		return
	}
	c.applySize(width, height)
}

// applySize must be called with c.mu held.
func (c *Controller) applySize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float64(width) / float64(height)
	c.ctx.Target.SetSize(width, height)
	c.ctx.Camera.SetAspect(aspect)
	c.viewport = Viewport{Width: width, Height: height, Aspect: aspect}
}

// frame is the callback handed to Host.RequestFrame.
func (c *Controller) frame() {
	if c.loop.stopRequested() {
		c.stop()
		return
	}

	c.runHooks()

	c.mu.Lock()
	if c.State() != StateRunning {
		c.mu.Unlock()
		return
	}
	c.renderLocked()
	c.mu.Unlock()

	c.host.RequestFrame(c.frame)
}

func (c *Controller) stop() {
	c.mu.Lock()
	c.state.Store(int32(StateStopped))
	c.mu.Unlock()
	c.loop.finish()
	log.Printf("[Viewport] render loop stopped after %d frames", c.loop.Frames())
}

func (c *Controller) runHooks() {
	c.mu.Lock()
	hooks := c.hooks
	c.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}
}

// renderLocked runs one controls update and one render. Must be called with c.mu held.
func (c *Controller) renderLocked() {
	if c.ctx.Controls != nil {
		c.ctx.Controls.Update()
	}

	err := c.ctx.Target.Render(c.ctx.Scene, c.ctx.Camera)
	if err == nil {
		c.loop.frames.Add(1)
	}
	switch {
	case err != nil && err.Error() != c.lastErr:
		c.lastErr = err.Error()
		log.Printf("[Viewport] render failed: %v", err)
	case err == nil && c.lastErr != "":
		c.lastErr = ""
		log.Printf("[Viewport] render recovered")
	}

	if c.profiler != nil {
		c.profiler.Tick()
	}
}
