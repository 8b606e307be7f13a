package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/viewport"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// ErrNotMounted is returned by Run when no scene has been mounted.
var ErrNotMounted = errors.New("engine: nothing mounted")

// engine implements the Engine interface.
// Coordinates the window's event pump, the viewport controller and the panel server.
type engine struct {
	window window.Window
	target viewport.RenderTarget
	loader *loader.TextureLoader

	profiler         *profiler.Profiler
	profilingEnabled bool

	panelEnabled bool
	panelOptions []panel.ServerBuilderOption
	verbose      bool

	controller *viewport.Controller
	gui        *panel.GUI

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
}

// Engine is the main entry point for the sandbox.
// It owns the window's event pump and runs one mounted scene until the window closes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Loader returns the texture loader polled every frame, or nil.
	//
	// Returns:
	//   - *loader.TextureLoader: the loader
	Loader() *loader.TextureLoader

	// Controller returns the viewport controller created by Mount, or nil before Mount.
	//
	// Returns:
	//   - *viewport.Controller: the controller
	Controller() *viewport.Controller

	// Mount prepares a scene for Run: it creates the viewport controller and registers the
	// per-frame texture poll and panel flush ahead of any extra hooks.
	//
	// Parameters:
	//   - vctx: the scene, camera and controls; a nil Target uses the engine's render target
	//   - gui: the panel to flush and serve, may be nil
	//   - hooks: extra functions run at the start of every frame
	//
	// Returns:
	//   - error: an error if the controller cannot be created
	Mount(vctx viewport.Context, gui *panel.GUI, hooks ...func()) error

	// Run starts the render loop and the panel server, then pumps window events until the
	// window closes, ctx is cancelled or Quit is called.
	//
	// Parameters:
	//   - ctx: cancelling it stops the engine
	//
	// Returns:
	//   - error: ErrNotMounted, or a panel server failure
	Run(ctx context.Context) error

	// Quit signals the engine to stop. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window and a render target are required.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the window or render target is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		return nil, fmt.Errorf("engine: window is required")
	}
	if e.target == nil {
		return nil, fmt.Errorf("engine: render target is required")
	}
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Loader() *loader.TextureLoader {
	return e.loader
}

func (e *engine) Controller() *viewport.Controller {
	return e.controller
}

func (e *engine) Mount(vctx viewport.Context, gui *panel.GUI, hooks ...func()) error {
	if vctx.Target == nil {
		vctx.Target = e.target
	}

	opts := []viewport.ControllerBuilderOption{viewport.WithVerbose(e.verbose)}
	if e.profilingEnabled && e.profiler != nil {
		opts = append(opts, viewport.WithProfiler(e.profiler))
	}
	if e.loader != nil {
		l := e.loader
		opts = append(opts, viewport.WithFrameHook(func() { l.Poll() }))
	}
	if gui != nil {
		// Flush logs rejected edits itself.
		opts = append(opts, viewport.WithFrameHook(func() { _ = gui.Flush() }))
	}
	for _, hook := range hooks {
		opts = append(opts, viewport.WithFrameHook(hook))
	}

	c, err := viewport.NewController(vctx, e.window, opts...)
	if err != nil {
		return fmt.Errorf("failed to mount scene: %w", err)
	}
	e.controller = c
	e.gui = gui
	return nil
}

func (e *engine) Run(ctx context.Context) error {
	if e.controller == nil {
		return ErrNotMounted
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panelErr := make(chan error, 1)
	if e.panelEnabled && e.gui != nil {
		srv := panel.NewServer(e.gui, e.panelOptions...)
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Printf("[Panel] %v", err)
				panelErr <- err
			}
		}()
	}

	loop := e.controller.Start()
	e.wg.Add(1)
	go e.handleQuit(ctx, loop)

	e.window.ProcessMessages()

	e.Quit()
	loop.Stop()
	cancel()
	e.wg.Wait()

	select {
	case err := <-panelErr:
		return err
	default:
		return nil
	}
}

// handleQuit waits for a stop signal, then stops the render loop and closes the window so
// ProcessMessages returns.
func (e *engine) handleQuit(ctx context.Context, loop *viewport.RenderLoop) {
	defer e.wg.Done()
	select {
	case <-ctx.Done():
	case <-e.quitChannel:
	case <-loop.Done():
	}
	loop.Stop()
	e.window.RequestClose()
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
