package viewport

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// ErrIncompleteContext is returned by NewController when a required collaborator is missing.
var ErrIncompleteContext = errors.New("viewport: incomplete context")

// RenderTarget is a drawable surface whose pixel size is owned by the controller once started.
type RenderTarget interface {
	// SetSize resizes the drawing surface.
	//
	// Parameters:
	//   - width, height: new size in pixels, both positive
	SetSize(width, height int)

	// Size returns the current drawing surface size in pixels.
	Size() (width, height int)

	// Render draws one frame of s as seen from cam.
	//
	// Returns:
	//   - error: error if the frame could not be produced
	Render(s *scene.Scene, cam *camera.PerspectiveCamera) error
}

// Controls advance interactive camera motion once per frame.
type Controls interface {
	// Update applies pending input and reports whether the camera moved.
	Update() bool
}

// Host is the display environment that schedules frames and reports size changes.
// engine/window.Window and ManualHost implement it.
type Host interface {
	// RequestFrame schedules fn to run once on the next display refresh.
	RequestFrame(fn func())

	// SetResizeCallback replaces the function called when the display area changes size.
	SetResizeCallback(fn func(width, height int))

	// Width returns the current display area width in pixels.
	Width() int

	// Height returns the current display area height in pixels.
	Height() int
}

// Context is everything a demo assembles and hands to the controller and the panel bindings.
// Controls is optional.
type Context struct {
	Scene    *scene.Scene
	Camera   *camera.PerspectiveCamera
	Target   RenderTarget
	Controls Controls
}

func (c Context) validate() error {
	switch {
	case c.Scene == nil:
		return errors.Join(ErrIncompleteContext, errors.New("scene is nil"))
	case c.Camera == nil:
		return errors.Join(ErrIncompleteContext, errors.New("camera is nil"))
	case c.Target == nil:
		return errors.Join(ErrIncompleteContext, errors.New("render target is nil"))
	}
	return nil
}

// Viewport is the size of the drawable area and the aspect ratio derived from it.
type Viewport struct {
	Width  int
	Height int
	Aspect float64
}

// State is the controller's lifecycle stage.
type State int32

const (
	// StateUninitialized is the stage before Start; resize events are ignored.
	StateUninitialized State = iota
	// StateRunning is the stage between Start and the loop observing Stop.
	StateRunning
	// StateStopped is terminal; the loop no longer renders or resizes.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
