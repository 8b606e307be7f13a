package controls

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// InputSource is the subset of window events the orbit controls listen to.
// engine/window.Window satisfies it.
type InputSource interface {
	// Height returns the viewport height in pixels, used to scale drags.
	Height() int

	SetMouseDownCallback(callback func(button common.MouseButton, x, y int32))
	SetMouseUpCallback(callback func(button common.MouseButton, x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
}

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

type inputState struct {
	keys   map[uint32]bool
	drag   dragMode
	lastX  int32
	lastY  int32
	height func() int
}

func newInputState() inputState {
	return inputState{keys: make(map[uint32]bool), height: func() int { return 1 }}
}

// Bind wires pointer and keyboard events from src to the controls:
// left drag orbits, right or middle drag pans, scrolling dollies, held A/D and Q/E pan
// and held W/S dolly. Events are expected on the render thread.
//
// Parameters:
//   - src: the event source, usually the window
func (c *OrbitControls) Bind(src InputSource) {
	in := &c.input
	in.height = src.Height

	src.SetMouseDownCallback(func(button common.MouseButton, x, y int32) {
		switch button {
		case common.MouseButtonLeft:
			in.drag = dragRotate
		case common.MouseButtonRight, common.MouseButtonMiddle:
			in.drag = dragPan
		default:
			return
		}
		in.lastX, in.lastY = x, y
	})

	src.SetMouseUpCallback(func(_ common.MouseButton, _, _ int32) {
		in.drag = dragNone
	})

	src.SetMouseMoveCallback(func(x, y int32) {
		if !c.Enabled || in.drag == dragNone {
			return
		}
		dx, dy := float64(x-in.lastX), float64(y-in.lastY)
		in.lastX, in.lastY = x, y
		h := float64(max(in.height(), 1))

		switch in.drag {
		case dragRotate:
			c.RotateLeft(2 * math.Pi * dx / h * c.RotateSpeed)
			c.RotateUp(2 * math.Pi * dy / h * c.RotateSpeed)
		case dragPan:
			c.Pan(dx, dy, int(h))
		}
	})

	src.SetScrollCallback(func(delta float32) {
		if !c.Enabled || delta == 0 {
			return
		}
		step := math.Pow(0.95, c.ZoomSpeed)
		if delta > 0 {
			c.Dolly(step)
		} else {
			c.Dolly(1 / step)
		}
	})

	src.SetKeyDownCallback(func(keyCode uint32) {
		in.keys[keyCode] = true
	})

	src.SetKeyUpCallback(func(keyCode uint32) {
		in.keys[keyCode] = false
	})
}

// applyHeldKeys turns held pan keys into one frame's worth of pan.
func (in *inputState) applyHeldKeys(c *OrbitControls) {
	var dx, dy float64
	if in.keys[common.KeyA] {
		dx += c.KeyPanSpeed
	}
	if in.keys[common.KeyD] {
		dx -= c.KeyPanSpeed
	}
	if in.keys[common.KeyQ] {
		dy += c.KeyPanSpeed
	}
	if in.keys[common.KeyE] {
		dy -= c.KeyPanSpeed
	}
	if dx != 0 || dy != 0 {
		c.Pan(dx, dy, in.height())
	}
	if in.keys[common.KeyW] {
		c.Dolly(0.98)
	}
	if in.keys[common.KeyS] {
		c.Dolly(1 / 0.98)
	}
}
