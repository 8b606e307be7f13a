package controls

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() *camera.PerspectiveCamera {
	return camera.NewPerspectiveCamera(75, 1, 0.1, 1000, camera.WithPosition(0, 0, 5))
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	assert.False(t, c.Update())
	assert.InDelta(t, 0, cam.Position.X, 1e-9)
	assert.InDelta(t, 0, cam.Position.Y, 1e-9)
	assert.InDelta(t, 5, cam.Position.Z, 1e-9)
}

func TestRotateLeftWithoutDamping(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	c.RotateLeft(0.5)
	require.True(t, c.Update())
	assert.InDelta(t, 5*math.Sin(-0.5), cam.Position.X, 1e-9)
	assert.InDelta(t, 5*math.Cos(-0.5), cam.Position.Z, 1e-9)
	assert.InDelta(t, 5, cam.Position.Length(), 1e-9)

	assert.False(t, c.Update())
}

func TestDampingConvergesToFullRotation(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam, WithDamping(0.05))

	c.RotateLeft(1)
	require.True(t, c.Update())
	first := math.Atan2(cam.Position.X, cam.Position.Z)
	assert.InDelta(t, -0.05, first, 1e-9)

	for i := 0; i < 1000; i++ {
		c.Update()
	}
	assert.InDelta(t, -1, math.Atan2(cam.Position.X, cam.Position.Z), 1e-6)
	assert.False(t, c.Update())
}

func TestPolarClamp(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam, WithPolarLimits(0, math.Pi/2))

	c.RotateUp(-2)
	c.Update()
	assert.GreaterOrEqual(t, cam.Position.Y, -1e-9)
}

func TestDollyRespectsDistanceLimits(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam, WithDistanceLimits(2, 8))

	c.Dolly(0.5)
	c.Update()
	assert.InDelta(t, 2.5, cam.Position.Length(), 1e-9)

	c.Dolly(0.1)
	c.Update()
	assert.InDelta(t, 2, cam.Position.Length(), 1e-9)

	c.Dolly(100)
	c.Update()
	assert.InDelta(t, 8, cam.Position.Length(), 1e-9)

	c.Dolly(-1)
	assert.False(t, c.Update())
}

func TestPanMovesTargetAndCamera(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	c.Pan(-100, 0, 600)
	require.True(t, c.Update())
	assert.Greater(t, c.Target.X, 0.0)
	assert.InDelta(t, c.Target.X, cam.Position.X, 1e-9)
	assert.InDelta(t, 0, c.Target.Y, 1e-9)
	assert.InDelta(t, cam.Target().X, c.Target.X, 1e-9)
}

func TestUpdateHonoursExternalEdits(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam, WithDamping(0.05))

	cam.Position = common.V3(3, 0, 4)
	c.Target = common.V3(0, 0, 0)
	c.Update()
	assert.InDelta(t, 3, cam.Position.X, 1e-9)
	assert.InDelta(t, 4, cam.Position.Z, 1e-9)

	c.Target = common.V3(1, 0, 0)
	c.Update()
	assert.InDelta(t, 1, cam.Target().X, 1e-9)
}

func TestDisabledControlsIgnoreInput(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	c.Enabled = false

	c.RotateLeft(1)
	assert.False(t, c.Update())
	assert.InDelta(t, 5, cam.Position.Z, 1e-9)
}

type fakeInput struct {
	height    int
	mouseDown func(common.MouseButton, int32, int32)
	mouseUp   func(common.MouseButton, int32, int32)
	mouseMove func(int32, int32)
	scroll    func(float32)
	keyDown   func(uint32)
	keyUp     func(uint32)
}

func (f *fakeInput) Height() int { return f.height }
func (f *fakeInput) SetMouseDownCallback(cb func(common.MouseButton, int32, int32)) {
	f.mouseDown = cb
}
func (f *fakeInput) SetMouseUpCallback(cb func(common.MouseButton, int32, int32)) { f.mouseUp = cb }
func (f *fakeInput) SetMouseMoveCallback(cb func(int32, int32))                   { f.mouseMove = cb }
func (f *fakeInput) SetScrollCallback(cb func(float32))                           { f.scroll = cb }
func (f *fakeInput) SetKeyDownCallback(cb func(uint32))                           { f.keyDown = cb }
func (f *fakeInput) SetKeyUpCallback(cb func(uint32))                             { f.keyUp = cb }

func TestBindLeftDragRotates(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	in := &fakeInput{height: 600}
	c.Bind(in)

	in.mouseDown(common.MouseButtonLeft, 100, 100)
	in.mouseMove(130, 100)
	in.mouseUp(common.MouseButtonLeft, 130, 100)
	in.mouseMove(400, 100)

	require.True(t, c.Update())
	want := -2 * math.Pi * 30 / 600
	assert.InDelta(t, want, math.Atan2(cam.Position.X, cam.Position.Z), 1e-9)
}

func TestBindScrollDollies(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	in := &fakeInput{height: 600}
	c.Bind(in)

	in.scroll(1)
	c.Update()
	assert.InDelta(t, 5*0.95, cam.Position.Length(), 1e-9)

	in.scroll(-1)
	c.Update()
	assert.InDelta(t, 5, cam.Position.Length(), 1e-9)
}

func TestBindHeldKeysPan(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	in := &fakeInput{height: 600}
	c.Bind(in)

	in.keyDown(common.KeyD)
	c.Update()
	x := c.Target.X
	assert.Greater(t, x, 0.0)

	in.keyUp(common.KeyD)
	c.Update()
	assert.InDelta(t, x, c.Target.X, 1e-12)
}
