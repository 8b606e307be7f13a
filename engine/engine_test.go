package engine

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow pumps ManualHost frames until closed.
type fakeWindow struct {
	*viewport.ManualHost

	mu     sync.Mutex
	closed bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{ManualHost: viewport.NewManualHost(640, 480)}
}

func (w *fakeWindow) SetUpdateCallback(func())                                    {}
func (w *fakeWindow) SetScrollCallback(func(float32))                             {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32))                             {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32))                               {}
func (w *fakeWindow) SetMouseDownCallback(func(common.MouseButton, int32, int32)) {}
func (w *fakeWindow) SetMouseUpCallback(func(common.MouseButton, int32, int32))   {}
func (w *fakeWindow) SetMouseMoveCallback(func(int32, int32))                     {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor                  { return nil }
func (w *fakeWindow) Close() error                                                { return nil }

func (w *fakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.Step()
		runtime.Gosched()
	}
}

type countingTarget struct {
	mu      sync.Mutex
	w, h    int
	renders int
}

func (t *countingTarget) SetSize(w, h int) {
	t.mu.Lock()
	t.w, t.h = w, h
	t.mu.Unlock()
}

func (t *countingTarget) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w, t.h
}

func (t *countingTarget) Render(*scene.Scene, *camera.PerspectiveCamera) error {
	t.mu.Lock()
	t.renders++
	t.mu.Unlock()
	return nil
}

func newContext() viewport.Context {
	return viewport.Context{
		Scene:  scene.NewScene(),
		Camera: camera.NewPerspectiveCamera(75, 1, 0.1, 1000, camera.WithPosition(2, 2, 5)),
	}
}

// quitAfter returns a frame hook that calls stop once it has run n times.
func quitAfter(n int, stop func()) func() {
	frames := 0
	return func() {
		frames++
		if frames == n {
			stop()
		}
	}
}

func TestNewEngineRequiresWindowAndTarget(t *testing.T) {
	_, err := NewEngine(WithRenderTarget(&countingTarget{}))
	assert.Error(t, err)
	_, err = NewEngine(WithWindow(newFakeWindow()))
	assert.Error(t, err)
}

func TestRunWithoutMount(t *testing.T) {
	e, err := NewEngine(WithWindow(newFakeWindow()), WithRenderTarget(&countingTarget{}))
	require.NoError(t, err)
	assert.ErrorIs(t, e.Run(context.Background()), ErrNotMounted)
}

func TestRunUntilQuit(t *testing.T) {
	target := &countingTarget{}
	e, err := NewEngine(WithWindow(newFakeWindow()), WithRenderTarget(target), WithProfiling(true, profiler.WithQuiet()))
	require.NoError(t, err)

	gui := panel.NewGUI()
	cam := newContext()
	c := gui.Add(&cam.Camera.Position, "X")
	require.NoError(t, gui.Enqueue(c.ID(), 4))

	require.NoError(t, e.Mount(cam, gui, quitAfter(3, e.Quit)))
	require.NotNil(t, e.Controller())

	require.NoError(t, e.Run(context.Background()))
	assert.GreaterOrEqual(t, target.renders, 3)
	assert.Equal(t, 4.0, cam.Camera.Position.X)
	w, h := target.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	e.Quit()
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, err := NewEngine(WithWindow(newFakeWindow()), WithRenderTarget(&countingTarget{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Mount(newContext(), nil, quitAfter(2, cancel)))
	assert.NoError(t, e.Run(ctx))
}

func TestRunPollsLoader(t *testing.T) {
	l := loader.NewTextureLoader(loader.WithBaseDir(t.TempDir()))
	defer l.Close()
	e, err := NewEngine(WithWindow(newFakeWindow()), WithRenderTarget(&countingTarget{}), WithLoader(l))
	require.NoError(t, err)
	assert.Same(t, l, e.Loader())

	var loadErr error
	l.Load("missing.png", nil, func(err error) {
		loadErr = err
		e.Quit()
	})

	require.NoError(t, e.Mount(newContext(), nil))
	require.NoError(t, e.Run(context.Background()))
	assert.Error(t, loadErr)
}

func TestRunServesPanel(t *testing.T) {
	e, err := NewEngine(
		WithWindow(newFakeWindow()),
		WithRenderTarget(&countingTarget{}),
		WithPanel(true, panel.WithAddr("127.0.0.1:0")),
	)
	require.NoError(t, err)
	require.NoError(t, e.Mount(newContext(), panel.NewGUI(), quitAfter(5, e.Quit)))
	assert.NoError(t, e.Run(context.Background()))
}

func TestRunReportsPanelFailure(t *testing.T) {
	e, err := NewEngine(
		WithWindow(newFakeWindow()),
		WithRenderTarget(&countingTarget{}),
		WithPanel(true, panel.WithAddr("not-an-address")),
		WithVerbose(true),
	)
	require.NoError(t, err)

	require.NoError(t, e.Mount(newContext(), panel.NewGUI(), quitAfter(50, e.Quit)))
	assert.Error(t, e.Run(context.Background()))
}
