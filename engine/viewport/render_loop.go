package viewport

import (
	"sync"
	"sync/atomic"
)

// RenderLoop is the handle to a controller's running frame loop.
type RenderLoop struct {
	stop     atomic.Bool
	frames   atomic.Uint64
	done     chan struct{}
	doneOnce sync.Once
}

func newRenderLoop() *RenderLoop {
	return &RenderLoop{done: make(chan struct{})}
}

// Stop asks the loop to end. The flag is checked at the start of the next frame, so at most
// the frame already in progress completes. Safe to call from any goroutine and more than once.
func (l *RenderLoop) Stop() {
	l.stop.Store(true)
}

// Done returns a channel closed once the loop has observed Stop and will not render again.
func (l *RenderLoop) Done() <-chan struct{} {
	return l.done
}

// Frames returns the number of frames rendered so far. Iterations whose Render failed are not
// counted.
func (l *RenderLoop) Frames() uint64 {
	return l.frames.Load()
}

func (l *RenderLoop) stopRequested() bool {
	return l.stop.Load()
}

func (l *RenderLoop) finish() {
	l.doneOnce.Do(func() {
		close(l.done)
	})
}
