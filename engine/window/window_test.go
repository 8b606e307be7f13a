package window

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFramesDefersRescheduledCallbacks(t *testing.T) {
	w := &engineWindow{}
	var calls int
	var frame func()
	frame = func() {
		calls++
		w.RequestFrame(frame)
	}
	w.RequestFrame(frame)
	w.RequestFrame(nil)

	w.runFrames()
	assert.Equal(t, 1, calls)
	w.runFrames()
	assert.Equal(t, 2, calls)
	assert.Len(t, w.pendingFrames, 1)
}

func TestRequestFrameFromManyGoroutines(t *testing.T) {
	w := &engineWindow{}
	var mu sync.Mutex
	var calls int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.RequestFrame(func() {
				mu.Lock()
				calls++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	w.runFrames()
	assert.Equal(t, 16, calls)
}

func TestUninitializedWindowIsNotRunning(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())

	w.RequestClose()
	assert.True(t, w.closeRequested)
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("sandbox"),
		WithSize(800, 600),
		WithMinSize(100, 50),
		WithMaxSize(1920, 1080),
	} {
		opt(w)
	}
	assert.Equal(t, "sandbox", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 1080, w.maxHeight)
}
