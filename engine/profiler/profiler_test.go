package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsAtInterval(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler(WithInterval(time.Second), WithQuiet(), WithClock(clk.now))

	clk.advance(10 * time.Millisecond)
	require.False(t, p.Tick())
	for i := 0; i < 8; i++ {
		clk.advance(100 * time.Millisecond)
		require.False(t, p.Tick())
	}
	clk.advance(190 * time.Millisecond)
	require.True(t, p.Tick())

	s := p.Last()
	assert.Equal(t, 10, s.Frames)
	assert.InDelta(t, 10, s.FPS, 1e-9)
	assert.Equal(t, 100*time.Millisecond, s.MinFrame)
	assert.Equal(t, 190*time.Millisecond, s.MaxFrame)
	assert.Greater(t, s.SysMB, 0.0)
}

func TestTickResetsWindow(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(500*time.Millisecond), WithQuiet(), WithClock(clk.now))

	clk.advance(600 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Equal(t, 1, p.Last().Frames)

	clk.advance(100 * time.Millisecond)
	assert.False(t, p.Tick())
	clk.advance(400 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Equal(t, 2, p.Last().Frames)
	assert.Equal(t, 100*time.Millisecond, p.Last().MinFrame)
	assert.Equal(t, 400*time.Millisecond, p.Last().MaxFrame)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
