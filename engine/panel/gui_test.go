package panel

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mode string

type params struct {
	Speed   float64
	Count   int
	Enabled bool
	Label   string
	Tint    common.Color
	Hex     string
	Mode    mode
	Reset   func()
	hidden  float64
}

func TestAddInfersKinds(t *testing.T) {
	g := NewGUI()
	p := &params{}

	assert.Equal(t, KindNumber, g.Add(p, "Speed").Kind())
	assert.Equal(t, KindNumber, g.Add(p, "Count").Kind())
	assert.Equal(t, KindBool, g.Add(p, "Enabled").Kind())
	assert.Equal(t, KindString, g.Add(p, "Label").Kind())
	assert.Equal(t, KindColor, g.Add(p, "Tint").Kind())
	assert.Equal(t, KindColor, g.AddColor(p, "Hex").Kind())
	assert.Equal(t, KindButton, g.Add(p, "Reset").Kind())
	assert.Equal(t, KindButton, g.AddButton("hello", func() {}).Kind())
}

func TestAddPanicsOnBadBinding(t *testing.T) {
	g := NewGUI()
	p := &params{}

	assert.Panics(t, func() { g.Add(*p, "Speed") })
	assert.Panics(t, func() { g.Add((*params)(nil), "Speed") })
	assert.Panics(t, func() { g.Add(p, "Missing") })
	assert.Panics(t, func() { g.Add(p, "hidden") })
	assert.Panics(t, func() { g.AddColor(p, "Speed") })
	assert.Panics(t, func() { g.Add(p, "Mode").Options(Option{Label: "bad", Value: 3}) })
}

func TestSetClampsNumbers(t *testing.T) {
	g := NewGUI()
	p := &params{}
	speed := g.Add(p, "Speed").Min(-5).Max(5).Step(0.1)
	count := g.Add(p, "Count").Range(0, 10)

	require.NoError(t, speed.Set(10))
	assert.Equal(t, 5.0, p.Speed)
	require.NoError(t, speed.Set(-7.5))
	assert.Equal(t, -5.0, p.Speed)
	require.NoError(t, speed.Set("2.5"))
	assert.Equal(t, 2.5, p.Speed)
	require.NoError(t, speed.Set(float32(1)))
	assert.Equal(t, 1.0, p.Speed)

	assert.ErrorIs(t, speed.Set(math.NaN()), ErrInvalidValue)
	assert.ErrorIs(t, speed.Set("fast"), ErrInvalidValue)
	assert.ErrorIs(t, speed.Set(true), ErrInvalidValue)
	assert.Equal(t, 1.0, p.Speed)

	require.NoError(t, count.Set(2.6))
	assert.Equal(t, 3, p.Count)
	require.NoError(t, count.Set(99))
	assert.Equal(t, 10, p.Count)
	assert.Equal(t, 10.0, count.Value())
}

func TestSetRejectsValuesOutsideFieldType(t *testing.T) {
	type narrow struct {
		Small int8
		Level uint8
		Ratio float32
		Wide  int
	}
	g := NewGUI()
	n := &narrow{Small: 1, Level: 2, Ratio: 0.5, Wide: 3}
	small := g.Add(n, "Small")
	level := g.Add(n, "Level")
	ratio := g.Add(n, "Ratio")
	wide := g.Add(n, "Wide")

	assert.ErrorIs(t, small.Set(300), ErrInvalidValue)
	assert.ErrorIs(t, small.Set(-129), ErrInvalidValue)
	assert.Equal(t, int8(1), n.Small)
	require.NoError(t, small.Set(-128))
	assert.Equal(t, int8(-128), n.Small)

	assert.ErrorIs(t, level.Set(256), ErrInvalidValue)
	assert.ErrorIs(t, level.Set(-1), ErrInvalidValue)
	assert.Equal(t, uint8(2), n.Level)

	assert.ErrorIs(t, ratio.Set(1e300), ErrInvalidValue)
	assert.Equal(t, float32(0.5), n.Ratio)

	assert.ErrorIs(t, wide.Set(1e30), ErrInvalidValue)
	assert.Equal(t, 3, n.Wide)

	// Bounds clamp first, so a bounded control never overflows.
	require.NoError(t, g.Add(n, "Level").Range(0, 100).Set(1e9))
	assert.Equal(t, uint8(100), n.Level)
}

func TestSetBoolStringAndColor(t *testing.T) {
	g := NewGUI()
	p := &params{Tint: common.Color{A: 0.5}, Hex: "#000000"}
	enabled := g.Add(p, "Enabled")
	label := g.Add(p, "Label")
	tint := g.Add(p, "Tint")
	hex := g.AddColor(p, "Hex")

	require.NoError(t, enabled.Set(true))
	assert.True(t, p.Enabled)
	require.NoError(t, enabled.Set("false"))
	assert.False(t, p.Enabled)
	assert.ErrorIs(t, enabled.Set(1), ErrInvalidValue)

	require.NoError(t, label.Set("hello"))
	assert.Equal(t, "hello", p.Label)
	assert.ErrorIs(t, label.Set(3), ErrInvalidValue)

	require.NoError(t, tint.Set("#ff0000"))
	assert.Equal(t, common.Color{R: 1, A: 0.5}, p.Tint)
	assert.Equal(t, "#ff0000", tint.Value())
	assert.ErrorIs(t, tint.Set("#nothex"), ErrInvalidValue)

	require.NoError(t, hex.Set("#0f0"))
	assert.Equal(t, "#00ff00", p.Hex)
}

func TestOptionsMatchValueOrLabel(t *testing.T) {
	g := NewGUI()
	p := &params{Mode: "srgb"}
	c := g.Add(p, "Mode").Options(
		Option{Label: "sRGB", Value: mode("srgb")},
		Option{Label: "Linear", Value: "linear"},
	)
	assert.Equal(t, KindOptions, c.Kind())

	require.NoError(t, c.Set("linear"))
	assert.Equal(t, mode("linear"), p.Mode)
	require.NoError(t, c.Set("sRGB"))
	assert.Equal(t, mode("srgb"), p.Mode)
	assert.ErrorIs(t, c.Set("display-p3"), ErrInvalidValue)
	assert.Equal(t, mode("srgb"), p.Mode)
}

func TestNumericOptions(t *testing.T) {
	g := NewGUI()
	p := &params{}
	c := g.Add(p, "Count").Options(Option{Label: "one", Value: 1}, Option{Label: "four", Value: 4})

	require.NoError(t, c.Set(4.0))
	assert.Equal(t, 4, p.Count)
	assert.ErrorIs(t, c.Set(2), ErrInvalidValue)
}

func TestOnChangeAndButtons(t *testing.T) {
	g := NewGUI()
	p := &params{}
	var got []any
	g.Add(p, "Speed").Name("speed").OnChange(func(v any) { got = append(got, v) })

	resets := 0
	p.Reset = func() { resets++ }
	reset := g.Add(p, "Reset")
	hellos := 0
	hello := g.AddButton("hello", func() { hellos++ }).OnChange(func(v any) { got = append(got, v) })

	c, ok := g.Find("", "speed")
	require.True(t, ok)
	require.NoError(t, g.Set(c.ID(), 3))
	require.NoError(t, g.Invoke(reset.ID()))
	require.NoError(t, g.Invoke(hello.ID()))

	assert.Equal(t, []any{3.0, nil}, got)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 1, hellos)
}

func TestUnknownControl(t *testing.T) {
	g := NewGUI()
	p := &params{}
	speed := g.Add(p, "Speed")

	assert.ErrorIs(t, g.Set("nope", 1), ErrUnknownControl)
	assert.ErrorIs(t, g.Invoke(speed.ID()), ErrUnknownControl)
	assert.ErrorIs(t, g.Enqueue("nope", 1), ErrUnknownControl)
	assert.ErrorIs(t, g.EnqueueInvoke(speed.ID()), ErrInvalidValue)
}

func TestFlushAppliesLastWriteInFirstQueuedOrder(t *testing.T) {
	g := NewGUI()
	p := &params{}
	var order []string
	speed := g.Add(p, "Speed").OnChange(func(any) { order = append(order, "speed") })
	count := g.Add(p, "Count").OnChange(func(any) { order = append(order, "count") })

	require.NoError(t, g.Enqueue(speed.ID(), 1))
	require.NoError(t, g.Enqueue(count.ID(), 2))
	require.NoError(t, g.Enqueue(speed.ID(), 3))
	assert.Equal(t, 0.0, p.Speed, "edits wait for Flush")

	require.NoError(t, g.Flush())
	assert.Equal(t, 3.0, p.Speed)
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, []string{"speed", "count"}, order)

	require.NoError(t, g.Flush())
	assert.Len(t, order, 2)
}

func TestFlushReportsRejectedEdits(t *testing.T) {
	g := NewGUI()
	p := &params{}
	speed := g.Add(p, "Speed")
	count := g.Add(p, "Count")

	require.NoError(t, g.Enqueue(speed.ID(), "fast"))
	require.NoError(t, g.Enqueue(count.ID(), 5))

	err := g.Flush()
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, 5, p.Count, "valid edits still apply")
}

func TestSnapshotAndPublishedVersion(t *testing.T) {
	g := NewGUI(WithTitle("Box"))
	p := &params{Speed: 1}
	folder := g.AddFolder("Cube")
	nested := folder.AddFolder("Scale").Close()
	speed := folder.Add(p, "Speed").Range(0, 2)
	count := nested.Add(p, "Count").Listen()

	snap := g.Snapshot()
	assert.Equal(t, "Box", snap.Title)
	assert.Equal(t, []FolderState{{Path: "Cube", Open: true}, {Path: "Cube/Scale", Open: false}}, snap.Folders)
	require.Len(t, snap.Controls, 2)
	assert.Equal(t, speed.ID(), snap.Controls[0].ID)
	assert.Equal(t, "Cube", snap.Controls[0].Folder)
	assert.Equal(t, 1.0, snap.Controls[0].Value)
	assert.Equal(t, 2.0, *snap.Controls[0].Max)
	assert.Equal(t, "Cube/Scale", snap.Controls[1].Folder)

	_, v0 := g.Published()
	require.NoError(t, g.Flush())
	_, v1 := g.Published()
	assert.Greater(t, v1, v0)
	require.NoError(t, g.Flush())
	_, v2 := g.Published()
	assert.Equal(t, v1, v2, "unchanged state keeps its version")

	// Only listened controls notice changes made outside the panel.
	p.Speed = 1.5
	p.Count = 7
	require.NoError(t, g.Flush())
	published, v3 := g.Published()
	assert.Greater(t, v3, v2)
	assert.Equal(t, 1.0, published.Controls[0].Value)
	assert.Equal(t, 7.0, published.Controls[1].Value)
	assert.True(t, published.Controls[1].Listen)

	require.NoError(t, g.Enqueue(speed.ID(), 0.25))
	require.NoError(t, g.Flush())
	published, _ = g.Published()
	assert.Equal(t, 0.25, published.Controls[0].Value)
	assert.Equal(t, count.ID(), published.Controls[1].ID)
}
