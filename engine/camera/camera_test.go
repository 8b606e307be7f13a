package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerspectiveCamera(t *testing.T) {
	c := NewPerspectiveCamera(75, 800.0/600.0, 0.1, 1000, WithPosition(2, 2, 5))

	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-12)
	assert.Equal(t, common.V3(2, 2, 5), c.Position)
	assert.Equal(t, common.V3(0, 1, 0), c.Up)

	f := 1 / math.Tan(75*math.Pi/180/2)
	p := c.ProjectionMatrix()
	assert.InDelta(t, f/(800.0/600.0), p[0], 1e-5)
	assert.InDelta(t, f, p[5], 1e-5)
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 1000)
	before := c.ProjectionMatrix()

	c.SetAspect(2)
	after := c.ProjectionMatrix()
	assert.Equal(t, 2.0, c.Aspect())
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewPerspectiveCamera(75, 1.5, 0.1, 1000)
	for _, a := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		c.SetAspect(a)
		assert.Equal(t, 1.5, c.Aspect())
	}
}

func TestUpdateProjectionMatrixAfterFovChange(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 1000)
	c.Fov = 90
	c.UpdateProjectionMatrix()
	assert.InDelta(t, 1.0, c.ProjectionMatrix()[5], 1e-6)
}

func TestLookAtUpdatesViewProjection(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.5, 50, WithPosition(0, 0, 5))
	c.LookAt(common.V3(0, 0, 0))
	assert.Equal(t, common.V3(0, 0, 0), c.Target())

	vp := c.ViewProjectionMatrix()
	inv := c.InverseViewProjectionMatrix()
	var prod [16]float32
	common.Mul4(prod[:], vp[:], inv[:])
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, prod[i], 1e-3, "element %d", i)
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewPerspectiveCamera(60, 1, 0.1, 100, WithPosition(1, 2, 3))
	u := NewGPUCameraUniform(c)
	require.Equal(t, 144, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[132:])))
	assert.Equal(t, u.ViewProj[5], math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
}
