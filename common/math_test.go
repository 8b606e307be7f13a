package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, prod, id [16]float32
	BuildModelMatrix(m[:], V3(1, -2, 3), V3(0.3, 0.7, -0.2), V3(2, 0.5, 1.5))
	require.True(t, Invert4(inv[:], m[:]))
	Mul4(prod[:], m[:], inv[:])
	Identity(id[:])
	for i := range prod {
		assert.InDelta(t, id[i], prod[i], tol, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
}

func TestPerspective(t *testing.T) {
	var p [16]float32
	Perspective(p[:], math.Pi/2, 2, 0.1, 100)
	assert.InDelta(t, 0.5, p[0], tol)
	assert.InDelta(t, 1.0, p[5], tol)
	assert.Equal(t, float32(-1), p[11])
	assert.Equal(t, float32(0), p[15])
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var v [16]float32
	eye := V3(2, 2, 5)
	LookAt(v[:], eye, V3(0, 0, 0), V3(0, 1, 0))

	// transform the eye position: should land at the view-space origin
	x := v[0]*float32(eye.X) + v[4]*float32(eye.Y) + v[8]*float32(eye.Z) + v[12]
	y := v[1]*float32(eye.X) + v[5]*float32(eye.Y) + v[9]*float32(eye.Z) + v[13]
	z := v[2]*float32(eye.X) + v[6]*float32(eye.Y) + v[10]*float32(eye.Z) + v[14]
	assert.InDelta(t, 0, x, tol)
	assert.InDelta(t, 0, y, tol)
	assert.InDelta(t, 0, z, tol)

	// the target lies straight ahead on -Z
	tz := v[14]
	assert.Less(t, tz, float32(0))
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], V3(1, 2, 3), Vec3{}, V3(2, 3, 4))
	assert.Equal(t, [16]float32{2, 0, 0, 0, 0, 3, 0, 0, 0, 0, 4, 0, 1, 2, 3, 1}, m)
}

func TestVec3(t *testing.T) {
	a := V3(1, 0, 0)
	b := V3(0, 1, 0)
	assert.Equal(t, V3(0, 0, 1), a.Cross(b))
	assert.Equal(t, 0.0, a.Dot(b))
	assert.InDelta(t, 1.0, V3(3, 4, 12).Normalize().Length(), 1e-12)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())

	var v Vec3
	v.Set(1, 2, 3)
	assert.Equal(t, V3(2, 4, 6), v.Add(v))
	assert.Equal(t, Vec3{}, v.Sub(v))
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 5, Clamp(10, 0, 5))
	assert.Equal(t, -1.0, Clamp(-3.0, -1, 1))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
