package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxGeometryCounts(t *testing.T) {
	g := NewBoxGeometry(2, 4, 6)
	assert.Equal(t, 24, g.VertexCount())
	assert.Len(t, g.Indices, 36)
	assert.Len(t, g.Normals, 24*3)
	assert.Len(t, g.UVs, 24*2)

	for i := 0; i < g.VertexCount(); i++ {
		assert.InDelta(t, 1, abs32(g.Positions[i*3]), 1e-6)
		assert.InDelta(t, 2, abs32(g.Positions[i*3+1]), 1e-6)
		assert.InDelta(t, 3, abs32(g.Positions[i*3+2]), 1e-6)
	}
}

func TestBoxGeometryWindingMatchesNormals(t *testing.T) {
	g := NewBoxGeometry(1, 1, 1)
	for i := 0; i < len(g.Indices); i += 3 {
		a, b, c := vertex(g, g.Indices[i]), vertex(g, g.Indices[i+1]), vertex(g, g.Indices[i+2])
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		ni := g.Indices[i] * 3
		want := common.V3(float64(g.Normals[ni]), float64(g.Normals[ni+1]), float64(g.Normals[ni+2]))
		assert.InDelta(t, 1, n.Dot(want), 1e-6, "triangle %d", i/3)
	}
}

func TestPlaneGeometry(t *testing.T) {
	g := NewPlaneGeometry(1, 1)
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, g.Indices)
	for i := 0; i < 4; i++ {
		assert.Zero(t, g.Positions[i*3+2])
		assert.Equal(t, float32(1), g.Normals[i*3+2])
	}
}

func TestWireframeIndices(t *testing.T) {
	plane := NewPlaneGeometry(1, 1)
	assert.Equal(t, []uint32{0, 1, 0, 2, 0, 3, 1, 2, 2, 3}, plane.WireframeIndices())

	box := NewBoxGeometry(1, 1, 1)
	assert.Len(t, box.WireframeIndices(), 60)

	axes := NewAxesHelper(10)
	assert.Equal(t, axes.Geometry.Indices, axes.Geometry.WireframeIndices())
}

func TestAxesHelper(t *testing.T) {
	axes := NewAxesHelper(100)
	assert.Equal(t, TopologyLines, axes.Geometry.Topology)
	assert.True(t, axes.Material.VertexColors)
	assert.Equal(t, float32(100), axes.Geometry.Positions[3])
	assert.Equal(t, float32(100), axes.Geometry.Positions[10])
	assert.Equal(t, float32(100), axes.Geometry.Positions[17])
}

func TestAddReparents(t *testing.T) {
	a := NewObject3D("a")
	b := NewObject3D("b")
	child := NewMesh(NewBoxGeometry(1, 1, 1), nil)

	a.Add(child)
	require.Same(t, a, child.Parent())

	b.Add(child)
	assert.Same(t, b, child.Parent())
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)

	b.Add(b)
	assert.Len(t, b.Children(), 1)

	assert.True(t, b.Remove(child))
	assert.Nil(t, child.Parent())
	assert.False(t, b.Remove(child))
}

func TestMeshesAppliesParentTransform(t *testing.T) {
	s := NewScene()
	parent := NewMesh(NewBoxGeometry(1, 1, 1), nil)
	parent.Position = common.V3(1, 0, 0)
	parent.Scale = common.V3(2, 2, 2)
	child := NewMesh(NewBoxGeometry(0.5, 0.5, 0.5), nil)
	child.Position = common.V3(0, 1, 0)
	parent.Add(child)
	s.Add(parent)

	items := s.Meshes()
	require.Len(t, items, 2)
	assert.Same(t, parent, items[0].Mesh)
	assert.Same(t, child, items[1].Mesh)

	// child origin: parent translation + parent scale * child translation
	w := items[1].World
	assert.InDelta(t, 1, w[12], 1e-6)
	assert.InDelta(t, 2, w[13], 1e-6)
	assert.InDelta(t, 0, w[14], 1e-6)
	assert.InDelta(t, 2, w[0], 1e-6)
}

func TestMeshesSkipsInvisibleSubtree(t *testing.T) {
	s := NewScene()
	parent := NewMesh(NewBoxGeometry(1, 1, 1), nil)
	parent.Add(NewMesh(NewBoxGeometry(1, 1, 1), nil))
	s.Add(parent, NewAxesHelper(1))

	assert.Len(t, s.Meshes(), 3)
	parent.Visible = false
	assert.Len(t, s.Meshes(), 1)
}

func TestMaterialDefaults(t *testing.T) {
	m := NewBasicMaterial()
	assert.Equal(t, common.ColorFromHex(0xffffff), m.Color)
	assert.Equal(t, float32(1), m.EffectiveOpacity())

	m = NewBasicMaterial(WithOpacity(0.5))
	assert.Equal(t, float32(1), m.EffectiveOpacity())
	m.Transparent = true
	assert.Equal(t, float32(0.5), m.EffectiveOpacity())
}

func TestTextureLifecycle(t *testing.T) {
	tex := NewTexture("bricks")
	assert.Equal(t, TexturePending, tex.State())
	assert.False(t, tex.Ready())

	tex.Fail(errors.New("boom"))
	assert.Equal(t, TextureFailed, tex.State())
	assert.EqualError(t, tex.Err(), "boom")

	v := tex.Version()
	tex.SetImage(1, 1, []byte{255, 255, 255, 255})
	assert.True(t, tex.Ready())
	assert.NoError(t, tex.Err())
	assert.Greater(t, tex.Version(), v)

	// a failed reload keeps the last good image
	tex.Fail(errors.New("reload"))
	assert.True(t, tex.Ready())
	w, h := tex.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	v = tex.Version()
	tex.NeedsUpdate()
	assert.Equal(t, v+1, tex.Version())

	var nilTex *Texture
	assert.False(t, nilTex.Ready())
}

func vertex(g *Geometry, i uint32) common.Vec3 {
	return common.V3(float64(g.Positions[i*3]), float64(g.Positions[i*3+1]), float64(g.Positions[i*3+2]))
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
