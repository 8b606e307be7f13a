package scene

import (
	"sort"
)

// Topology selects how a Geometry's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangles treats every three indices as one triangle.
	TopologyTriangles Topology = iota
	// TopologyLines treats every two indices as one line segment.
	TopologyLines
)

// Geometry holds flat vertex attribute arrays and an index list.
// Positions and Normals are xyz triples, UVs are uv pairs and Colors are rgb triples.
// Normals, UVs and Colors may be empty.
type Geometry struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32
	Topology  Topology

	wireframe []uint32
}

// VertexCount returns the number of vertices described by Positions.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// WireframeIndices returns a line-list index buffer containing each unique triangle edge once.
// Line geometries are returned unchanged. The result is cached on first use.
//
// Returns:
//   - []uint32: pairs of vertex indices
func (g *Geometry) WireframeIndices() []uint32 {
	if g.Topology == TopologyLines {
		return g.Indices
	}
	if g.wireframe != nil {
		return g.wireframe
	}

	seen := make(map[[2]uint32]struct{}, len(g.Indices))
	edges := make([][2]uint32, 0, len(g.Indices))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		tri := [3]uint32{g.Indices[i], g.Indices[i+1], g.Indices[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]uint32{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	g.wireframe = make([]uint32, 0, len(edges)*2)
	for _, e := range edges {
		g.wireframe = append(g.wireframe, e[0], e[1])
	}
	return g.wireframe
}

// boxFace describes one side of a unit cube: its outward normal and the two in-plane axes,
// ordered so that u x v == normal and the quad winds counter-clockwise seen from outside.
type boxFace struct {
	n, u, v [3]float32
}

var boxFaces = [6]boxFace{
	{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

// quad corners in (s, t) order: bottom-left, bottom-right, top-right, top-left.
var quadCorners = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// NewBoxGeometry builds an axis-aligned box centered on the origin with four unshared
// vertices per face (24 vertices, 36 indices) so each face carries its own normal and UVs.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//
// Returns:
//   - *Geometry: the box geometry
func NewBoxGeometry(width, height, depth float64) *Geometry {
	half := [3]float32{float32(width / 2), float32(height / 2), float32(depth / 2)}
	g := &Geometry{
		Positions: make([]float32, 0, 24*3),
		Normals:   make([]float32, 0, 24*3),
		UVs:       make([]float32, 0, 24*2),
		Indices:   make([]uint32, 0, 36),
	}
	for _, f := range boxFaces {
		base := uint32(g.VertexCount())
		for _, c := range quadCorners {
			s, t := c[0], c[1]
			for axis := 0; axis < 3; axis++ {
				g.Positions = append(g.Positions, (f.n[axis]+f.u[axis]*s+f.v[axis]*t)*half[axis])
			}
			g.Normals = append(g.Normals, f.n[0], f.n[1], f.n[2])
			g.UVs = append(g.UVs, (s+1)/2, (1-t)/2)
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewPlaneGeometry builds a width x height quad in the XY plane facing +Z.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//
// Returns:
//   - *Geometry: the plane geometry
func NewPlaneGeometry(width, height float64) *Geometry {
	hw, hh := float32(width/2), float32(height/2)
	g := &Geometry{
		Positions: make([]float32, 0, 4*3),
		Normals:   make([]float32, 0, 4*3),
		UVs:       make([]float32, 0, 4*2),
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	for _, c := range quadCorners {
		s, t := c[0], c[1]
		g.Positions = append(g.Positions, s*hw, t*hh, 0)
		g.Normals = append(g.Normals, 0, 0, 1)
		g.UVs = append(g.UVs, (s+1)/2, (1-t)/2)
	}
	return g
}

// NewAxesHelper builds a line mesh showing the X (red), Y (green) and Z (blue) axes
// from the origin out to size.
//
// Parameters:
//   - size: length of each axis line
//
// Returns:
//   - *Mesh: a mesh with line topology and vertex colors enabled
func NewAxesHelper(size float64) *Mesh {
	s := float32(size)
	g := &Geometry{
		Positions: []float32{
			0, 0, 0, s, 0, 0,
			0, 0, 0, 0, s, 0,
			0, 0, 0, 0, 0, s,
		},
		Colors: []float32{
			1, 0, 0, 1, 0.6, 0,
			0, 1, 0, 0.6, 1, 0,
			0, 0, 1, 0, 0.6, 1,
		},
		Indices:  []uint32{0, 1, 2, 3, 4, 5},
		Topology: TopologyLines,
	}
	m := NewMesh(g, NewBasicMaterial(WithVertexColors(true)))
	m.Name = "axes"
	return m
}
