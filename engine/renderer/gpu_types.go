package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// basicShaderSource draws meshes with BasicMaterial shading.
//
//go:embed assets/basic.wgsl
var basicShaderSource string

// backgroundShaderSource draws the scene background texture behind everything else.
//
//go:embed assets/background.wgsl
var backgroundShaderSource string

// vertexStride is the size of one interleaved vertex: position, normal, uv, color.
const vertexStride = (3 + 3 + 2 + 3) * 4

// vertexLayout matches the VertexInput struct in basic.wgsl.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: vertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 3},
	},
}

// interleaveVertices packs a Geometry's attribute arrays into the vertexLayout format.
// Missing normals default to +Z, missing UVs to 0 and missing colors to white.
//
// Parameters:
//   - g: the geometry to pack
//
// Returns:
//   - []float32: vertexStride/4 floats per vertex
func interleaveVertices(g *scene.Geometry) []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*vertexStride/4)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2])
		if len(g.Normals) >= (i+1)*3 {
			out = append(out, g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2])
		} else {
			out = append(out, 0, 0, 1)
		}
		if len(g.UVs) >= (i+1)*2 {
			out = append(out, g.UVs[i*2], g.UVs[i*2+1])
		} else {
			out = append(out, 0, 0)
		}
		if len(g.Colors) >= (i+1)*3 {
			out = append(out, g.Colors[i*3], g.Colors[i*3+1], g.Colors[i*3+2])
		} else {
			out = append(out, 1, 1, 1)
		}
	}
	return out
}

// GPUMeshUniform is the per-mesh uniform consumed by basic.wgsl (Mesh struct).
// Size: 112 bytes (std140 aligned, no padding required).
type GPUMeshUniform struct {
	Model  [16]float32 // offset   0: world matrix, column-major (64 bytes)
	Color  [4]float32  // offset  64: base color rgb + opacity (16 bytes)
	Params [4]float32  // offset  80: ao intensity, reflectivity, map enabled, ao map enabled (16 bytes)
	Flags  [4]float32  // offset  96: env map enabled, vertex colors enabled, unused, unused (16 bytes)
}

// newGPUMeshUniform resolves a material into uniform values. Texture slots only count as
// enabled once their texture has loaded.
//
// Parameters:
//   - world: the mesh's world matrix
//   - m: the mesh material
//
// Returns:
//   - GPUMeshUniform: the uniform ready for Marshal
func newGPUMeshUniform(world [16]float32, m *scene.BasicMaterial) GPUMeshUniform {
	return GPUMeshUniform{
		Model:  world,
		Color:  [4]float32{m.Color.R, m.Color.G, m.Color.B, m.EffectiveOpacity()},
		Params: [4]float32{float32(common.Clamp(m.AOMapIntensity, 0, 1)), float32(common.Clamp(m.Reflectivity, 0, 1)), boolToFloat(m.Map.Ready()), boolToFloat(m.AOMap.Ready())},
		Flags:  [4]float32{boolToFloat(m.EnvMap.Ready()), boolToFloat(m.VertexColors), 0, 0},
	}
}

// Size returns the size of the GPUMeshUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMeshUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload.
func (g *GPUMeshUniform) Marshal() []byte {
	buf := make([]byte, 112)
	off := 0
	for _, block := range [][]float32{g.Model[:], g.Color[:], g.Params[:], g.Flags[:]} {
		for _, f := range block {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// GPUBackgroundUniform is the uniform consumed by background.wgsl (Background struct).
// Size: 16 bytes.
type GPUBackgroundUniform struct {
	Mode [4]float32 // offset 0: x = 1 for equirectangular sampling (16 bytes)
}

// Marshal serializes the GPUBackgroundUniform struct into a byte buffer suitable for GPU upload.
func (g *GPUBackgroundUniform) Marshal() []byte {
	buf := make([]byte, 16)
	for i, f := range g.Mode {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	return buf
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// textureFormat picks the GPU format matching a texture's color space so sRGB data is
// decoded to linear on sampling.
func textureFormat(t *scene.Texture) wgpu.TextureFormat {
	if t.ColorSpace == scene.ColorSpaceSRGB {
		return wgpu.TextureFormatRGBA8UnormSrgb
	}
	return wgpu.TextureFormatRGBA8Unorm
}

// clearColor converts the scene background to the render pass clear value.
func clearColor(c common.Color) wgpu.Color {
	return wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}
