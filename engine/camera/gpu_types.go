package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniform is the GPU-aligned camera block shared by every draw.
// Matches the WGSL struct:
//
//	struct Camera {
//	    view_proj: mat4x4<f32>,
//	    inv_view_proj: mat4x4<f32>,
//	    position: vec3<f32>,
//	};
type GPUCameraUniform struct {
	ViewProj    [16]float32 // offset   0
	InvViewProj [16]float32 // offset  64
	Position    [3]float32  // offset 128
	_pad        float32     // offset 140: pads the struct to 144 bytes
}

// NewGPUCameraUniform captures the camera's current matrices and position.
//
// Parameters:
//   - c: the camera to snapshot
//
// Returns:
//   - GPUCameraUniform: the uniform block ready to marshal
func NewGPUCameraUniform(c *PerspectiveCamera) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:    c.ViewProjectionMatrix(),
		InvViewProj: c.InverseViewProjectionMatrix(),
		Position:    [3]float32{float32(c.Position.X), float32(c.Position.Y), float32(c.Position.Z)},
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.InvViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Position[i]))
	}
	return buf
}
