package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// PerspectiveCamera holds a perspective projection and a look-at view.
//
// Position, Up, Fov, Near and Far are exported so that input controls and the parameter
// panel can write them directly; call UpdateProjectionMatrix after changing Fov, Near or Far
// and LookAt (or UpdateViewMatrix) after moving the camera. The aspect ratio is only changed
// through SetAspect, which keeps the projection in step with the viewport.
//
// A camera is not safe for concurrent use. All writers are expected to run on the render thread.
type PerspectiveCamera struct {
	// Position is the world-space eye position.
	Position common.Vec3
	// Up is the world-space up vector.
	Up common.Vec3
	// Fov is the vertical field of view in degrees.
	Fov float64
	// Near is the near clipping plane distance.
	Near float64
	// Far is the far clipping plane distance.
	Far float64

	aspect float64
	target common.Vec3

	viewMatrix              [16]float32
	projectionMatrix        [16]float32
	viewProjectionMatrix    [16]float32
	inverseProjectionMatrix [16]float32
	inverseViewProjection   [16]float32
}

// NewPerspectiveCamera creates a camera with the given projection settings and
// computes its initial matrices.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//   - options: functional options applied after the projection settings
//
// Returns:
//   - *PerspectiveCamera: the new camera
func NewPerspectiveCamera(fov, aspect, near, far float64, options ...CameraBuilderOption) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Up:     common.V3(0, 1, 0),
		Fov:    fov,
		Near:   near,
		Far:    far,
		aspect: aspect,
	}
	for _, opt := range options {
		opt(c)
	}
	c.UpdateProjectionMatrix()
	c.UpdateViewMatrix()
	return c
}

// Aspect returns the current aspect ratio (width / height).
func (c *PerspectiveCamera) Aspect() float64 {
	return c.aspect
}

// SetAspect sets the aspect ratio and recomputes the projection matrix.
// Non-positive or non-finite ratios are ignored.
//
// Parameters:
//   - aspect: width / height
func (c *PerspectiveCamera) SetAspect(aspect float64) {
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		return
	}
	c.aspect = aspect
	c.UpdateProjectionMatrix()
}

// Target returns the point the camera was last pointed at with LookAt.
func (c *PerspectiveCamera) Target() common.Vec3 {
	return c.target
}

// LookAt orients the camera towards target and recomputes the view matrix.
//
// Parameters:
//   - target: world-space point to look at
func (c *PerspectiveCamera) LookAt(target common.Vec3) {
	c.target = target
	c.UpdateViewMatrix()
}

// UpdateProjectionMatrix recomputes the projection from Fov, aspect, Near and Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	fovRad := float32(c.Fov * math.Pi / 180)
	common.Perspective(c.projectionMatrix[:], fovRad, float32(c.aspect), float32(c.Near), float32(c.Far))
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
	c.updateViewProjection()
}

// UpdateViewMatrix recomputes the view matrix from Position, the look-at target and Up.
func (c *PerspectiveCamera) UpdateViewMatrix() {
	common.LookAt(c.viewMatrix[:], c.Position, c.target, c.Up)
	c.updateViewProjection()
}

func (c *PerspectiveCamera) updateViewProjection() {
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseViewProjection[:], c.viewProjectionMatrix[:])
}

// ViewMatrix returns the column-major view matrix.
func (c *PerspectiveCamera) ViewMatrix() [16]float32 {
	return c.viewMatrix
}

// ProjectionMatrix returns the column-major projection matrix.
func (c *PerspectiveCamera) ProjectionMatrix() [16]float32 {
	return c.projectionMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *PerspectiveCamera) ViewProjectionMatrix() [16]float32 {
	return c.viewProjectionMatrix
}

// InverseProjectionMatrix returns the inverse of the projection matrix.
func (c *PerspectiveCamera) InverseProjectionMatrix() [16]float32 {
	return c.inverseProjectionMatrix
}

// InverseViewProjectionMatrix returns the inverse of projection * view. The renderer
// uses it to reconstruct view rays for the environment background.
func (c *PerspectiveCamera) InverseViewProjectionMatrix() [16]float32 {
	return c.inverseViewProjection
}
