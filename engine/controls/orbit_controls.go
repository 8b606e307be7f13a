package controls

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
)

// minPolar keeps the camera off the exact poles where the look-at basis degenerates.
const minPolar = 1e-6

// changeEpsilon is the squared movement below which Update reports no change.
const changeEpsilon = 1e-12

// OrbitControls moves a PerspectiveCamera on a sphere around Target.
//
// Rotation, dolly and pan requests accumulate as deltas; Update applies them once per frame.
// With EnableDamping the deltas are applied a DampingFactor fraction at a time and decay
// geometrically, so motion eases out over subsequent frames. Update re-derives the spherical
// coordinates from the camera's current position every call, which lets the parameter panel
// write camera.Position or Target directly between frames.
//
// OrbitControls is not safe for concurrent use; call it from the render thread.
type OrbitControls struct {
	// Target is the point the camera orbits and looks at.
	Target common.Vec3

	Enabled       bool
	EnableDamping bool
	DampingFactor float64

	RotateSpeed float64
	ZoomSpeed   float64
	PanSpeed    float64
	// KeyPanSpeed is the pan distance in pixels applied per frame while a pan key is held.
	KeyPanSpeed float64

	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64

	camera *camera.PerspectiveCamera

	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  common.Vec3

	input inputState
}

// NewOrbitControls creates controls that orbit cam around its current look-at target.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options applied after the defaults
//
// Returns:
//   - *OrbitControls: the new controls
func NewOrbitControls(cam *camera.PerspectiveCamera, options ...OrbitControlsBuilderOption) *OrbitControls {
	c := &OrbitControls{
		Target:        cam.Target(),
		Enabled:       true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		KeyPanSpeed:   7,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		camera:        cam,
		scale:         1,
		input:         newInputState(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Camera returns the controlled camera.
func (c *OrbitControls) Camera() *camera.PerspectiveCamera {
	return c.camera
}

// RotateLeft queues an azimuthal rotation in radians. Positive angles swing the camera to the left.
func (c *OrbitControls) RotateLeft(angle float64) {
	c.deltaTheta -= angle
}

// RotateUp queues a polar rotation in radians. Positive angles raise the camera.
func (c *OrbitControls) RotateUp(angle float64) {
	c.deltaPhi -= angle
}

// Dolly scales the camera's distance from Target on the next Update.
// Factors below 1 move the camera closer.
//
// Parameters:
//   - factor: multiplicative distance change; non-positive values are ignored
func (c *OrbitControls) Dolly(factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	c.scale *= factor
}

// Pan queues a screen-space translation of both the camera and Target.
// Deltas are in pixels of a viewport with the given height, so a drag moves the scene
// under the cursor regardless of distance.
//
// Parameters:
//   - dx, dy: pointer movement in pixels (x right, y down)
//   - viewportHeight: current viewport height in pixels
func (c *OrbitControls) Pan(dx, dy float64, viewportHeight int) {
	h := float64(max(viewportHeight, 1))
	offset := c.camera.Position.Sub(c.Target)
	targetDistance := offset.Length() * math.Tan(c.camera.Fov/2*math.Pi/180)

	forward := offset.Scale(-1).Normalize()
	right := forward.Cross(c.camera.Up).Normalize()
	up := right.Cross(forward).Normalize()

	dist := c.PanSpeed * 2 * targetDistance / h
	c.panOffset = c.panOffset.Add(right.Scale(-dx * dist)).Add(up.Scale(dy * dist))
}

// Update applies one step of the queued rotation, dolly and pan and points the camera at Target.
//
// Returns:
//   - bool: true if the camera moved
func (c *OrbitControls) Update() bool {
	if !c.Enabled {
		return false
	}
	c.input.applyHeldKeys(c)

	before := c.camera.Position
	offset := before.Sub(c.Target)

	radius := offset.Length()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(common.Clamp(offset.Y/radius, -1, 1))
	}

	factor := 1.0
	if c.EnableDamping {
		factor = c.DampingFactor
	}

	theta += c.deltaTheta * factor
	phi += c.deltaPhi * factor
	phi = common.Clamp(phi, max(c.MinPolarAngle, minPolar), min(c.MaxPolarAngle, math.Pi-minPolar))

	radius = common.Clamp(radius*c.scale, c.MinDistance, c.MaxDistance)
	c.Target = c.Target.Add(c.panOffset.Scale(factor))

	sinPhi := math.Sin(phi)
	offset = common.V3(radius*sinPhi*math.Sin(theta), radius*math.Cos(phi), radius*sinPhi*math.Cos(theta))
	c.camera.Position = c.Target.Add(offset)
	c.camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Scale(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = common.Vec3{}
	}
	c.scale = 1

	moved := c.camera.Position.Sub(before)
	return moved.Dot(moved) > changeEpsilon
}
