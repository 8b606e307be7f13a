package camera

import "github.com/Carmen-Shannon/oxy-sandbox/common"

// CameraBuilderOption is a functional option for configuring a PerspectiveCamera.
type CameraBuilderOption func(*PerspectiveCamera)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: functional option to set the position
func WithPosition(x, y, z float64) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.Position = common.V3(x, y, z)
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - x, y, z: target components
//
// Returns:
//   - CameraBuilderOption: functional option to set the look-at target
func WithTarget(x, y, z float64) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.target = common.V3(x, y, z)
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: functional option to set the up vector
func WithUp(x, y, z float64) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.Up = common.V3(x, y, z)
	}
}
