package controls

// OrbitControlsBuilderOption is a functional option for configuring OrbitControls.
// Use the With* functions to create options.
type OrbitControlsBuilderOption func(c *OrbitControls)

// WithDamping enables eased motion.
//
// Parameters:
//   - factor: fraction of the remaining delta applied per Update, in (0, 1]
//
// Returns:
//   - OrbitControlsBuilderOption: option function to apply
func WithDamping(factor float64) OrbitControlsBuilderOption {
	return func(c *OrbitControls) {
		c.EnableDamping = true
		c.DampingFactor = factor
	}
}

// WithSpeeds sets the rotate, zoom and pan sensitivities.
//
// Parameters:
//   - rotate: rotation speed multiplier
//   - zoom: zoom speed multiplier
//   - pan: pan speed multiplier
//
// Returns:
//   - OrbitControlsBuilderOption: option function to apply
func WithSpeeds(rotate, zoom, pan float64) OrbitControlsBuilderOption {
	return func(c *OrbitControls) {
		c.RotateSpeed = rotate
		c.ZoomSpeed = zoom
		c.PanSpeed = pan
	}
}

// WithDistanceLimits clamps the camera's distance from the target.
//
// Parameters:
//   - minDistance: closest allowed distance
//   - maxDistance: furthest allowed distance
//
// Returns:
//   - OrbitControlsBuilderOption: option function to apply
func WithDistanceLimits(minDistance, maxDistance float64) OrbitControlsBuilderOption {
	return func(c *OrbitControls) {
		c.MinDistance = minDistance
		c.MaxDistance = maxDistance
	}
}

// WithPolarLimits clamps the camera's angle from the +Y axis, in radians.
func WithPolarLimits(minAngle, maxAngle float64) OrbitControlsBuilderOption {
	return func(c *OrbitControls) {
		c.MinPolarAngle = minAngle
		c.MaxPolarAngle = maxAngle
	}
}
