package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Side selects which triangle faces are rasterized.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// BasicMaterial is an unlit material: a base color optionally modulated by a color map,
// an ambient occlusion map and an environment reflection. Fields are exported so the
// parameter panel can bind them directly.
type BasicMaterial struct {
	Color        common.Color
	Opacity      float64
	Transparent  bool
	Wireframe    bool
	Side         Side
	VertexColors bool

	// Map is the base color texture.
	Map *Texture
	// AOMap darkens the result by its red channel, scaled by AOMapIntensity.
	AOMap          *Texture
	AOMapIntensity float64
	// EnvMap is an equirectangular reflection map mixed in by Reflectivity.
	EnvMap       *Texture
	Reflectivity float64
}

// NewBasicMaterial creates a white, opaque, front-sided material.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - *BasicMaterial: the new material
func NewBasicMaterial(options ...MaterialBuilderOption) *BasicMaterial {
	m := &BasicMaterial{
		Color:          common.ColorFromHex(0xffffff),
		Opacity:        1,
		AOMapIntensity: 1,
		Reflectivity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// EffectiveOpacity returns the alpha used for blending: Opacity when Transparent is set, 1 otherwise.
func (m *BasicMaterial) EffectiveOpacity() float32 {
	if !m.Transparent {
		return 1
	}
	return float32(common.Clamp(m.Opacity, 0, 1))
}

// MaterialBuilderOption is a functional option for configuring a BasicMaterial.
type MaterialBuilderOption func(m *BasicMaterial)

// WithColor sets the base color.
func WithColor(c common.Color) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Color = c
	}
}

// WithOpacity sets the opacity used when the material is transparent.
func WithOpacity(opacity float64) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Opacity = opacity
	}
}

// WithTransparent enables alpha blending.
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Transparent = transparent
	}
}

// WithWireframe draws triangle edges instead of filled faces.
func WithWireframe(wireframe bool) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Wireframe = wireframe
	}
}

// WithSide selects the rasterized faces.
func WithSide(side Side) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Side = side
	}
}

// WithVertexColors multiplies the base color by per-vertex colors.
func WithVertexColors(enabled bool) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.VertexColors = enabled
	}
}

// WithMap sets the base color texture.
func WithMap(t *Texture) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.Map = t
	}
}

// WithAOMap sets the ambient occlusion texture and its intensity.
//
// Parameters:
//   - t: the occlusion texture
//   - intensity: 0 disables occlusion, 1 applies it fully
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithAOMap(t *Texture, intensity float64) MaterialBuilderOption {
	return func(m *BasicMaterial) {
		m.AOMap = t
		m.AOMapIntensity = intensity
	}
}
