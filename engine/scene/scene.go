package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Scene is the root of the scene graph. It owns a clear color and an optional
// background texture that replaces the clear color once it has loaded.
type Scene struct {
	Object3D

	// Background is the clear color used when no background texture is ready.
	Background common.Color
	// BackgroundTexture, when loaded, is drawn behind all meshes. Equirectangular textures
	// are sampled by view direction.
	BackgroundTexture *Texture
}

// NewScene creates an empty scene with a black background.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - *Scene: the new scene
func NewScene(options ...SceneBuilderOption) *Scene {
	s := &Scene{Background: common.Color{A: 1}}
	s.init("scene")
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Meshes collects every visible mesh in draw order together with its world matrix.
//
// Returns:
//   - []DrawItem: one entry per visible mesh
func (s *Scene) Meshes() []DrawItem {
	var items []DrawItem
	s.Traverse(func(n Node, world [16]float32) {
		if m, ok := n.(*Mesh); ok && m.Geometry != nil {
			items = append(items, DrawItem{Mesh: m, World: world})
		}
	})
	return items
}

// DrawItem is a mesh resolved against its ancestors' transforms.
type DrawItem struct {
	Mesh  *Mesh
	World [16]float32
}
