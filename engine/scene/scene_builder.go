package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *Scene)

// WithBackground sets the scene's clear color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *Scene) {
		s.Background = c
	}
}

// WithChildren attaches initial nodes to the scene.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithChildren(nodes ...Node) SceneBuilderOption {
	return func(s *Scene) {
		s.Add(nodes...)
	}
}
