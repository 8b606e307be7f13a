package demos

import (
	"log"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// cubeColors backs the color picker; the picker edits the hex string and the change handler
// copies it onto the material.
type cubeColors struct {
	CubeColor string
}

// newBox builds a green wireframe unit cube with a half-size child, plus a toolbar that moves,
// scales and recolors the parent.
func newBox(env Env) (*Demo, error) {
	d := base("box", env)

	material := scene.NewBasicMaterial(
		scene.WithColor(common.ColorFromHex(0x00ff00)),
		scene.WithWireframe(true),
	)
	cube := scene.NewMesh(scene.NewBoxGeometry(1, 1, 1), material)
	cube.Name = "cube"

	// Opacity only takes effect on transparent materials, so the child stays opaque.
	child := scene.NewMesh(scene.NewBoxGeometry(0.5, 0.5, 0.5), scene.NewBasicMaterial(scene.WithOpacity(0.5)))
	child.Name = "cube-child"
	cube.Add(child)
	d.Scene.Add(cube)

	gui := d.GUI
	addGreetings(gui)

	folder := gui.AddFolder("Cube")
	for _, axis := range []string{"X", "Y", "Z"} {
		folder.Add(&cube.Position, axis).Min(-5).Max(5).Name("Position " + axis).Step(0.1)
	}
	for _, axis := range []string{"X", "Y", "Z"} {
		folder.Add(&cube.Scale, axis).Min(-5).Max(5).Name("Scale " + axis).Step(0.1)
	}

	gui.Add(material, "Wireframe").Name("Parent wireframe")

	colors := &cubeColors{CubeColor: "#00ff00"}
	gui.AddColor(colors, "CubeColor").Name("Cube color").OnChange(func(v any) {
		c, err := common.ParseHexColor(v.(string))
		if err != nil {
			log.Printf("[Demo] ignoring cube color %v: %v", v, err)
			return
		}
		material.Color = c
	})
	return d, nil
}
