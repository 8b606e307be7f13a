package demos

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controls"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// AddCameraPanel adds the "Camera Position" and "Controls Target" folders. Position fields
// are listened so orbiting shows up in the panel; target edits re-run the controls so the
// camera turns immediately.
//
// Parameters:
//   - gui: the panel to extend
//   - cam: the camera to expose
//   - oc: the controls whose target is exposed, may be nil
func AddCameraPanel(gui *panel.GUI, cam *camera.PerspectiveCamera, oc *controls.OrbitControls) {
	cameraFolder := gui.AddFolder("Camera Position")
	for _, axis := range []string{"X", "Y", "Z"} {
		cameraFolder.Add(&cam.Position, axis).Range(-20, 20).Name(strings.ToLower(axis)).Listen()
	}
	cameraFolder.Add(cam, "Fov").Range(10, 100).Name("fov").OnChange(func(any) {
		cam.UpdateProjectionMatrix()
	})
	cameraFolder.Open()

	if oc == nil {
		return
	}
	targetFolder := gui.AddFolder("Controls Target")
	for _, axis := range []string{"X", "Y", "Z"} {
		targetFolder.Add(&oc.Target, axis).Range(-20, 20).Name(strings.ToLower(axis)).OnChange(func(any) {
			oc.Update()
		})
	}
	targetFolder.Open()
}

// newCamera is a bare inspection scene: the axes, a reference cube and the camera panel.
func newCamera(env Env) (*Demo, error) {
	d := base("camera", env)
	ref := scene.NewMesh(scene.NewBoxGeometry(1, 1, 1), scene.NewBasicMaterial(
		scene.WithColor(common.ColorFromHex(0x4488ff)),
	))
	ref.Name = "reference"
	d.Scene.Add(ref)
	AddCameraPanel(d.GUI, d.Camera, d.Controls)
	return d, nil
}
