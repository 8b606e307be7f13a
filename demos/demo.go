// Package demos assembles the sandbox scenes: a wireframe box, a textured plane with an HDR
// environment, and a camera inspection tool. Each demo wires its scene, camera, orbit controls
// and parameter panel once; the viewport controller then drives it.
package demos

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/Carmen-Shannon/oxy-sandbox/config"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controls"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/viewport"
)

var (
	// ErrUnknownDemo is returned by New for names not in Names.
	ErrUnknownDemo = errors.New("unknown demo")
	// ErrLoaderRequired is returned when a textured demo is built without a texture loader.
	ErrLoaderRequired = errors.New("demo needs a texture loader")
)

// Env is what the application hands every demo.
type Env struct {
	Config config.Config
	// Aspect is the initial width / height of the render target.
	Aspect float64
	// Loader decodes textures; only the plane demo requires it.
	Loader *loader.TextureLoader
	// CameraPanel adds the camera inspection folders to any demo.
	CameraPanel bool
}

// Demo is an assembled scene ready to hand to a viewport controller.
type Demo struct {
	Name     string
	Scene    *scene.Scene
	Camera   *camera.PerspectiveCamera
	Controls *controls.OrbitControls
	GUI      *panel.GUI
}

type builder func(env Env) (*Demo, error)

var builders = map[string]builder{
	"box":    newBox,
	"plane":  newPlane,
	"camera": newCamera,
}

// Names lists the available demos in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the named demo.
//
// Parameters:
//   - name: one of Names
//   - env: the shared configuration and services
//
// Returns:
//   - *Demo: the assembled demo
//   - error: ErrUnknownDemo, ErrLoaderRequired, or a setup failure
func New(name string, env Env) (*Demo, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownDemo, name, Names())
	}
	if env.Aspect <= 0 {
		env.Aspect = float64(env.Config.Window.Width) / float64(max(env.Config.Window.Height, 1))
	}

	d, err := build(env)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s demo: %w", name, err)
	}
	if env.CameraPanel && name != "camera" {
		AddCameraPanel(d.GUI, d.Camera, d.Controls)
	}
	log.Printf("[Demo] %s ready with %d panel controls", name, len(d.GUI.Snapshot().Controls))
	return d, nil
}

// Context returns the collaborators the viewport controller drives.
//
// Parameters:
//   - target: the surface frames are drawn to
//
// Returns:
//   - viewport.Context: the scene, camera, target and controls
func (d *Demo) Context(target viewport.RenderTarget) viewport.Context {
	return viewport.Context{
		Scene:    d.Scene,
		Camera:   d.Camera,
		Target:   target,
		Controls: d.Controls,
	}
}

// base builds the parts every demo shares: the configured camera looking at the origin, damped
// orbit controls, a scene holding an axes helper and an empty panel.
func base(name string, env Env) *Demo {
	cfg := env.Config
	cam := cfg.Camera.NewCamera(env.Aspect)

	sc := scene.NewScene()
	sc.Add(scene.NewAxesHelper(100))

	return &Demo{
		Name:     name,
		Scene:    sc,
		Camera:   cam,
		Controls: controls.NewOrbitControls(cam, cfg.Controls.Options()...),
		GUI:      panel.NewGUI(panel.WithTitle(name), panel.WithVerbose(cfg.Panel.Verbose)),
	}
}

// greetings holds the toolbar's two demo buttons.
type greetings struct {
	Hello func()
	World func()
}

func addGreetings(gui *panel.GUI) {
	g := &greetings{
		Hello: func() { log.Printf("[Demo] hello") },
		World: func() { log.Printf("[Demo] world") },
	}
	gui.Add(g, "Hello").Name("hello")
	gui.Add(g, "World").Name("world")
}
