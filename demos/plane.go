package demos

import (
	"log"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/panel"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// Texture files the plane demo reads from the configured texture directory.
const (
	planeColorMap     = "Bricks066_1K-JPG_Color.jpg"
	planeAOMap        = "Bricks066_1K-JPG_AmbientOcclusion.jpg"
	planeRoughnessMap = "Bricks066_1K-JPG_Roughness.jpg"
	planeEnvironment  = "buikslotermeerplein_4k.hdr"
)

// newPlane builds a double-sided, transparent brick plane. The color and AO maps bind to the
// material immediately and render once loaded; the HDR panorama becomes both the scene
// background and the material's reflection map when it arrives.
func newPlane(env Env) (*Demo, error) {
	if env.Loader == nil {
		return nil, ErrLoaderRequired
	}
	d := base("plane", env)
	addGreetings(d.GUI)

	l := env.Loader
	colorMap := l.Load(planeColorMap, nil, nil)
	colorMap.ColorSpace = scene.ColorSpaceSRGB
	aoMap := l.Load(planeAOMap, nil, nil)
	// Basic materials have no roughness input, so the map stays unbound.
	l.Load(planeRoughnessMap, nil, nil)

	material := scene.NewBasicMaterial(
		scene.WithMap(colorMap),
		scene.WithSide(scene.SideDouble),
		scene.WithTransparent(true),
		scene.WithAOMap(aoMap, 1),
	)
	plane := scene.NewMesh(scene.NewPlaneGeometry(1, 1), material)
	plane.Name = "plane"
	d.Scene.Add(plane)

	l.LoadHDR(planeEnvironment, func(hdr *scene.Texture) {
		hdr.Mapping = scene.MappingEquirectangularReflection
		d.Scene.BackgroundTexture = hdr
		material.EnvMap = hdr
		log.Printf("[Demo] environment %s applied", hdr.Name)
	}, nil)

	d.GUI.Add(material, "AOMapIntensity").Min(0).Max(1).Name("AO intensity")
	d.GUI.Add(colorMap, "ColorSpace").
		Options(
			panel.Option{Label: "sRGB", Value: scene.ColorSpaceSRGB},
			panel.Option{Label: "Linear", Value: scene.ColorSpaceLinear},
		).
		OnChange(func(any) { colorMap.NeedsUpdate() }).
		Name("Color space")
	return d, nil
}
