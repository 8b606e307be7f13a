package renderer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceProvider is the window-side half of a renderer: something that can describe a
// presentable surface and report its size. engine/window.Window satisfies it.
type SurfaceProvider interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer draws a scene graph through a WebGPU surface. It is the render target owned by
// the viewport controller: SetSize reconfigures the swapchain and Render draws one frame.
//
// GPU resources are created lazily the first time a mesh, geometry or texture is seen and
// are refreshed when a texture's version changes.
type Renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	width   int
	height  int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount

	initialized      bool
	cameraLayout     *wgpu.BindGroupLayout
	meshLayout       *wgpu.BindGroupLayout
	backgroundLayout *wgpu.BindGroupLayout
	cameraBuffer     *wgpu.Buffer
	cameraGroup      *wgpu.BindGroup
	sampler          *wgpu.Sampler
	fallback         *gpuTexture
	background       *backgroundResources

	pipelineCache map[string]*pipeline.Pipeline
	geometries    map[*scene.Geometry]*geometryResources
	meshes        map[*scene.Mesh]*meshResources
	textures      map[*scene.Texture]*gpuTexture
}

type geometryResources struct {
	vertexBuffer    *wgpu.Buffer
	indexBuffer     *wgpu.Buffer
	indexCount      uint32
	wireBuffer      *wgpu.Buffer
	wireIndexCount  uint32
	sourceTopology  scene.Topology
	sourceVertCount int
}

type meshResources struct {
	uniform   *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	signature [3]textureSignature
}

type backgroundResources struct {
	uniform   *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	signature textureSignature
}

type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	version uint64
	format  wgpu.TextureFormat
}

// textureSignature identifies the GPU view a bind group was built with.
type textureSignature struct {
	texture *scene.Texture
	version uint64
	format  wgpu.TextureFormat
}

// NewRenderer creates a renderer presenting to the given surface. Device and surface setup
// failures panic, as there is nothing to render without them.
//
// Parameters:
//   - surface: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - *Renderer: the configured renderer, with its surface sized to the window
func NewRenderer(surface SurfaceProvider, options ...RendererBuilderOption) *Renderer {
	r := &Renderer{
		mu:            &sync.Mutex{},
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
		pipelineCache: make(map[string]*pipeline.Pipeline),
		geometries:    make(map[*scene.Geometry]*geometryResources),
		meshes:        make(map[*scene.Mesh]*meshResources),
		textures:      make(map[*scene.Texture]*gpuTexture),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}
	r.backend.SetPresentMode(r.presentMode)

	r.width, r.height = surface.Width(), surface.Height()
	r.backend.ConfigureSurface(r.width, r.height)
	return r
}

// SetSize reconfigures the swapchain and depth attachments. Non-positive sizes are ignored.
//
// Parameters:
//   - width: the new surface width in pixels
//   - height: the new surface height in pixels
func (r *Renderer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

// Size returns the current surface size in pixels.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// SetPresentMode switches between vsync and uncapped presentation, reconfiguring the surface.
func (r *Renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

// Render draws one frame: the background (clear color, or the background texture once loaded),
// then opaque meshes, then transparent meshes back to front.
//
// Parameters:
//   - s: the scene to draw
//   - cam: the camera to draw it from
//
// Returns:
//   - error: an error if GPU resources could not be created or the surface could not be acquired
func (r *Renderer) Render(s *scene.Scene, cam *camera.PerspectiveCamera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureInitialized(); err != nil {
		return err
	}

	cu := camera.NewGPUCameraUniform(cam)
	r.backend.WriteBuffer(r.cameraBuffer, 0, cu.Marshal())

	type draw struct {
		pipe *pipeline.Pipeline
		geo  *geometryResources
		mesh *meshResources
		wire bool
	}

	items := orderDrawItems(s.Meshes(), cam.Position)
	draws := make([]draw, 0, len(items))
	for _, item := range items {
		mat := item.Mesh.Material
		geo, err := r.geometryFor(item.Mesh.Geometry)
		if err != nil {
			return err
		}
		res, err := r.meshFor(item.Mesh)
		if err != nil {
			return err
		}
		mu := newGPUMeshUniform(item.World, mat)
		r.backend.WriteBuffer(res.uniform, 0, mu.Marshal())

		lines := item.Mesh.Geometry.Topology == scene.TopologyLines || mat.Wireframe
		pipe, err := r.meshPipeline(mat, lines)
		if err != nil {
			return err
		}
		draws = append(draws, draw{pipe: pipe, geo: geo, mesh: res, wire: mat.Wireframe && item.Mesh.Geometry.Topology == scene.TopologyTriangles})
	}

	var bgPipe *pipeline.Pipeline
	if s.BackgroundTexture.Ready() {
		var err error
		if bgPipe, err = r.backgroundPipeline(); err != nil {
			return err
		}
		if err := r.updateBackground(s.BackgroundTexture); err != nil {
			return err
		}
	}

	if err := r.backend.BeginFrame(clearColor(s.Background)); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	if bgPipe != nil {
		r.backend.DrawFullscreen(bgPipe, []*wgpu.BindGroup{r.cameraGroup, r.background.bindGroup})
	}
	for _, d := range draws {
		groups := []*wgpu.BindGroup{r.cameraGroup, d.mesh.bindGroup}
		if d.wire {
			r.backend.Draw(d.pipe, groups, d.geo.vertexBuffer, d.geo.wireBuffer, d.geo.wireIndexCount)
			continue
		}
		r.backend.Draw(d.pipe, groups, d.geo.vertexBuffer, d.geo.indexBuffer, d.geo.indexCount)
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

// Close releases every GPU resource held by the renderer and its backend.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pipelineCache {
		p.Release()
	}
	for _, g := range r.geometries {
		g.release()
	}
	for _, m := range r.meshes {
		m.release()
	}
	for _, t := range r.textures {
		t.release()
	}
	if r.fallback != nil {
		r.fallback.release()
	}
	if r.background != nil {
		if r.background.bindGroup != nil {
			r.background.bindGroup.Release()
		}
		if r.background.uniform != nil {
			r.background.uniform.Release()
		}
		r.background = nil
	}
	r.pipelineCache = map[string]*pipeline.Pipeline{}
	r.geometries = map[*scene.Geometry]*geometryResources{}
	r.meshes = map[*scene.Mesh]*meshResources{}
	r.textures = map[*scene.Texture]*gpuTexture{}
	r.initialized = false
	r.backend.Release()
}

// ensureInitialized creates the bind group layouts, camera uniform, shared sampler and the
// 1x1 white fallback texture used by unresolved texture slots.
func (r *Renderer) ensureInitialized() error {
	if r.initialized {
		return nil
	}

	var err error
	r.cameraLayout, err = r.backend.CreateBindGroupLayout("Camera Layout", []wgpu.BindGroupLayoutEntry{
		uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
	})
	if err != nil {
		return fmt.Errorf("failed to create camera layout: %w", err)
	}
	r.meshLayout, err = r.backend.CreateBindGroupLayout("Mesh Layout", []wgpu.BindGroupLayoutEntry{
		uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
		samplerEntry(1),
		textureEntry(2),
		textureEntry(3),
		textureEntry(4),
	})
	if err != nil {
		return fmt.Errorf("failed to create mesh layout: %w", err)
	}
	r.backgroundLayout, err = r.backend.CreateBindGroupLayout("Background Layout", []wgpu.BindGroupLayoutEntry{
		samplerEntry(0),
		textureEntry(1),
		uniformEntry(2, wgpu.ShaderStageFragment),
	})
	if err != nil {
		return fmt.Errorf("failed to create background layout: %w", err)
	}

	cu := camera.GPUCameraUniform{}
	r.cameraBuffer, err = r.backend.CreateBuffer("Camera Uniform", wgpu.BufferUsageUniform, uint64(cu.Size()), nil)
	if err != nil {
		return fmt.Errorf("failed to create camera buffer: %w", err)
	}
	r.cameraGroup, err = r.backend.CreateBindGroup("Camera Bind Group", r.cameraLayout, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: r.cameraBuffer, Size: wgpu.WholeSize},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	r.sampler, err = r.backend.CreateSampler("Material Sampler", wgpu.SamplerDescriptor{})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	tex, view, err := r.backend.CreateTexture("Fallback Texture", 1, 1, wgpu.TextureFormatRGBA8Unorm, []byte{255, 255, 255, 255})
	if err != nil {
		return fmt.Errorf("failed to create fallback texture: %w", err)
	}
	r.fallback = &gpuTexture{texture: tex, view: view, format: wgpu.TextureFormatRGBA8Unorm}

	r.initialized = true
	return nil
}

func (r *Renderer) geometryFor(g *scene.Geometry) (*geometryResources, error) {
	if res, ok := r.geometries[g]; ok && res.sourceVertCount == g.VertexCount() && res.sourceTopology == g.Topology {
		return res, nil
	} else if ok {
		res.release()
	}

	res := &geometryResources{sourceTopology: g.Topology, sourceVertCount: g.VertexCount()}
	var err error
	res.vertexBuffer, err = r.backend.CreateBuffer("Vertex Buffer", wgpu.BufferUsageVertex, 0, common.SliceToBytes(interleaveVertices(g)))
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	indices := drawIndices(g)
	res.indexBuffer, err = r.backend.CreateBuffer("Index Buffer", wgpu.BufferUsageIndex, 0, common.SliceToBytes(indices))
	if err != nil {
		return nil, fmt.Errorf("failed to create index buffer: %w", err)
	}
	res.indexCount = uint32(len(indices))

	if g.Topology == scene.TopologyTriangles {
		wire := g.WireframeIndices()
		res.wireBuffer, err = r.backend.CreateBuffer("Wireframe Index Buffer", wgpu.BufferUsageIndex, 0, common.SliceToBytes(wire))
		if err != nil {
			return nil, fmt.Errorf("failed to create wireframe buffer: %w", err)
		}
		res.wireIndexCount = uint32(len(wire))
	}

	r.geometries[g] = res
	return res, nil
}

func (r *Renderer) meshFor(m *scene.Mesh) (*meshResources, error) {
	mat := m.Material
	sig := [3]textureSignature{r.signature(mat.Map), r.signature(mat.AOMap), r.signature(mat.EnvMap)}

	res, ok := r.meshes[m]
	if ok && res.signature == sig {
		return res, nil
	}
	if !ok {
		mu := GPUMeshUniform{}
		buf, err := r.backend.CreateBuffer("Mesh Uniform", wgpu.BufferUsageUniform, uint64(mu.Size()), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mesh uniform: %w", err)
		}
		res = &meshResources{uniform: buf}
		r.meshes[m] = res
	}

	views := make([]*wgpu.TextureView, 3)
	for i, t := range []*scene.Texture{mat.Map, mat.AOMap, mat.EnvMap} {
		v, err := r.viewFor(t)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}

	if res.bindGroup != nil {
		res.bindGroup.Release()
	}
	bg, err := r.backend.CreateBindGroup("Mesh Bind Group", r.meshLayout, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: res.uniform, Size: wgpu.WholeSize},
		{Binding: 1, Sampler: r.sampler},
		{Binding: 2, TextureView: views[0]},
		{Binding: 3, TextureView: views[1]},
		{Binding: 4, TextureView: views[2]},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh bind group: %w", err)
	}
	res.bindGroup = bg
	res.signature = sig
	return res, nil
}

func (r *Renderer) updateBackground(t *scene.Texture) error {
	sig := r.signature(t)
	if r.background != nil && r.background.signature == sig {
		return nil
	}
	if r.background == nil {
		buf, err := r.backend.CreateBuffer("Background Uniform", wgpu.BufferUsageUniform, 16, nil)
		if err != nil {
			return fmt.Errorf("failed to create background uniform: %w", err)
		}
		r.background = &backgroundResources{uniform: buf}
	}

	view, err := r.viewFor(t)
	if err != nil {
		return err
	}
	u := GPUBackgroundUniform{}
	if t.Mapping == scene.MappingEquirectangularReflection {
		u.Mode[0] = 1
	}
	r.backend.WriteBuffer(r.background.uniform, 0, u.Marshal())

	if r.background.bindGroup != nil {
		r.background.bindGroup.Release()
	}
	bg, err := r.backend.CreateBindGroup("Background Bind Group", r.backgroundLayout, []wgpu.BindGroupEntry{
		{Binding: 0, Sampler: r.sampler},
		{Binding: 1, TextureView: view},
		{Binding: 2, Buffer: r.background.uniform, Size: wgpu.WholeSize},
	})
	if err != nil {
		return fmt.Errorf("failed to create background bind group: %w", err)
	}
	r.background.bindGroup = bg
	r.background.signature = sig
	return nil
}

// signature reports which upload of t a bind group would reference. Unready textures
// all map to the zero signature, which selects the fallback view.
func (r *Renderer) signature(t *scene.Texture) textureSignature {
	if !t.Ready() {
		return textureSignature{}
	}
	return textureSignature{texture: t, version: t.Version(), format: textureFormat(t)}
}

// viewFor uploads t if its pixels or color space changed since the last upload and returns
// its view. Unready textures resolve to the fallback.
func (r *Renderer) viewFor(t *scene.Texture) (*wgpu.TextureView, error) {
	if !t.Ready() {
		return r.fallback.view, nil
	}
	version, format := t.Version(), textureFormat(t)
	if cached, ok := r.textures[t]; ok {
		if cached.version == version && cached.format == format {
			return cached.view, nil
		}
		cached.release()
		delete(r.textures, t)
	}

	w, h := t.Size()
	tex, view, err := r.backend.CreateTexture(t.Name, w, h, format, t.Pixels())
	if err != nil {
		return nil, fmt.Errorf("failed to upload texture %s: %w", t.Name, err)
	}
	r.textures[t] = &gpuTexture{texture: tex, view: view, version: version, format: format}
	return view, nil
}

func (r *Renderer) meshPipeline(mat *scene.BasicMaterial, lines bool) (*pipeline.Pipeline, error) {
	key, opts := meshPipelineOptions(mat, lines)
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}
	p := pipeline.NewPipeline(key, basicShaderSource, opts...)
	if err := r.backend.RegisterRenderPipeline(p, []*wgpu.BindGroupLayout{r.cameraLayout, r.meshLayout}); err != nil {
		return nil, err
	}
	r.pipelineCache[key] = p
	return p, nil
}

func (r *Renderer) backgroundPipeline() (*pipeline.Pipeline, error) {
	const key = "background"
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}
	p := pipeline.NewPipeline(key, backgroundShaderSource,
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := r.backend.RegisterRenderPipeline(p, []*wgpu.BindGroupLayout{r.cameraLayout, r.backgroundLayout}); err != nil {
		return nil, err
	}
	r.pipelineCache[key] = p
	return p, nil
}

// meshPipelineOptions derives the pipeline cache key and fixed-function state for a material.
//
// Parameters:
//   - mat: the material being drawn
//   - lines: true when drawing line geometry or a wireframe
//
// Returns:
//   - string: the cache key, unique per distinct state combination
//   - []pipeline.PipelineBuilderOption: options reproducing that state
func meshPipelineOptions(mat *scene.BasicMaterial, lines bool) (string, []pipeline.PipelineBuilderOption) {
	topology := wgpu.PrimitiveTopologyTriangleList
	topologyName := "tri"
	if lines {
		topology = wgpu.PrimitiveTopologyLineList
		topologyName = "line"
	}

	cull := wgpu.CullModeBack
	sideName := "front"
	switch mat.Side {
	case scene.SideBack:
		cull, sideName = wgpu.CullModeFront, "back"
	case scene.SideDouble:
		cull, sideName = wgpu.CullModeNone, "double"
	}
	if lines {
		cull, sideName = wgpu.CullModeNone, "none"
	}

	blendName := "opaque"
	if mat.Transparent {
		blendName = "blend"
	}

	key := fmt.Sprintf("basic/%s/%s/%s", topologyName, sideName, blendName)
	return key, []pipeline.PipelineBuilderOption{
		pipeline.WithVertexLayouts(vertexLayout),
		pipeline.WithTopology(topology),
		pipeline.WithCullMode(cull),
		pipeline.WithBlendEnabled(mat.Transparent),
		pipeline.WithDepthWriteEnabled(!mat.Transparent),
	}
}

// orderDrawItems returns opaque meshes in scene order followed by transparent meshes sorted
// farthest first from eye.
func orderDrawItems(items []scene.DrawItem, eye common.Vec3) []scene.DrawItem {
	out := make([]scene.DrawItem, 0, len(items))
	var transparent []scene.DrawItem
	for _, it := range items {
		if it.Mesh.Material.Transparent {
			transparent = append(transparent, it)
			continue
		}
		out = append(out, it)
	}
	distance := func(it scene.DrawItem) float64 {
		return common.V3(float64(it.World[12]), float64(it.World[13]), float64(it.World[14])).Sub(eye).Length()
	}
	sort.SliceStable(transparent, func(i, j int) bool {
		return distance(transparent[i]) > distance(transparent[j])
	})
	return append(out, transparent...)
}

// drawIndices returns the geometry's indices, or a sequential list when it has none.
func drawIndices(g *scene.Geometry) []uint32 {
	if len(g.Indices) > 0 {
		return g.Indices
	}
	out := make([]uint32, g.VertexCount())
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	return e
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	return e
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	e.Texture.SampleType = wgpu.TextureSampleTypeFloat
	e.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return e
}

func (g *geometryResources) release() {
	for _, b := range []*wgpu.Buffer{g.vertexBuffer, g.indexBuffer, g.wireBuffer} {
		if b != nil {
			b.Release()
		}
	}
}

func (m *meshResources) release() {
	if m.bindGroup != nil {
		m.bindGroup.Release()
	}
	if m.uniform != nil {
		m.uniform.Release()
	}
}

func (t *gpuTexture) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}
