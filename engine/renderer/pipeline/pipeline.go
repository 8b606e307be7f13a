package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline describes a render pipeline: its WGSL module, entry points, vertex layout and the
// fixed-function state used when the GPU object is created. The created *wgpu.RenderPipeline
// is attached with SetRenderPipeline once the backend has built it.
type Pipeline struct {
	key string

	source        string
	vertexEntry   string
	fragmentEntry string
	vertexLayouts []wgpu.VertexBufferLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState

	renderPipeline *wgpu.RenderPipeline
}

// NewPipeline creates a render pipeline description with depth testing and writing enabled,
// no culling, triangle-list topology, counter-clockwise front faces and standard alpha blending
// available (but disabled).
//
// Parameters:
//   - key: the unique key for this pipeline, used for caching
//   - source: the WGSL module containing both entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - *Pipeline: the new pipeline description
func NewPipeline(key, source string, opts ...PipelineBuilderOption) *Pipeline {
	p := &Pipeline{
		key:               key,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Key() string {
	return p.key
}

func (p *Pipeline) Source() string {
	return p.source
}

func (p *Pipeline) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *Pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *Pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *Pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *Pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *Pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *Pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *Pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *Pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *Pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

// BlendState returns the blend state, or nil when blending is disabled.
func (p *Pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

// RenderPipeline returns the GPU pipeline, or nil before the backend has created it.
func (p *Pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *Pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

// Release frees the GPU pipeline, if one was created.
func (p *Pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
