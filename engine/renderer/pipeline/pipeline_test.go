package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("basic", "// wgsl")
	assert.Equal(t, "basic", p.Key())
	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Nil(t, p.BlendState())
	assert.Nil(t, p.RenderPipeline())
}

func TestPipelineOptions(t *testing.T) {
	layout := wgpu.VertexBufferLayout{ArrayStride: 16, StepMode: wgpu.VertexStepModeVertex}
	p := NewPipeline("lines", "",
		WithEntryPoints("vs", "fs"),
		WithVertexLayouts(layout),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithCullMode(wgpu.CullModeBack),
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
		WithDepthTestEnabled(false),
	)
	assert.Equal(t, "vs", p.VertexEntryPoint())
	assert.Equal(t, "fs", p.FragmentEntryPoint())
	assert.Len(t, p.VertexLayouts(), 1)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.False(t, p.DepthWriteEnabled())
	assert.False(t, p.DepthTestEnabled())
	if assert.NotNil(t, p.BlendState()) {
		assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	}

	p.Release()
	assert.Nil(t, p.RenderPipeline())
}
