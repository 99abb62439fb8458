package pass

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/prismgfx/prism/engine/renderer/pipeline"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

// DepthDebugPipelineKey identifies the depth debug blit pipeline in the renderer cache.
const DepthDebugPipelineKey = "depth_debug"

// FullscreenVertexCount is the number of procedural vertices the depth debug
// pass draws: two clip-space triangles covering the viewport.
const FullscreenVertexCount = 6

// DepthDebugShaderSource is the WGSL source of the depth debug blit. The
// vertex stage emits a full-screen quad from the vertex index with no vertex
// buffers, and the fragment stage reads the raw depth value at the fragment's
// own pixel via textureLoad at mip 0 and writes it as grayscale.
//
//go:embed assets/depth_debug.wgsl
var DepthDebugShaderSource string

// NewDepthDebugPipeline builds the depth debug blit pipeline configuration.
// The blit runs in a pass with no depth attachment, so the pipeline carries
// no depth/stencil state, and culling is disabled so the quad's winding
// never matters.
//
// Returns:
//   - pipeline.Pipeline: the configured depth debug pipeline
func NewDepthDebugPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(DepthDebugPipelineKey,
		pipeline.WithVertexShader(shader.NewShader("depth_debug_vertex", shader.ShaderTypeVertex, DepthDebugShaderSource)),
		pipeline.WithFragmentShader(shader.NewShader("depth_debug_fragment", shader.ShaderTypeFragment, DepthDebugShaderSource)),
		pipeline.WithDepthAttachmentEnabled(false),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}

// fullscreenQuadPositions are the six clip-space corners of the full-screen
// quad, in the exact emission order of the vertex stage.
var fullscreenQuadPositions = [FullscreenVertexCount][2]float32{
	{-1, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
	{1, 1},
}

// FullscreenVertexPosition is the host-side mirror of the depth debug vertex
// stage. For i in [0, FullscreenVertexCount) it returns the clip-space
// position of the i-th procedural vertex, with z = 0 and w = 1.
//
// Parameters:
//   - index: the vertex index in [0, 6)
//
// Returns:
//   - [4]float32: the clip-space position of the vertex
func FullscreenVertexPosition(index int) [4]float32 {
	p := fullscreenQuadPositions[index]
	return [4]float32{p[0], p[1], 0, 1}
}

// DepthDebugColor is the host-side mirror of the depth debug fragment stage:
// the raw depth value is splatted to RGB with alpha 1 and no remapping, so
// depth 0 (near) renders black and depth 1 (far) renders white.
//
// Parameters:
//   - depth: the raw depth buffer value in [0, 1]
//
// Returns:
//   - [4]float32: the grayscale output color
func DepthDebugColor(depth float32) [4]float32 {
	return [4]float32{depth, depth, depth, 1}
}
