package pass

import (
	_ "embed"

	"github.com/prismgfx/prism/engine/renderer/pipeline"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

// MinimalPipelineKey identifies the hello-triangle pipeline in the renderer cache.
const MinimalPipelineKey = "minimal"

// MinimalVertexCount is the number of procedural vertices the minimal pass draws.
const MinimalVertexCount = 3

// MinimalShaderSource is the WGSL source of the hello-triangle smoke pass:
// three hardcoded clip-space positions from the vertex index, constant yellow
// output, no buffers and no bindings.
//
//go:embed assets/minimal.wgsl
var MinimalShaderSource string

// NewMinimalPipeline builds the hello-triangle pipeline configuration. It
// draws in the scene pass, so the default depth state applies.
//
// Returns:
//   - pipeline.Pipeline: the configured minimal pipeline
func NewMinimalPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(MinimalPipelineKey,
		pipeline.WithVertexShader(shader.NewShader("minimal_vertex", shader.ShaderTypeVertex, MinimalShaderSource)),
		pipeline.WithFragmentShader(shader.NewShader("minimal_fragment", shader.ShaderTypeFragment, MinimalShaderSource)),
	)
}

// minimalTrianglePositions are the three hardcoded clip-space vertices, in
// emission order.
var minimalTrianglePositions = [MinimalVertexCount][4]float32{
	{0, 0, 0, 1},
	{0, 0.5, 0, 1},
	{0.5, 0, 0, 1},
}

// MinimalVertexPosition is the host-side mirror of the minimal vertex stage.
//
// Parameters:
//   - index: the vertex index in [0, 3)
//
// Returns:
//   - [4]float32: the clip-space position of the vertex
func MinimalVertexPosition(index int) [4]float32 {
	return minimalTrianglePositions[index]
}

// MinimalFragmentColor is the host-side mirror of the minimal fragment stage:
// constant yellow.
//
// Returns:
//   - [4]float32: (1, 1, 0, 1)
func MinimalFragmentColor() [4]float32 {
	return [4]float32{1, 1, 0, 1}
}
