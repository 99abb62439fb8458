// Package pass defines the three render passes of the forward pipeline:
// the geometry transform pass, the depth debug blit, and the minimal
// hello-triangle smoke pass. Each pass ships its WGSL source plus a pipeline
// constructor, and the Go functions in this package are the canonical
// host-side definitions the WGSL mirrors exactly.
package pass

import (
	_ "embed"

	"github.com/prismgfx/prism/common"
	"github.com/prismgfx/prism/engine/renderer/pipeline"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

// GeometryPipelineKey identifies the geometry transform pipeline in the renderer cache.
const GeometryPipelineKey = "geometry"

// GeometryShaderSource is the WGSL source of the geometry transform pass.
// Vertices are transformed by perspective * view * model and fragments take
// the mesh's flat debug color with alpha forced to 1.
//
//go:embed assets/geometry.wgsl
var GeometryShaderSource string

// NewGeometryPipeline builds the geometry transform pipeline configuration:
// depth tested and depth written, triangle list, no blending. Register the
// returned pipeline with the renderer before drawing.
//
// Returns:
//   - pipeline.Pipeline: the configured geometry pipeline
func NewGeometryPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(GeometryPipelineKey,
		pipeline.WithVertexShader(shader.NewShader("geometry_vertex", shader.ShaderTypeVertex, GeometryShaderSource)),
		pipeline.WithFragmentShader(shader.NewShader("geometry_fragment", shader.ShaderTypeFragment, GeometryShaderSource)),
		pipeline.WithDepthTestEnabled(true),
		pipeline.WithDepthWriteEnabled(true),
	)
}

// ClipPosition is the host-side mirror of the geometry vertex transform:
// clip = perspective * view * model * vec4(position, 1). The multiplication
// order is load-bearing; swapping projection and view produces a different
// clip position for any non-commuting pair.
//
// Parameters:
//   - perspective: the projection matrix (16 elements, column-major)
//   - view: the view matrix (16 elements, column-major)
//   - model: the model matrix (16 elements, column-major)
//   - position: the object-space vertex position
//
// Returns:
//   - [4]float32: the clip-space position before the perspective divide
func ClipPosition(perspective, view, model []float32, position [3]float32) [4]float32 {
	var pv, pvm [16]float32
	common.Mul4(pv[:], perspective, view)
	common.Mul4(pvm[:], pv[:], model)
	return common.MulVec4(pvm[:], [4]float32{position[0], position[1], position[2], 1})
}
