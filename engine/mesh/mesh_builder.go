package mesh

import (
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
)

// MeshBuilderOption is a functional option applied to a mesh during construction via NewMesh.
type MeshBuilderOption func(*meshImpl)

// WithName sets the mesh identifier.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: functional option to set the name
func WithName(name string) MeshBuilderOption {
	return func(m *meshImpl) {
		m.name = name
	}
}

// WithPipelineKey sets the key of the pipeline this mesh draws with.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MeshBuilderOption: functional option to set the pipeline key
func WithPipelineKey(key string) MeshBuilderOption {
	return func(m *meshImpl) {
		m.pipelineKey = key
	}
}

// WithVertices stages the mesh's vertex data.
//
// Parameters:
//   - vertices: the vertices to stage
//
// Returns:
//   - MeshBuilderOption: functional option to set the vertices
func WithVertices(vertices []GPUVertex) MeshBuilderOption {
	return func(m *meshImpl) {
		m.vertices = vertices
	}
}

// WithIndices stages the mesh's index data.
//
// Parameters:
//   - indices: the indices to stage
//
// Returns:
//   - MeshBuilderOption: functional option to set the indices
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.indices = indices
	}
}

// WithPosition sets the mesh's initial world-space position.
//
// Parameters:
//   - x, y, z: world-space position
//
// Returns:
//   - MeshBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.position = [3]float32{x, y, z}
		m.modelDirty = true
	}
}

// WithRotation sets the mesh's initial Euler rotation in radians.
//
// Parameters:
//   - x, y, z: rotation around each axis in radians
//
// Returns:
//   - MeshBuilderOption: functional option to set the rotation
func WithRotation(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.rotation = [3]float32{x, y, z}
		m.modelDirty = true
	}
}

// WithScale sets the mesh's initial per-axis scale factors.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - MeshBuilderOption: functional option to set the scale
func WithScale(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.scale = [3]float32{x, y, z}
		m.modelDirty = true
	}
}

// WithRandomColor overrides the randomly generated debug color.
//
// Parameters:
//   - r, g, b, a: the color components
//
// Returns:
//   - MeshBuilderOption: functional option to set the color
func WithRandomColor(r, g, b, a float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.randomColor = [4]float32{r, g, b, a}
	}
}

// WithBindGroupProvider attaches a bind group provider to the mesh.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - MeshBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *meshImpl) {
		m.bindGroupProvider = provider
	}
}
