package scene

import (
	"github.com/prismgfx/prism/engine/mesh"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithMeshes registers initial meshes in the scene's registry without
// touching the GPU. Meshes added this way must still have their buffers and
// bind groups initialized, so prefer Add for GPU-ready registration; this
// option exists for tests and deferred setups.
//
// Parameters:
//   - meshes: the meshes to register
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshes(meshes ...mesh.Mesh) SceneBuilderOption {
	return func(s *scene) {
		for _, m := range meshes {
			s.registry[s.nextID] = m
			s.nextID++
		}
	}
}

// WithUniformWorkers sets the number of worker goroutines used during the
// parallel uniform marshal phase of PrepareFrame. Defaults to runtime.NumCPU()-1.
// Higher values may improve throughput with many meshes; lower values reduce
// scheduling overhead for simple scenes.
//
// Parameters:
//   - n: the number of uniform workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUniformWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.uniformWorkers = n
	}
}
