// Package mesh provides GPU-ready geometry containers: staged vertex and
// index data, a lazily rebuilt model transform, and the per-mesh uniform
// uploaded to the geometry pass.
package mesh

import (
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/prismgfx/prism/common"
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
)

// meshCount is an atomic counter used to generate unique bind group provider names for each mesh instance.
var meshCount atomic.Uint64

type meshImpl struct {
	mu *sync.Mutex

	name        string
	pipelineKey string

	vertices []GPUVertex
	indices  []uint32

	position [3]float32
	rotation [3]float32 // Euler angles in radians, applied Y then X then Z
	scale    [3]float32

	modelMatrix [16]float32
	modelDirty  bool

	randomColor [4]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Mesh is a GPU-ready container for one drawable object: staged geometry,
// a model transform rebuilt on demand from position/rotation/scale, and the
// debug color baked in at construction.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// PipelineKey returns the key of the pipeline this mesh draws with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the key of the pipeline this mesh draws with.
	//
	// Parameters:
	//   - key: the pipeline key to set
	SetPipelineKey(key string)

	// Vertices returns the staged vertex data.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the staged index data.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData returns the packed vertex buffer ready for GPU upload.
	//
	// Returns:
	//   - []byte: the serialized vertex data
	VertexData() []byte

	// IndexData returns the packed index buffer ready for GPU upload.
	//
	// Returns:
	//   - []byte: the serialized index data
	IndexData() []byte

	// IndexCount returns the number of staged indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Position returns the mesh's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space position
	Position() (x, y, z float32)

	// Rotation returns the mesh's Euler rotation in radians.
	//
	// Returns:
	//   - x, y, z: rotation around each axis in radians
	Rotation() (x, y, z float32)

	// Scale returns the mesh's per-axis scale factors.
	//
	// Returns:
	//   - x, y, z: scale factors
	Scale() (x, y, z float32)

	// SetPosition sets the mesh's world-space position and marks the model matrix for rebuild.
	//
	// Parameters:
	//   - x, y, z: world-space position
	SetPosition(x, y, z float32)

	// SetRotation sets the mesh's Euler rotation in radians and marks the model matrix for rebuild.
	//
	// Parameters:
	//   - x, y, z: rotation around each axis in radians
	SetRotation(x, y, z float32)

	// SetScale sets the mesh's per-axis scale factors and marks the model matrix for rebuild.
	//
	// Parameters:
	//   - x, y, z: scale factors
	SetScale(x, y, z float32)

	// ModelMatrix returns the model-to-world matrix, rebuilding it from
	// position/rotation/scale if any of them changed since the last call.
	//
	// Returns:
	//   - [16]float32: the model matrix (column-major)
	ModelMatrix() [16]float32

	// RandomColor returns the debug color assigned to this mesh at construction.
	//
	// Returns:
	//   - [4]float32: RGBA color, RGB in [0, 1), alpha 1
	RandomColor() [4]float32

	// MeshUniform snapshots the mesh state into the per-mesh GPU uniform.
	//
	// Returns:
	//   - *GPUMeshUniform: the populated uniform, ready to Marshal
	MeshUniform() *GPUMeshUniform

	// BindGroupProvider returns the mesh's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the mesh's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Mesh = &meshImpl{}

// NewMesh creates a new Mesh with the specified options applied. Every mesh
// receives a random debug color (RGB in [0, 1), alpha 1) unless one is
// provided via WithRandomColor, and defaults to unit scale at the origin.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &meshImpl{
		mu:    &sync.Mutex{},
		name:  "mesh_" + strconv.FormatUint(meshCount.Load(), 10),
		scale: [3]float32{1, 1, 1},
		randomColor: [4]float32{
			rand.Float32(),
			rand.Float32(),
			rand.Float32(),
			1,
		},
		modelDirty: true,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name)
	}
	meshCount.Add(1)
	return m
}

func (m *meshImpl) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

func (m *meshImpl) PipelineKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelineKey
}

func (m *meshImpl) SetPipelineKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineKey = key
}

func (m *meshImpl) Vertices() []GPUVertex {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertices
}

func (m *meshImpl) Indices() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indices
}

func (m *meshImpl) VertexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MarshalVertices(m.vertices)
}

func (m *meshImpl) IndexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MarshalIndices(m.indices)
}

func (m *meshImpl) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indices)
}

func (m *meshImpl) Position() (x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position[0], m.position[1], m.position[2]
}

func (m *meshImpl) Rotation() (x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation[0], m.rotation[1], m.rotation[2]
}

func (m *meshImpl) Scale() (x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale[0], m.scale[1], m.scale[2]
}

func (m *meshImpl) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
	m.modelDirty = true
}

func (m *meshImpl) SetRotation(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = [3]float32{x, y, z}
	m.modelDirty = true
}

func (m *meshImpl) SetScale(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = [3]float32{x, y, z}
	m.modelDirty = true
}

func (m *meshImpl) ModelMatrix() [16]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modelDirty {
		common.BuildModelMatrix(m.modelMatrix[:],
			m.position[0], m.position[1], m.position[2],
			m.rotation[0], m.rotation[1], m.rotation[2],
			m.scale[0], m.scale[1], m.scale[2],
		)
		m.modelDirty = false
	}
	return m.modelMatrix
}

func (m *meshImpl) RandomColor() [4]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.randomColor
}

func (m *meshImpl) MeshUniform() *GPUMeshUniform {
	return &GPUMeshUniform{
		Model:       m.ModelMatrix(),
		RandomColor: m.RandomColor(),
	}
}

func (m *meshImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindGroupProvider
}

func (m *meshImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindGroupProvider = provider
}

// NewCube creates a unit cube mesh centered at the origin with per-face
// normals, 24 vertices and 36 indices.
//
// Parameters:
//   - options: additional MeshBuilderOptions applied after the geometry
//
// Returns:
//   - Mesh: the cube mesh
func NewCube(options ...MeshBuilderOption) Mesh {
	const h = 0.5
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, face := range faces {
		base := uint32(len(vertices))
		for _, corner := range face.corners {
			vertices = append(vertices, GPUVertex{Position: corner, Normal: face.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	opts := append([]MeshBuilderOption{
		WithVertices(vertices),
		WithIndices(indices),
	}, options...)
	return NewMesh(opts...)
}
