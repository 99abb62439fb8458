package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (24-byte stride).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 24 bytes, two tightly packed vec3 attributes.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal, reserved for shading passes (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	return buf
}

// MarshalVertices serializes a vertex slice into one contiguous buffer at the
// 24-byte stride the vertex layout declares.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: the packed vertex buffer
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*24)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices serializes an index slice into a little-endian uint32 buffer
// matching the renderer's index format.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: the packed index buffer
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// GPUMeshUniformSource is the canonical WGSL definition of the MeshUniform struct.
// Matches GPUMeshUniform layout exactly (80 bytes, WGSL aligned).
//
//go:embed assets/mesh_uniform.wgsl
var GPUMeshUniformSource string

// GPUMeshUniform is the GPU-aligned representation of the per-mesh uniform buffer.
// Matches the WGSL MeshUniform struct layout exactly (see GPUMeshUniformSource).
// Size: 80 bytes (mat4x4<f32> + vec4<f32>, WGSL aligned, no padding required).
type GPUMeshUniform struct {
	Model       [16]float32 // offset  0: model-to-world transform matrix (64 bytes)
	RandomColor [4]float32  // offset 64: per-mesh debug color, RGBA (16 bytes)
}

// Size returns the size of the GPUMeshUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUMeshUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUMeshUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.RandomColor[i]))
	}
	return buf
}
