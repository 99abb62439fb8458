package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSceneUniformSource is the canonical WGSL definition of the SceneUniform struct.
// Matches GPUSceneUniform layout exactly (272 bytes, WGSL aligned).
//
//go:embed assets/scene_uniform.wgsl
var GPUSceneUniformSource string

// GPUSceneUniform is the GPU-aligned representation of the per-scene uniform buffer.
// Matches the WGSL SceneUniform struct layout exactly (see GPUSceneUniformSource).
// Size: 272 bytes (WGSL aligned). The inverse matrices and camera position are
// uploaded every frame alongside the forward matrices so shaders can
// reconstruct world-space rays without a second buffer.
type GPUSceneUniform struct {
	Perspective        [16]float32 // offset   0: projection matrix (mat4x4<f32>)
	View               [16]float32 // offset  64: view matrix (mat4x4<f32>)
	InversePerspective [16]float32 // offset 128: inverse projection matrix (mat4x4<f32>)
	InverseView        [16]float32 // offset 192: inverse view matrix (mat4x4<f32>)
	CameraPosition     [3]float32  // offset 256: world-space camera position (vec3<f32>)
	AspectRatio        float32     // offset 268: surface width / height (f32)
}

// Size returns the size of the GPUSceneUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (272)
func (g *GPUSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Perspective[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.View[i]))
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.InversePerspective[i]))
		binary.LittleEndian.PutUint32(buf[192+i*4:], math.Float32bits(g.InverseView[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[256+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[268:], math.Float32bits(g.AspectRatio))
	return buf
}
