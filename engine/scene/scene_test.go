package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/prismgfx/prism/engine/camera"
	"github.com/prismgfx/prism/engine/mesh"
	"github.com/prismgfx/prism/engine/renderer"
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
	"github.com/prismgfx/prism/engine/renderer/pass"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

// stubRenderer records renderer calls without touching a GPU. Methods the
// scene never invokes fall through to the embedded nil interface.
type stubRenderer struct {
	renderer.Renderer

	meshBufferInits  int
	bindGroupInits   int
	writeBatches     [][]bind_group_provider.BufferWrite
	drawnPipelines   []string
	drawnGroupCounts []int
}

func (r *stubRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	r.meshBufferInits++
	provider.SetIndexCount(indexCount)
	return nil
}

func (r *stubRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	r.bindGroupInits++
	provider.SetBindGroup(&wgpu.BindGroup{})
	return nil
}

func (r *stubRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	batch := make([]bind_group_provider.BufferWrite, len(writes))
	copy(batch, writes)
	r.writeBatches = append(r.writeBatches, batch)
}

func (r *stubRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.drawnPipelines = append(r.drawnPipelines, pipelineKey)
	r.drawnGroupCounts = append(r.drawnGroupCounts, len(bindGroups))
	return nil
}

func newTestScene(t *testing.T) (Scene, *stubRenderer) {
	t.Helper()
	r := &stubRenderer{}
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	vs := shader.NewShader("geometry_vertex", shader.ShaderTypeVertex, pass.GeometryShaderSource)
	return NewScene("test", cam, r, vs, WithUniformWorkers(2)), r
}

func TestNewSceneInitsSceneBindGroup(t *testing.T) {
	s, r := newTestScene(t)

	if r.bindGroupInits != 1 {
		t.Fatalf("scene bind group inits: got %d, want 1", r.bindGroupInits)
	}
	if s.Camera().BindGroupProvider().BindGroup() == nil {
		t.Fatal("scene construction should initialize the camera's bind group")
	}
}

func TestNewSceneNilArgsPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewScene with a nil camera must panic")
		}
	}()
	NewScene("broken", nil, &stubRenderer{}, shader.NewShader("vs", shader.ShaderTypeVertex, pass.GeometryShaderSource))
}

func TestAddAssignsGeometryPipeline(t *testing.T) {
	s, r := newTestScene(t)

	cube := mesh.NewCube()
	id, err := s.Add(cube)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == 0 {
		t.Fatal("Add should assign a nonzero ID")
	}
	if got := cube.PipelineKey(); got != pass.GeometryPipelineKey {
		t.Fatalf("pipeline key: got %q, want %q", got, pass.GeometryPipelineKey)
	}
	if r.meshBufferInits != 1 {
		t.Fatalf("mesh buffer inits: got %d, want 1", r.meshBufferInits)
	}
	if s.Count() != 1 {
		t.Fatalf("count: got %d, want 1", s.Count())
	}
	if s.Get(id) != cube {
		t.Fatal("Get should return the added mesh")
	}

	// The stub's sentinel bind group is not a live GPU handle; drop it before
	// Remove releases the provider's resources.
	cube.BindGroupProvider().SetBindGroup(nil)
	s.Remove(id)
	if s.Count() != 0 {
		t.Fatal("Remove should drop the mesh from the registry")
	}
}

func TestPrepareFrameCoalescesWrites(t *testing.T) {
	s, r := newTestScene(t)

	for range 3 {
		if _, err := s.Add(mesh.NewCube()); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	s.PrepareFrame()

	if len(r.writeBatches) != 1 {
		t.Fatalf("write batches: got %d, want a single coalesced submission", len(r.writeBatches))
	}
	writes := r.writeBatches[0]
	if len(writes) != 4 {
		t.Fatalf("writes in batch: got %d, want 4 (scene + 3 meshes)", len(writes))
	}

	// Slot 0 is the scene uniform, 272 bytes; the rest are 80-byte mesh uniforms.
	if writes[0].Provider != s.Camera().BindGroupProvider() {
		t.Fatal("first write should target the scene provider")
	}
	if len(writes[0].Data) != 272 {
		t.Fatalf("scene uniform write length: got %d, want 272", len(writes[0].Data))
	}
	for i, w := range writes[1:] {
		if len(w.Data) != 80 {
			t.Fatalf("mesh uniform write %d length: got %d, want 80", i, len(w.Data))
		}
		if w.Provider == nil || w.Binding != 0 || w.Offset != 0 {
			t.Fatalf("mesh uniform write %d misaddressed: %+v", i, w)
		}
	}
}

func TestPrepareFrameUploadsCurrentTransforms(t *testing.T) {
	s, r := newTestScene(t)

	cube := mesh.NewCube()
	if _, err := s.Add(cube); err != nil {
		t.Fatalf("Add: %v", err)
	}
	cube.SetPosition(3, 0, 0)

	s.PrepareFrame()

	writes := r.writeBatches[len(r.writeBatches)-1]
	var meshWrite *bind_group_provider.BufferWrite
	for i := range writes {
		if writes[i].Provider == cube.BindGroupProvider() {
			meshWrite = &writes[i]
		}
	}
	if meshWrite == nil {
		t.Fatal("no uniform write targeted the cube's provider")
	}

	// Translation x lives in the model matrix at column 3 row 0, byte offset 48.
	tx := math.Float32frombits(binary.LittleEndian.Uint32(meshWrite.Data[48:]))
	if tx != 3 {
		t.Fatalf("uploaded model translation x: got %v, want 3", tx)
	}
}

func TestDrawCallsBindSceneAndMesh(t *testing.T) {
	s, r := newTestScene(t)

	for range 2 {
		if _, err := s.Add(mesh.NewCube()); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	s.PrepareFrame()

	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.drawnPipelines) != 2 {
		t.Fatalf("draw calls issued: got %d, want 2", len(r.drawnPipelines))
	}
	for i, key := range r.drawnPipelines {
		if key != pass.GeometryPipelineKey {
			t.Fatalf("draw %d pipeline: got %q", i, key)
		}
		if r.drawnGroupCounts[i] != 2 {
			t.Fatalf("draw %d bind group count: got %d, want 2 (scene + mesh)", i, r.drawnGroupCounts[i])
		}
	}
}

func TestDrawCallsRejectUninitializedMesh(t *testing.T) {
	s, r := newTestScene(t)

	// Registered through the builder path, so no bind group was created.
	orphan := mesh.NewCube()
	s2 := NewScene("orphaned", s.Camera(), r, shader.NewShader("vs", shader.ShaderTypeVertex, pass.GeometryShaderSource), WithMeshes(orphan))

	if err := s2.DrawCalls(); err == nil {
		t.Fatal("drawing a mesh with no bind group must fail binding validation")
	}
}
