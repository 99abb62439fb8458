// Package scene manages the drawable set for one view: a camera, a renderer,
// and a registry of meshes. Frame preparation marshals the scene and mesh
// uniforms on a persistent worker pool, coalesces the buffer writes into one
// submission, and DrawCalls issues one validated draw per mesh.
package scene

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/prismgfx/prism/engine/camera"
	"github.com/prismgfx/prism/engine/mesh"
	"github.com/prismgfx/prism/engine/renderer"
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
	"github.com/prismgfx/prism/engine/renderer/binding"
	"github.com/prismgfx/prism/engine/renderer/pass"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

// sceneUniformBinding and meshUniformBinding are the buffer binding indices
// within the scene-tier and mesh-tier bind groups.
const (
	sceneUniformBinding = 0
	meshUniformBinding  = 0
)

// Scene manages a registry of meshes with a Camera and Renderer for rendering.
// Scenes can be hot-swapped via the Active flag to switch between different views.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Count returns the number of meshes in the scene's registry.
	//
	// Returns:
	//   - int: count of registered meshes
	Count() int

	// Add adds a mesh to the scene: uploads its vertex and index buffers,
	// creates its uniform bind group from the geometry shader's mesh-tier
	// layout, and registers it for drawing. Meshes without a pipeline key are
	// assigned the geometry pipeline.
	//
	// Parameters:
	//   - m: the mesh to add
	//
	// Returns:
	//   - uint64: the assigned mesh ID
	//   - error: an error if GPU resource initialization fails
	Add(m mesh.Mesh) (uint64, error)

	// Get retrieves a mesh by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the mesh's unique ID
	//
	// Returns:
	//   - mesh.Mesh: the mesh or nil
	Get(id uint64) mesh.Mesh

	// Remove removes a mesh from the registry by ID and releases its GPU
	// resources. No-op if the ID is not registered.
	//
	// Parameters:
	//   - id: the mesh's unique ID
	Remove(id uint64)

	// Clear removes all meshes from the scene, releasing their GPU resources.
	Clear()

	// PrepareFrame updates camera matrices, marshals the scene uniform and all
	// mesh uniforms on the worker pool, and uploads them in a single coalesced
	// buffer write. Must be called before DrawCalls each frame.
	PrepareFrame()

	// DrawCalls issues one draw call per registered mesh, each assembled
	// through a binding table validated against the geometry pass layout.
	// Must be called within a BeginFrame/EndScenePass block on the renderer.
	//
	// Returns:
	//   - error: the first binding or draw error encountered
	DrawCalls() error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]mesh.Mesh
	nextID   uint64

	cam camera.Camera
	r   renderer.Renderer

	// meshLayout is the mesh-tier bind group layout discovered from the
	// geometry vertex shader, used to initialize each added mesh.
	meshLayout shader.Shader

	// Pre-allocated slice reused each frame to avoid per-frame allocations.
	writePool []bind_group_provider.BufferWrite

	// uniformPool manages a bounded set of reusable goroutines for the
	// parallel uniform marshal phase of PrepareFrame. Workers persist across
	// frames, avoiding per-frame goroutine spawn/teardown overhead.
	uniformPool    worker.DynamicWorkerPool
	uniformWorkers int
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera, renderer, and a vertex
// shader used to discover the scene and mesh bind group layouts. All three are
// required and NewScene panics if any of them is nil. The vertex shader's
// BindGroupVarNames are scanned for a group containing "scene" and its layout
// descriptor is used to initialize the camera's BindGroupProvider on the GPU.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - vertexShader: a vertex shader whose bind groups include the scene uniform layout (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, vertexShader shader.Shader, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if vertexShader == nil {
		panic("scene: NewScene requires a non-nil vertex shader for bind group init")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         false,
		cam:            cam,
		r:              r,
		meshLayout:     vertexShader,
		registry:       make(map[uint64]mesh.Mesh),
		nextID:         1,
		uniformWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithUniformWorkers can override the default.
	// Queue size of 256 accommodates typical mesh counts with headroom.
	s.uniformPool = worker.NewDynamicWorkerPool(s.uniformWorkers, 256, 1*time.Second)

	// Initialize the camera's bind group on the GPU using the layout from the vertex shader.
	sceneGroup := binding.GroupScene
	for group, names := range vertexShader.BindGroupVarNames() {
		for _, varName := range names {
			if strings.Contains(strings.ToLower(varName), "scene") {
				sceneGroup = group
				break
			}
		}
	}
	if bgp := cam.BindGroupProvider(); bgp != nil {
		if err := r.InitBindGroup(bgp, vertexShader.BindGroupLayoutDescriptor(sceneGroup), nil); err != nil {
			panic(fmt.Sprintf("scene: failed to init scene bind group: %v", err))
		}
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(m mesh.Mesh) (uint64, error) {
	if m == nil {
		return 0, fmt.Errorf("scene: cannot add a nil mesh")
	}

	if m.PipelineKey() == "" {
		m.SetPipelineKey(pass.GeometryPipelineKey)
	}

	provider := m.BindGroupProvider()
	if err := s.r.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		return 0, fmt.Errorf("scene: failed to init mesh buffers for %q: %w", m.Name(), err)
	}
	if err := s.r.InitBindGroup(provider, s.meshLayout.BindGroupLayoutDescriptor(binding.GroupMesh), nil); err != nil {
		return 0, fmt.Errorf("scene: failed to init mesh bind group for %q: %w", m.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.registry[id] = m
	return id, nil
}

func (s *scene) Get(id uint64) mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.registry[id]
	if !exists {
		return
	}
	delete(s.registry, id)

	if bgp := m.BindGroupProvider(); bgp != nil {
		bgp.Release()
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.registry {
		if bgp := m.BindGroupProvider(); bgp != nil {
			bgp.Release()
		}
	}
	s.registry = make(map[uint64]mesh.Mesh)
}

func (s *scene) PrepareFrame() {
	s.cam.Update()

	s.mu.Lock()
	meshes := make([]mesh.Mesh, 0, len(s.registry))
	for _, m := range s.registry {
		meshes = append(meshes, m)
	}
	cam := s.cam
	writes := s.writePool[:0]
	s.mu.Unlock()

	// Each task marshals into its own pre-assigned slot, so the slice needs
	// no locking during the parallel phase.
	if cap(writes) < len(meshes)+1 {
		writes = make([]bind_group_provider.BufferWrite, len(meshes)+1)
	} else {
		writes = writes[:len(meshes)+1]
	}

	var wg sync.WaitGroup
	taskID := uint64(0)

	wg.Add(1)
	s.uniformPool.SubmitTask(worker.Task{
		ID: int(taskID),
		Do: func() (any, error) {
			defer wg.Done()
			writes[0] = bind_group_provider.BufferWrite{
				Provider: cam.BindGroupProvider(),
				Binding:  sceneUniformBinding,
				Offset:   0,
				Data:     cam.SceneUniform().Marshal(),
			}
			return nil, nil
		},
	})
	taskID++

	for i, m := range meshes {
		wg.Add(1)
		slot := i + 1
		mCap := m // capture for closure
		id := taskID
		taskID++
		s.uniformPool.SubmitTask(worker.Task{
			ID: int(id),
			Do: func() (any, error) {
				defer wg.Done()
				writes[slot] = bind_group_provider.BufferWrite{
					Provider: mCap.BindGroupProvider(),
					Binding:  meshUniformBinding,
					Offset:   0,
					Data:     mCap.MeshUniform().Marshal(),
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	s.mu.Lock()
	s.writePool = writes
	s.mu.Unlock()

	// Coalesced GPU submission: all uniform writes land in one renderer call,
	// reducing mutex acquisitions from N to 1 for writes.
	if len(writes) > 0 {
		s.r.WriteBuffers(writes)
	}
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	meshes := make([]mesh.Mesh, len(ids))
	for i, id := range ids {
		meshes[i] = s.registry[id]
	}
	cam := s.cam
	s.mu.RUnlock()

	sceneProvider := cam.BindGroupProvider()

	for _, m := range meshes {
		table := binding.NewTable(binding.GeometryPassLayout)
		if err := table.BindScene(sceneProvider); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		if err := table.BindMesh(m.BindGroupProvider()); err != nil {
			return fmt.Errorf("scene: mesh %q: %w", m.Name(), err)
		}
		providers, err := table.Providers()
		if err != nil {
			return fmt.Errorf("scene: mesh %q: %w", m.Name(), err)
		}

		if err := s.r.DrawCall(m.PipelineKey(), m.BindGroupProvider(), 1, providers); err != nil {
			return fmt.Errorf("scene: mesh %q: %w", m.Name(), err)
		}
	}
	return nil
}
