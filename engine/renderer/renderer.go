// Package renderer provides the GPU rendering frontend and its backend
// implementations. The Renderer owns a cache of registered pipelines and
// delegates all device work to a RendererBackend, currently backed by WebGPU
// through wgpu-native.
package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
	"github.com/prismgfx/prism/engine/renderer/pipeline"
	"github.com/prismgfx/prism/engine/window"
)

type renderer struct {
	backend       RendererBackend
	pipelineCache map[string]pipeline.Pipeline

	pendingPresentMode   *PresentMode
	forceFallbackAdapter bool
}

// Renderer is the interface for the engine's rendering frontend. It caches
// pipelines by key and forwards GPU work to the selected backend.
type Renderer interface {
	// Backend returns the underlying RendererBackend for direct access to GPU resources.
	Backend() RendererBackend

	// Pipeline retrieves a cached Pipeline by its key.
	//
	// Parameters:
	//   - key: the unique identifier of the pipeline
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline, or nil if no pipeline exists for the key
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns the full pipeline cache keyed by pipeline key.
	Pipelines() map[string]pipeline.Pipeline

	// SetPipeline stores a Pipeline in the cache under the given key without registering it
	// with the backend. Use RegisterPipelines to create the GPU-side pipeline objects.
	//
	// Parameters:
	//   - key: the unique identifier for the pipeline
	//   - p: the Pipeline to cache
	SetPipeline(key string, p pipeline.Pipeline)

	// RegisterPipelines registers every cached pipeline that does not yet have a GPU pipeline
	// object with the backend. Safe to call repeatedly; already-registered pipelines are skipped.
	//
	// Returns:
	//   - error: the first registration error encountered, otherwise nil
	RegisterPipelines() error

	// Resize reconfigures the surface and depth attachment for a new drawable size.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SetPresentMode changes the surface present mode. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex and index data for a mesh and stores the resulting
	// buffers on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw index bytes
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if buffer creation failed, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the uniform buffers and bind group described by the descriptor
	// and stores them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider describing storage for the bind group
	//   - descriptor: the layout of the bind group
	//   - bufferSizeOverrides: custom buffer sizes keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if the bind group could not be created, otherwise nil
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitDepthBindGroup creates a bind group exposing the depth attachment at binding 0
	// and keeps it refreshed across surface resizes.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to hold the depth bind group
	//   - descriptor: the layout declaring the depth texture entry
	//
	// Returns:
	//   - error: an error if the bind group could not be created, otherwise nil
	InitDepthBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers flushes staged uniform writes to the GPU queue.
	//
	// Parameters:
	//   - writes: the buffer writes to apply
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// DepthTextureView returns the current depth attachment view, or nil before the first Resize.
	DepthTextureView() *wgpu.TextureView

	// BeginFrame opens a new frame: acquires the swapchain texture and begins the scene pass
	// with color and depth cleared.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes an instanced indexed draw in the scene pass using the pipeline cached
	// under pipelineKey.
	//
	// Parameters:
	//   - pipelineKey: the key of the cached pipeline to draw with
	//   - meshProvider: the provider holding the mesh's vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set in slice order
	//
	// Returns:
	//   - error: an error if no pipeline is cached for the key
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawProcedural encodes a non-indexed draw with no vertex buffers in the scene pass.
	//
	// Parameters:
	//   - pipelineKey: the key of the cached pipeline to draw with
	//   - vertexCount: the number of procedural vertices to draw
	//   - bindGroups: providers whose bind groups are set in slice order
	//
	// Returns:
	//   - error: an error if no pipeline is cached for the key
	DrawProcedural(pipelineKey string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndScenePass ends the scene pass while keeping the frame encoder open for BlitDepth.
	EndScenePass()

	// BlitDepth records the depth visualization pass: a fullscreen draw sampling the scene
	// pass's depth attachment into the swapchain. Call between EndScenePass and EndFrame.
	//
	// Parameters:
	//   - pipelineKey: the key of the cached blit pipeline
	//   - depthProvider: the provider holding the depth texture bind group
	//   - vertexCount: the number of procedural vertices to draw (typically a fullscreen quad)
	//
	// Returns:
	//   - error: an error if no pipeline is cached for the key
	BlitDepth(pipelineKey string, depthProvider bind_group_provider.BindGroupProvider, vertexCount uint32) error

	// EndFrame finishes and submits the frame's command buffer.
	EndFrame()

	// Present displays the completed frame and releases the swapchain texture.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend type, targeting the
// provided window's surface.
//
// Parameters:
//   - backendType: the RendererBackendType selecting the GPU API
//   - win: the window whose surface the renderer draws to
//   - options: optional RendererBuilderOptions to configure the renderer
//
// Returns:
//   - Renderer: the constructed renderer
//
// Panics if the backend type is unknown or device acquisition fails.
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		pipelineCache: make(map[string]pipeline.Pipeline),
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	default:
		panic(fmt.Sprintf("unsupported renderer backend type: %d", backendType))
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())

	return r
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	return r.pipelineCache
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.pipelineCache[key] = p
}

func (r *renderer) RegisterPipelines() error {
	for key, p := range r.pipelineCache {
		if p.Pipeline() != nil {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitDepthBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitDepthBindGroup(provider, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) DepthTextureView() *wgpu.TextureView {
	return r.backend.DepthTextureView()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, ok := r.pipelineCache[pipelineKey]
	if !ok {
		return fmt.Errorf("no pipeline cached for key %q", pipelineKey)
	}
	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

func (r *renderer) DrawProcedural(pipelineKey string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, ok := r.pipelineCache[pipelineKey]
	if !ok {
		return fmt.Errorf("no pipeline cached for key %q", pipelineKey)
	}
	r.backend.DrawProcedural(p, vertexCount, bindGroups)
	return nil
}

func (r *renderer) EndScenePass() {
	r.backend.EndScenePass()
}

func (r *renderer) BlitDepth(pipelineKey string, depthProvider bind_group_provider.BindGroupProvider, vertexCount uint32) error {
	p, ok := r.pipelineCache[pipelineKey]
	if !ok {
		return fmt.Errorf("no pipeline cached for key %q", pipelineKey)
	}
	r.backend.BlitDepth(p, depthProvider, vertexCount)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
