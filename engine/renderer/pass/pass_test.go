package pass

import (
	"math"
	"testing"

	"github.com/prismgfx/prism/common"
	"github.com/prismgfx/prism/engine/renderer/shader"
)

func identity() []float32 {
	m := make([]float32, 16)
	common.Identity(m)
	return m
}

func TestClipPositionIdentityTransforms(t *testing.T) {
	// With all three matrices at identity the clip position is the input
	// position with w = 1, exactly.
	tests := [][3]float32{
		{0, 0, 0},
		{1, 2, 3},
		{-0.5, 0.25, -4},
	}
	for _, position := range tests {
		got := ClipPosition(identity(), identity(), identity(), position)
		want := [4]float32{position[0], position[1], position[2], 1}
		if got != want {
			t.Fatalf("ClipPosition(%v): got %v, want %v", position, got, want)
		}
	}
}

func TestClipPositionOrderSensitivity(t *testing.T) {
	perspective := make([]float32, 16)
	common.Perspective(perspective, math.Pi/2, 16.0/9.0, 0.1, 100)

	view := make([]float32, 16)
	common.LookAt(view, 0, 3, -3, 0, 0, 0, 0, 1, 0)

	model := make([]float32, 16)
	common.BuildModelMatrix(model, 1, 0, 2, 0, 0.5, 0, 1, 1, 1)

	position := [3]float32{0.3, -0.7, 1.1}
	canonical := ClipPosition(perspective, view, model, position)
	swapped := ClipPosition(view, perspective, model, position)

	if canonical == swapped {
		t.Fatal("swapping projection and view must change the clip position")
	}
}

func TestFullscreenVertexPositions(t *testing.T) {
	want := [FullscreenVertexCount][4]float32{
		{-1, -1, 0, 1},
		{1, 1, 0, 1},
		{-1, 1, 0, 1},
		{-1, -1, 0, 1},
		{1, -1, 0, 1},
		{1, 1, 0, 1},
	}
	for i := 0; i < FullscreenVertexCount; i++ {
		if got := FullscreenVertexPosition(i); got != want[i] {
			t.Fatalf("vertex %d: got %v, want %v", i, got, want[i])
		}
	}
}

func TestMinimalPassMirrors(t *testing.T) {
	want := [MinimalVertexCount][4]float32{
		{0, 0, 0, 1},
		{0, 0.5, 0, 1},
		{0.5, 0, 0, 1},
	}
	for i := 0; i < MinimalVertexCount; i++ {
		if got := MinimalVertexPosition(i); got != want[i] {
			t.Fatalf("vertex %d: got %v, want %v", i, got, want[i])
		}
	}
	if got := MinimalFragmentColor(); got != [4]float32{1, 1, 0, 1} {
		t.Fatalf("fragment color: got %v, want yellow", got)
	}
}

func TestDepthDebugColorPassthrough(t *testing.T) {
	for _, depth := range []float32{0, 0.25, 0.5, 1} {
		got := DepthDebugColor(depth)
		if got != [4]float32{depth, depth, depth, 1} {
			t.Fatalf("DepthDebugColor(%v): got %v", depth, got)
		}
	}
}

// TestNearerPointRendersDarker walks two points at different view depths
// through the host-side pipeline mirror: geometry transform, perspective
// divide, then the depth debug grayscale mapping. The nearer point must come
// out strictly darker, which pins the depth convention to 0 = near = black.
func TestNearerPointRendersDarker(t *testing.T) {
	perspective := make([]float32, 16)
	common.Perspective(perspective, math.Pi/2, 1, 0.1, 100)

	view := identity()
	model := identity()

	// The camera looks down -z in view space.
	near := [3]float32{0, 0, -1}
	far := [3]float32{0, 0, -10}

	depthOf := func(p [3]float32) float32 {
		clip := ClipPosition(perspective, view, model, p)
		if clip[3] <= 0 {
			t.Fatalf("point %v landed behind the camera (w=%v)", p, clip[3])
		}
		return clip[2] / clip[3]
	}

	nearDepth := depthOf(near)
	farDepth := depthOf(far)

	if nearDepth >= farDepth {
		t.Fatalf("near depth %v should be below far depth %v", nearDepth, farDepth)
	}
	if nearDepth < 0 || farDepth > 1 {
		t.Fatalf("depths escaped [0, 1]: near %v, far %v", nearDepth, farDepth)
	}

	nearColor := DepthDebugColor(nearDepth)
	farColor := DepthDebugColor(farDepth)
	if nearColor[0] >= farColor[0] {
		t.Fatalf("nearer pixel %v should be strictly darker than farther pixel %v", nearColor, farColor)
	}
}

func TestPipelineConfigurations(t *testing.T) {
	geometry := NewGeometryPipeline()
	if geometry.PipelineKey() != GeometryPipelineKey {
		t.Fatalf("geometry key: got %q", geometry.PipelineKey())
	}
	if !geometry.DepthAttachmentEnabled() || !geometry.DepthTestEnabled() || !geometry.DepthWriteEnabled() {
		t.Fatal("geometry pipeline must test and write depth in a depth-attached pass")
	}
	vs := geometry.Shader(shader.ShaderTypeVertex)
	if vs == nil || vs.EntryPoint() != "vs_main" {
		t.Fatal("geometry vertex shader should parse vs_main")
	}
	if len(vs.VertexLayouts()) != 1 || vs.VertexLayouts()[0].ArrayStride != 24 {
		t.Fatal("geometry vertex shader should declare a 24-byte vertex layout")
	}

	debug := NewDepthDebugPipeline()
	if debug.DepthAttachmentEnabled() {
		t.Fatal("depth debug pipeline must not carry a depth attachment")
	}
	debugVS := debug.Shader(shader.ShaderTypeVertex)
	if len(debugVS.VertexLayouts()) != 0 {
		t.Fatal("depth debug vertex shader is procedural and must declare no vertex buffers")
	}

	minimal := NewMinimalPipeline()
	minimalVS := minimal.Shader(shader.ShaderTypeVertex)
	if len(minimalVS.VertexLayouts()) != 0 {
		t.Fatal("minimal vertex shader is procedural and must declare no vertex buffers")
	}
	if len(minimalVS.BindGroupLayoutDescriptors()) != 0 {
		t.Fatal("minimal shader must declare no bind groups")
	}
}
