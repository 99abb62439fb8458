package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const geometryVertexSource = `
struct SceneUniform {
    perspective: mat4x4<f32>,
    view: mat4x4<f32>,
    inverse_perspective: mat4x4<f32>,
    inverse_view: mat4x4<f32>,
    camera_position: vec3<f32>,
    aspect_ratio: f32,
}

struct MeshUniform {
    model: mat4x4<f32>,
    random_color: vec4<f32>,
}

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
}

@group(0) @binding(0) var<uniform> scene: SceneUniform;
@group(1) @binding(0) var<uniform> mesh: MeshUniform;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = scene.perspective * scene.view * mesh.model * vec4<f32>(in.position, 1.0);
    return out;
}
`

const depthDebugFragmentSource = `
@group(0) @binding(0) var depth_texture: texture_depth_2d;

@fragment
fn fs_main(@builtin(position) position: vec4<f32>) -> @location(0) vec4<f32> {
    let depth = textureLoad(depth_texture, vec2<i32>(floor(position.xy)), 0);
    return vec4<f32>(depth, depth, depth, 1.0);
}
`

const minimalVertexSource = `
struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    var positions = array<vec4<f32>, 3>(
        vec4<f32>(0.0, 0.0, 0.0, 1.0),
        vec4<f32>(0.0, 0.5, 0.0, 1.0),
        vec4<f32>(0.5, 0.0, 0.0, 1.0),
    );
    var out: VertexOutput;
    out.clip_position = positions[index];
    return out;
}
`

func TestParseEntryPoint(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		shaderType ShaderType
		want       string
	}{
		{"vertex with inputs", geometryVertexSource, ShaderTypeVertex, "vs_main"},
		{"fragment", depthDebugFragmentSource, ShaderTypeFragment, "fs_main"},
		{"procedural vertex", minimalVertexSource, ShaderTypeVertex, "vs_main"},
		{"wrong stage", depthDebugFragmentSource, ShaderTypeVertex, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEntryPoint(tt.source, tt.shaderType); got != tt.want {
				t.Fatalf("parseEntryPoint: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewShaderPanicsOnMissingEntryPoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for source without a vertex entry point")
		}
	}()
	NewShader("bad", ShaderTypeVertex, depthDebugFragmentSource)
}

func TestParseBindGroupLayoutsUniforms(t *testing.T) {
	descriptors, varNames := parseBindGroupLayouts(geometryVertexSource, wgpu.ShaderStageVertex)

	if len(descriptors) != 2 {
		t.Fatalf("expected 2 bind groups, got %d", len(descriptors))
	}

	scene := descriptors[0]
	if len(scene.Entries) != 1 {
		t.Fatalf("group 0: expected 1 entry, got %d", len(scene.Entries))
	}
	if scene.Entries[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Fatal("group 0 binding 0 should be a uniform buffer")
	}
	if scene.Entries[0].Buffer.MinBindingSize != 272 {
		t.Fatalf("SceneUniform MinBindingSize: got %d, want 272", scene.Entries[0].Buffer.MinBindingSize)
	}
	if scene.Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Fatal("group 0 binding 0 should be vertex-visible")
	}

	meshGroup := descriptors[1]
	if meshGroup.Entries[0].Buffer.MinBindingSize != 80 {
		t.Fatalf("MeshUniform MinBindingSize: got %d, want 80", meshGroup.Entries[0].Buffer.MinBindingSize)
	}

	if varNames[0][0] != "scene" || varNames[1][0] != "mesh" {
		t.Fatalf("variable names: got %v", varNames)
	}
}

func TestParseBindGroupLayoutsDepthTexture(t *testing.T) {
	descriptors, varNames := parseBindGroupLayouts(depthDebugFragmentSource, wgpu.ShaderStageFragment)

	desc, ok := descriptors[0]
	if !ok {
		t.Fatal("expected a layout for group 0")
	}
	entry := desc.Entries[0]
	if entry.Texture.SampleType != wgpu.TextureSampleTypeDepth {
		t.Fatal("depth texture binding should have depth sample type")
	}
	if entry.Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Fatal("depth texture binding should be 2D")
	}
	if entry.Visibility != wgpu.ShaderStageFragment {
		t.Fatal("depth texture binding should be fragment-visible")
	}
	if varNames[0][0] != "depth_texture" {
		t.Fatalf("variable name: got %q", varNames[0][0])
	}
}

func TestParseVertexLayouts(t *testing.T) {
	layouts := parseVertexLayouts(geometryVertexSource)
	if len(layouts) != 1 {
		t.Fatalf("expected 1 vertex buffer layout, got %d", len(layouts))
	}

	layout := layouts[0]
	if layout.ArrayStride != 24 {
		t.Fatalf("array stride: got %d, want 24", layout.ArrayStride)
	}
	if layout.StepMode != wgpu.VertexStepModeVertex {
		t.Fatal("step mode should be per-vertex")
	}
	if len(layout.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(layout.Attributes))
	}

	position := layout.Attributes[0]
	if position.Format != wgpu.VertexFormatFloat32x3 || position.Offset != 0 || position.ShaderLocation != 0 {
		t.Fatalf("position attribute: got %+v", position)
	}
	normal := layout.Attributes[1]
	if normal.Format != wgpu.VertexFormatFloat32x3 || normal.Offset != 12 || normal.ShaderLocation != 1 {
		t.Fatalf("normal attribute: got %+v", normal)
	}
}

func TestParseVertexLayoutsProcedural(t *testing.T) {
	if layouts := parseVertexLayouts(minimalVertexSource); len(layouts) != 0 {
		t.Fatalf("procedural shader should have no vertex buffer layouts, got %d", len(layouts))
	}
	if layouts := parseVertexLayouts(depthDebugFragmentSource); len(layouts) != 0 {
		t.Fatalf("fragment shader should have no vertex buffer layouts, got %d", len(layouts))
	}
}

func TestNewShaderGeometryVertex(t *testing.T) {
	s := NewShader("geometry_vs", ShaderTypeVertex, geometryVertexSource)

	if s.Key() != "geometry_vs" {
		t.Fatalf("key: got %q", s.Key())
	}
	if s.EntryPoint() != "vs_main" {
		t.Fatalf("entry point: got %q", s.EntryPoint())
	}
	if s.Module() == nil || s.Module().WGSLDescriptor.Code != geometryVertexSource {
		t.Fatal("module descriptor should carry the source")
	}
	if len(s.VertexLayouts()) != 1 {
		t.Fatal("expected a parsed vertex layout")
	}
	if s.BindGroupVarName(0, 0) != "scene" {
		t.Fatalf("group 0 binding 0 var name: got %q", s.BindGroupVarName(0, 0))
	}
}

func TestStripComments(t *testing.T) {
	source := "// line comment\n/* block /* nested */ comment */@vertex fn main() {}"
	cleaned := stripComments(source)
	if got := parseEntryPoint(cleaned, ShaderTypeVertex); got != "main" {
		t.Fatalf("entry point after comment stripping: got %q", got)
	}
}
