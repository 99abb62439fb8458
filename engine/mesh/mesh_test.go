package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/prismgfx/prism/common"
)

func TestGPUVertexLayout(t *testing.T) {
	v := &GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
	}
	if got := v.Size(); got != 24 {
		t.Fatalf("GPUVertex size: got %d, want 24", got)
	}

	buf := v.Marshal()
	if len(buf) != 24 {
		t.Fatalf("marshaled length: got %d, want 24", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])); got != 1 {
		t.Fatalf("position.x at offset 0: got %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])); got != 0 {
		t.Fatalf("normal.x at offset 12: got %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])); got != 1 {
		t.Fatalf("normal.y at offset 16: got %v", got)
	}
}

func TestGPUMeshUniformLayout(t *testing.T) {
	u := &GPUMeshUniform{
		RandomColor: [4]float32{0.25, 0.5, 0.75, 1},
	}
	for i := range 16 {
		u.Model[i] = float32(i)
	}
	if got := u.Size(); got != 80 {
		t.Fatalf("GPUMeshUniform size: got %d, want 80", got)
	}

	buf := u.Marshal()
	if len(buf) != 80 {
		t.Fatalf("marshaled length: got %d, want 80", len(buf))
	}
	for i := range 16 {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != float32(i) {
			t.Fatalf("model[%d] at offset %d: got %v", i, i*4, got)
		}
	}
	for i, want := range u.RandomColor {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[64+i*4:])); got != want {
			t.Fatalf("random color[%d] at offset %d: got %v, want %v", i, 64+i*4, got, want)
		}
	}
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint32{0, 1, 0x01020304})
	if len(buf) != 12 {
		t.Fatalf("index buffer length: got %d, want 12", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[8:]); got != 0x01020304 {
		t.Fatalf("index[2]: got %#x", got)
	}
}

func TestModelMatrixRebuild(t *testing.T) {
	m := NewMesh(WithPosition(1, 2, 3))

	want := make([]float32, 16)
	common.BuildModelMatrix(want, 1, 2, 3, 0, 0, 0, 1, 1, 1)
	got := m.ModelMatrix()
	for i := range 16 {
		if got[i] != want[i] {
			t.Fatalf("model[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	m.SetRotation(0, math.Pi/4, 0)
	common.BuildModelMatrix(want, 1, 2, 3, 0, math.Pi/4, 0, 1, 1, 1)
	got = m.ModelMatrix()
	for i := range 16 {
		if got[i] != want[i] {
			t.Fatalf("model[%d] after rotation: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRandomColorInRange(t *testing.T) {
	for range 16 {
		c := NewMesh().RandomColor()
		for i := range 3 {
			if c[i] < 0 || c[i] >= 1 {
				t.Fatalf("color component %d out of [0, 1): %v", i, c[i])
			}
		}
		if c[3] != 1 {
			t.Fatalf("alpha should be 1, got %v", c[3])
		}
	}
}

func TestMeshUniformSnapshot(t *testing.T) {
	m := NewMesh(
		WithPosition(2, 0, -1),
		WithRandomColor(0.1, 0.2, 0.3, 1),
	)
	u := m.MeshUniform()

	if u.Model != m.ModelMatrix() {
		t.Fatal("uniform model should match the mesh's model matrix")
	}
	if u.RandomColor != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Fatalf("uniform color: got %v", u.RandomColor)
	}
}

func TestNewCube(t *testing.T) {
	cube := NewCube()

	if got := len(cube.Vertices()); got != 24 {
		t.Fatalf("cube vertex count: got %d, want 24", got)
	}
	if got := cube.IndexCount(); got != 36 {
		t.Fatalf("cube index count: got %d, want 36", got)
	}
	if got := len(cube.VertexData()); got != 24*24 {
		t.Fatalf("cube vertex data length: got %d, want %d", got, 24*24)
	}
	if got := len(cube.IndexData()); got != 36*4 {
		t.Fatalf("cube index data length: got %d, want %d", got, 36*4)
	}

	for _, v := range cube.Vertices() {
		for _, p := range v.Position {
			if p != 0.5 && p != -0.5 {
				t.Fatalf("cube corner component should be +-0.5, got %v", p)
			}
		}
		lenSq := v.Normal[0]*v.Normal[0] + v.Normal[1]*v.Normal[1] + v.Normal[2]*v.Normal[2]
		if lenSq != 1 {
			t.Fatalf("cube face normal should be unit length, got %v", v.Normal)
		}
	}

	for _, idx := range cube.Indices() {
		if idx >= 24 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}
