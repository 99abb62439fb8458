package common

import (
	"math"
	"testing"
)

const epsilon = 1e-4

func matricesClose(t *testing.T, got, want []float32) {
	t.Helper()
	for i := range want {
		if diff := math.Abs(float64(got[i] - want[i])); diff > epsilon {
			t.Fatalf("element %d: got %v, want %v (diff %v)", i, got[i], want[i], diff)
		}
	}
}

func identity16() []float32 {
	m := make([]float32, 16)
	Identity(m)
	return m
}

func TestInvert4Perspective(t *testing.T) {
	tests := []struct {
		name                     string
		fovY, aspect, near, far  float32
	}{
		{"square 90deg", math.Pi / 2, 1.0, 0.01, 100},
		{"widescreen 60deg", math.Pi / 3, 16.0 / 9.0, 0.1, 1000},
		{"narrow 45deg", math.Pi / 4, 4.0 / 3.0, 0.5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := make([]float32, 16)
			Perspective(p, tt.fovY, tt.aspect, tt.near, tt.far)

			inv := make([]float32, 16)
			if !Invert4(inv, p) {
				t.Fatal("projection matrix reported singular")
			}

			product := make([]float32, 16)
			Mul4(product, inv, p)
			matricesClose(t, product, identity16())
		})
	}
}

func TestInvert4LookAt(t *testing.T) {
	tests := []struct {
		name string
		eye  [3]float32
		at   [3]float32
	}{
		{"above and behind", [3]float32{0, 3, -3}, [3]float32{0, 0, 0}},
		{"off axis", [3]float32{5, 2, 7}, [3]float32{-1, 0.5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := make([]float32, 16)
			LookAt(v, tt.eye[0], tt.eye[1], tt.eye[2], tt.at[0], tt.at[1], tt.at[2], 0, 1, 0)

			inv := make([]float32, 16)
			if !Invert4(inv, v) {
				t.Fatal("view matrix reported singular")
			}

			product := make([]float32, 16)
			Mul4(product, v, inv)
			matricesClose(t, product, identity16())
		})
	}
}

func TestInvert4Singular(t *testing.T) {
	zero := make([]float32, 16)
	out := make([]float32, 16)
	out[3] = 42 // sentinel, must survive a failed invert
	if Invert4(out, zero) {
		t.Fatal("expected singular matrix to report failure")
	}
	if out[3] != 42 {
		t.Fatal("output was modified on singular input")
	}
}

func TestMul4OrderSensitivity(t *testing.T) {
	scale := make([]float32, 16)
	Identity(scale)
	scale[0], scale[5], scale[10] = 2, 2, 2

	translate := make([]float32, 16)
	Identity(translate)
	translate[12], translate[13], translate[14] = 1, 2, 3

	st := make([]float32, 16)
	Mul4(st, scale, translate)
	ts := make([]float32, 16)
	Mul4(ts, translate, scale)

	// scale*translate scales the translation; translate*scale does not.
	if st[12] != 2 || st[13] != 4 || st[14] != 6 {
		t.Fatalf("scale*translate translation column: got (%v, %v, %v), want (2, 4, 6)", st[12], st[13], st[14])
	}
	if ts[12] != 1 || ts[13] != 2 || ts[14] != 3 {
		t.Fatalf("translate*scale translation column: got (%v, %v, %v), want (1, 2, 3)", ts[12], ts[13], ts[14])
	}

	same := true
	for i := range st {
		if st[i] != ts[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("matrix multiplication unexpectedly commuted")
	}
}

func TestMul4Identity(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, math.Pi/3, 1.5, 0.1, 100)

	out := make([]float32, 16)
	Mul4(out, identity16(), m)
	matricesClose(t, out, m)
	Mul4(out, m, identity16())
	matricesClose(t, out, m)
}

func TestMulVec4(t *testing.T) {
	translate := make([]float32, 16)
	Identity(translate)
	translate[12], translate[13], translate[14] = 1, 2, 3

	got := MulVec4(translate, [4]float32{5, 5, 5, 1})
	want := [4]float32{6, 7, 8, 1}
	if got != want {
		t.Fatalf("translated point: got %v, want %v", got, want)
	}

	// Direction vectors (w=0) ignore translation.
	got = MulVec4(translate, [4]float32{5, 5, 5, 0})
	want = [4]float32{5, 5, 5, 0}
	if got != want {
		t.Fatalf("translated direction: got %v, want %v", got, want)
	}
}

func TestBuildModelMatrixIdentity(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 0, 0, 0, 0, 0, 0, 1, 1, 1)
	matricesClose(t, m, identity16())
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 7, 3); got != 7 {
		t.Fatalf("Coalesce ints: got %d, want 7", got)
	}
	if got := Coalesce("", "a"); got != "a" {
		t.Fatalf("Coalesce strings: got %q, want %q", got, "a")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Fatalf("Coalesce all-zero: got %d, want 0", got)
	}
}
