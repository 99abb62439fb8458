package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/prismgfx/prism/common"
)

const epsilon = 1e-4

func float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUSceneUniformSize(t *testing.T) {
	u := &GPUSceneUniform{}
	if got := u.Size(); got != 272 {
		t.Fatalf("GPUSceneUniform size: got %d, want 272", got)
	}
	if got := len(u.Marshal()); got != 272 {
		t.Fatalf("GPUSceneUniform marshaled length: got %d, want 272", got)
	}
}

func TestGPUSceneUniformMarshalOffsets(t *testing.T) {
	u := &GPUSceneUniform{
		CameraPosition: [3]float32{7, 8, 9},
		AspectRatio:    16.0 / 9.0,
	}
	for i := range 16 {
		u.Perspective[i] = float32(i)
		u.View[i] = float32(100 + i)
		u.InversePerspective[i] = float32(200 + i)
		u.InverseView[i] = float32(300 + i)
	}

	buf := u.Marshal()

	for i := range 16 {
		if got := float32At(buf, i*4); got != float32(i) {
			t.Fatalf("perspective[%d] at offset %d: got %v", i, i*4, got)
		}
		if got := float32At(buf, 64+i*4); got != float32(100+i) {
			t.Fatalf("view[%d] at offset %d: got %v", i, 64+i*4, got)
		}
		if got := float32At(buf, 128+i*4); got != float32(200+i) {
			t.Fatalf("inverse perspective[%d] at offset %d: got %v", i, 128+i*4, got)
		}
		if got := float32At(buf, 192+i*4); got != float32(300+i) {
			t.Fatalf("inverse view[%d] at offset %d: got %v", i, 192+i*4, got)
		}
	}
	for i := range 3 {
		if got := float32At(buf, 256+i*4); got != u.CameraPosition[i] {
			t.Fatalf("camera position[%d] at offset %d: got %v", i, 256+i*4, got)
		}
	}
	if got := float32At(buf, 268); got != u.AspectRatio {
		t.Fatalf("aspect ratio at offset 268: got %v", got)
	}
}

func TestCameraMatricesFromController(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(3),
		WithAzimuth(0),
		WithElevation(0.3),
	)
	cam := NewCamera(
		WithController(ctrl),
		WithFov(math.Pi/2),
		WithAspect(16.0/9.0),
		WithNear(0.1),
		WithFar(100),
	)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	wantView := make([]float32, 16)
	px, py, pz := ctrl.Position()
	common.LookAt(wantView, px, py, pz, 0, 0, 0, 0, 1, 0)
	for i := range 16 {
		if diff := float64(view[i] - wantView[i]); math.Abs(diff) > epsilon {
			t.Fatalf("view[%d]: got %v, want %v", i, view[i], wantView[i])
		}
	}

	wantProj := make([]float32, 16)
	common.Perspective(wantProj, math.Pi/2, 16.0/9.0, 0.1, 100)
	for i := range 16 {
		if diff := float64(proj[i] - wantProj[i]); math.Abs(diff) > epsilon {
			t.Fatalf("projection[%d]: got %v, want %v", i, proj[i], wantProj[i])
		}
	}
}

func TestCameraInverseConsistency(t *testing.T) {
	cam := NewCamera(
		WithController(NewOrbitController(WithRadius(4), WithAzimuth(1.1), WithElevation(0.4))),
		WithFov(math.Pi/3),
		WithAspect(1.5),
	)

	checkInverse := func(name string, m, inv [16]float32) {
		product := make([]float32, 16)
		common.Mul4(product, m[:], inv[:])
		identity := make([]float32, 16)
		common.Identity(identity)
		for i := range 16 {
			if diff := float64(product[i] - identity[i]); math.Abs(diff) > epsilon {
				t.Fatalf("%s * inverse differs from identity at %d: got %v", name, i, product[i])
			}
		}
	}

	checkInverse("projection", cam.ProjectionMatrix(), cam.InverseProjectionMatrix())
	checkInverse("view", cam.ViewMatrix(), cam.InverseViewMatrix())
}

func TestSceneUniformSnapshot(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(2), WithAzimuth(0.5), WithElevation(0.2))
	cam := NewCamera(WithController(ctrl), WithAspect(2))

	u := cam.SceneUniform()

	if u.Perspective != cam.ProjectionMatrix() {
		t.Fatal("uniform perspective should match the camera's projection matrix")
	}
	if u.View != cam.ViewMatrix() {
		t.Fatal("uniform view should match the camera's view matrix")
	}
	if u.InversePerspective != cam.InverseProjectionMatrix() {
		t.Fatal("uniform inverse perspective should match the camera")
	}
	if u.InverseView != cam.InverseViewMatrix() {
		t.Fatal("uniform inverse view should match the camera")
	}

	px, py, pz := ctrl.Position()
	if u.CameraPosition != [3]float32{px, py, pz} {
		t.Fatalf("uniform camera position %v should match controller position (%v, %v, %v)", u.CameraPosition, px, py, pz)
	}
	if u.AspectRatio != 2 {
		t.Fatalf("uniform aspect ratio: got %v, want 2", u.AspectRatio)
	}
}

func TestSetAspectRebuildsProjection(t *testing.T) {
	cam := NewCamera(WithController(NewOrbitController()), WithAspect(1))
	before := cam.ProjectionMatrix()

	cam.SetAspect(2)
	after := cam.ProjectionMatrix()

	if before == after {
		t.Fatal("changing the aspect ratio must rebuild the projection matrix")
	}
	if got := cam.Aspect(); got != 2 {
		t.Fatalf("aspect: got %v, want 2", got)
	}
}

func TestOrbitControllerSpherical(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
		WithElevationBounds(-1, 1),
		WithTarget(1, 2, 3),
	)

	// azimuth 0, elevation 0 puts the camera at target + (0, 0, radius)
	x, y, z := ctrl.Position()
	if math.Abs(float64(x-1)) > epsilon || math.Abs(float64(y-2)) > epsilon || math.Abs(float64(z-13)) > epsilon {
		t.Fatalf("position: got (%v, %v, %v), want (1, 2, 13)", x, y, z)
	}

	ctrl.SetAzimuth(float32(math.Pi / 2))
	x, y, z = ctrl.Position()
	if math.Abs(float64(x-11)) > epsilon || math.Abs(float64(z-3)) > epsilon {
		t.Fatalf("position after quarter turn: got (%v, %v, %v), want (11, 2, 3)", x, y, z)
	}

	if got := ctrl.Radius(); got != 10 {
		t.Fatalf("radius: got %v, want 10", got)
	}
}

func TestOrbitControllerClamps(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadiusBounds(1, 5),
		WithElevationBounds(0.1, 1.0),
	)

	ctrl.SetRadius(100)
	if got := ctrl.Radius(); got != 5 {
		t.Fatalf("radius should clamp to max 5, got %v", got)
	}
	ctrl.SetRadius(0)
	if got := ctrl.Radius(); got != 1 {
		t.Fatalf("radius should clamp to min 1, got %v", got)
	}

	ctrl.SetElevation(2)
	if got := ctrl.Elevation(); got != 1.0 {
		t.Fatalf("elevation should clamp to max 1.0, got %v", got)
	}
	for range 100 {
		ctrl.OrbitDown()
	}
	if got := ctrl.Elevation(); float64(got) < 0.1-epsilon {
		t.Fatalf("elevation should clamp to min 0.1, got %v", got)
	}
}
