package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPerspectiveCamera(t *testing.T) {
	cam := NewPerspectiveCamera(75, 16.0/9.0, 0.1, 100)

	if cam == nil {
		t.Fatal("NewPerspectiveCamera returned nil")
	}
	if cam.Fov != 75 || cam.Near != 0.1 || cam.Far != 100 {
		t.Errorf("unexpected frustum params: fov=%v near=%v far=%v", cam.Fov, cam.Near, cam.Far)
	}
	if cam.Front != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("default front = %v, want -Z", cam.Front)
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraSetAspectRatioUpdatesProjection(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)

	cam.SetAspectRatio(800.0 / 600.0)

	want := mgl32.Perspective(mgl32.DegToRad(75), 800.0/600.0, 0.1, 100)
	if !cam.Projection.ApproxEqual(want) {
		t.Errorf("projection not rebuilt for new aspect:\n%v\nwant\n%v", cam.Projection, want)
	}
	if cam.AspectRatio != float32(800.0/600.0) {
		t.Errorf("AspectRatio = %v", cam.AspectRatio)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{4, 1, -4}

	cam.LookAt(mgl32.Vec3{})

	want := mgl32.Vec3{-4, -1, 4}.Normalize()
	if !cam.Front.ApproxEqual(want) {
		t.Errorf("Front = %v, want %v", cam.Front, want)
	}
	if math.Abs(float64(cam.Front.Dot(cam.Up))) > 1e-5 {
		t.Error("Up should be orthogonal to Front")
	}
	if cam.Up.Y() <= 0 {
		t.Error("Up should point upwards")
	}
}

func TestCameraLookAtStraightDown(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 5, 0}

	cam.LookAt(mgl32.Vec3{})

	if !cam.Front.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Front = %v", cam.Front)
	}
	if cam.Up.Len() < 0.99 {
		t.Errorf("Up should stay a unit vector, got %v", cam.Up)
	}
}

func TestCameraViewMapsTargetToCenter(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{4, 1, -4}
	cam.LookAt(mgl32.Vec3{})

	clip := cam.GetViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())

	if math.Abs(float64(ndc.X())) > 1e-4 || math.Abs(float64(ndc.Y())) > 1e-4 {
		t.Errorf("target should project to the center, got %v", ndc)
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	f := cam.CalculateFrustum()

	if !f.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1) {
		t.Error("sphere in front of the camera should be inside")
	}
	if f.IntersectsSphere(mgl32.Vec3{0, 0, 20}, 1) {
		t.Error("sphere behind the camera should be outside")
	}
	if !f.IntersectsSphere(mgl32.Vec3{0, 0, 6}, 2) {
		t.Error("sphere straddling the near plane should intersect")
	}
}
