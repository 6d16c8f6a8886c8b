package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rig() (*Camera, *OrbitControls) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{4, 1, -4}
	cam.LookAt(mgl32.Vec3{})
	return cam, NewOrbitControls(cam)
}

func TestControlsUpdateWithoutInputKeepsCamera(t *testing.T) {
	cam, oc := rig()
	before := cam.Position

	oc.Update()

	assert.True(t, cam.Position.ApproxEqualThreshold(before, 1e-5), "got %v", cam.Position)
}

func TestControlsUndampedRotateAppliesFully(t *testing.T) {
	cam, oc := rig()
	radius := cam.Position.Len()

	oc.RotateLeft(math.Pi / 2)
	oc.Update()

	// A quarter turn to the left around +Y maps (4, 1, -4) to (4, 1, 4).
	assert.True(t, cam.Position.ApproxEqualThreshold(mgl32.Vec3{4, 1, 4}, 1e-4), "got %v", cam.Position)
	assert.InDelta(t, radius, cam.Position.Len(), 1e-4)
	assert.False(t, oc.Pending())

	moved := oc.Update()
	assert.False(t, moved)
}

func TestControlsDampedRotateEasesOut(t *testing.T) {
	cam, oc := rig()
	oc.EnableDamping = true
	start := sphericalFromVec(cam.Position).Theta

	oc.RotateLeft(1)
	oc.Update()
	first := start - sphericalFromVec(cam.Position).Theta
	assert.InDelta(t, 0.05, first, 1e-4)
	assert.True(t, oc.Pending())

	oc.Update()
	second := start - sphericalFromVec(cam.Position).Theta - first
	assert.InDelta(t, 0.05*0.95, second, 1e-4)

	for i := 0; i < 1000; i++ {
		oc.Update()
	}
	total := start - sphericalFromVec(cam.Position).Theta
	assert.InDelta(t, 1, total, 1e-3)
	assert.False(t, oc.Pending())
}

func TestControlsPolarAngleClamped(t *testing.T) {
	cam, oc := rig()

	oc.RotateUp(10)
	oc.Update()

	phi := sphericalFromVec(cam.Position).Phi
	assert.GreaterOrEqual(t, phi, 0.0)
	assert.Less(t, phi, 0.01)
	assert.False(t, math.IsNaN(float64(cam.Front.X())))
}

func TestControlsDollyRespectsDistanceLimits(t *testing.T) {
	cam, oc := rig()
	oc.MinDistance = 2
	oc.MaxDistance = 8

	for i := 0; i < 100; i++ {
		oc.HandleWheel(1)
		oc.Update()
	}
	assert.InDelta(t, 2, cam.Position.Len(), 1e-4)

	for i := 0; i < 100; i++ {
		oc.HandleWheel(-1)
		oc.Update()
	}
	assert.InDelta(t, 8, cam.Position.Len(), 1e-4)
}

func TestControlsPanMovesTargetAndCamera(t *testing.T) {
	cam, oc := rig()
	right := cam.Right()
	offset := cam.Position.Sub(oc.Target)

	oc.Pan(1, 0)
	oc.Update()

	require.True(t, oc.Target.ApproxEqualThreshold(right, 1e-4), "target %v", oc.Target)
	assert.True(t, cam.Position.Sub(oc.Target).ApproxEqualThreshold(offset, 1e-4))
}

func TestControlsHandleRotateIgnoresZeroHeight(t *testing.T) {
	cam, oc := rig()
	before := cam.Position

	oc.HandleRotate(100, 100, 0)
	oc.Update()

	assert.True(t, cam.Position.ApproxEqualThreshold(before, 1e-5))
}
