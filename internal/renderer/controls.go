package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	controlsEPS = 1e-6
	moveEPS     = 1e-4
)

// spherical is a position relative to the orbit target: Radius from it, Phi
// measured down from +Y and Theta around +Y starting at +Z.
type spherical struct {
	Radius, Phi, Theta float64
}

func sphericalFromVec(v mgl32.Vec3) spherical {
	r := float64(v.Len())
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math.Atan2(float64(v.X()), float64(v.Z())),
		Phi:    math.Acos(clamp64(float64(v.Y())/r, -1, 1)),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhi := s.Radius * math.Sin(s.Phi)
	return mgl32.Vec3{
		float32(sinPhi * math.Sin(s.Theta)),
		float32(s.Radius * math.Cos(s.Phi)),
		float32(sinPhi * math.Cos(s.Theta)),
	}
}

func clamp64(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// OrbitControls orbits a camera around Target. Input accumulates as pending
// rotation, pan and dolly; Update applies it once per frame. With damping the
// pending rotation and pan decay geometrically so motion eases out over
// several frames.
type OrbitControls struct {
	Camera *Camera
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float32

	MinDistance, MaxDistance     float32
	MinPolarAngle, MaxPolarAngle float64

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	sphericalDelta spherical
	panOffset      mgl32.Vec3
	scale          float64

	lastPosition mgl32.Vec3
	lastFront    mgl32.Vec3
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		DampingFactor: 0.05,
		MinDistance:   0,
		MaxDistance:   float32(math.Inf(1)),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		scale:         1,
	}
}

// RotateLeft queues a rotation of angle radians around the target's up axis.
func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.sphericalDelta.Theta -= float64(angle)
}

// RotateUp queues a change of the polar angle.
func (oc *OrbitControls) RotateUp(angle float32) {
	oc.sphericalDelta.Phi -= float64(angle)
}

// DollyIn moves the camera towards the target by factor (0 < factor < 1).
func (oc *OrbitControls) DollyIn(factor float32) {
	oc.scale *= float64(factor)
}

// DollyOut moves the camera away from the target by 1/factor.
func (oc *OrbitControls) DollyOut(factor float32) {
	oc.scale /= float64(factor)
}

// Pan queues a move of camera and target along the screen plane, in world
// units along the camera's right and up axes.
func (oc *OrbitControls) Pan(right, up float32) {
	oc.panOffset = oc.panOffset.
		Add(oc.Camera.Right().Mul(right)).
		Add(oc.Camera.Up.Mul(up))
}

// HandleRotate converts a pointer drag of (dx, dy) pixels on a surface of
// the given height into rotation.
func (oc *OrbitControls) HandleRotate(dx, dy float32, height int) {
	if height <= 0 {
		return
	}
	h := float32(height)
	oc.RotateLeft(2 * math.Pi * dx / h * oc.RotateSpeed)
	oc.RotateUp(2 * math.Pi * dy / h * oc.RotateSpeed)
}

// HandlePan converts a pointer drag into a pan at the target's distance.
func (oc *OrbitControls) HandlePan(dx, dy float32, height int) {
	if height <= 0 {
		return
	}
	offset := oc.Camera.Position.Sub(oc.Target)
	targetDistance := offset.Len() * float32(math.Tan(float64(mgl32.DegToRad(oc.Camera.Fov))/2))
	h := float32(height)
	oc.Pan(-2*dx*targetDistance/h*oc.PanSpeed, 2*dy*targetDistance/h*oc.PanSpeed)
}

// HandleWheel dollies for a scroll of yoffset notches; positive is towards
// the target.
func (oc *OrbitControls) HandleWheel(yoffset float32) {
	zoom := float32(math.Pow(0.95, float64(oc.ZoomSpeed)))
	switch {
	case yoffset > 0:
		oc.DollyIn(zoom)
	case yoffset < 0:
		oc.DollyOut(zoom)
	}
}

// Update applies pending input to the camera and reports whether the camera
// moved. Call once per frame.
func (oc *OrbitControls) Update() bool {
	cam := oc.Camera
	offset := cam.Position.Sub(oc.Target)
	s := sphericalFromVec(offset)

	if oc.EnableDamping {
		f := float64(oc.DampingFactor)
		s.Theta += oc.sphericalDelta.Theta * f
		s.Phi += oc.sphericalDelta.Phi * f
	} else {
		s.Theta += oc.sphericalDelta.Theta
		s.Phi += oc.sphericalDelta.Phi
	}

	s.Phi = clamp64(s.Phi, oc.MinPolarAngle, oc.MaxPolarAngle)
	s.Phi = clamp64(s.Phi, controlsEPS, math.Pi-controlsEPS)

	s.Radius *= oc.scale
	s.Radius = clamp64(s.Radius, float64(oc.MinDistance), float64(oc.MaxDistance))

	if oc.EnableDamping {
		oc.Target = oc.Target.Add(oc.panOffset.Mul(oc.DampingFactor))
	} else {
		oc.Target = oc.Target.Add(oc.panOffset)
	}

	cam.Position = oc.Target.Add(s.vec())
	cam.LookAt(oc.Target)

	if oc.EnableDamping {
		keep := 1 - float64(oc.DampingFactor)
		oc.sphericalDelta.Theta *= keep
		oc.sphericalDelta.Phi *= keep
		oc.panOffset = oc.panOffset.Mul(float32(keep))
	} else {
		oc.sphericalDelta = spherical{}
		oc.panOffset = mgl32.Vec3{}
	}
	oc.scale = 1

	moved := cam.Position.Sub(oc.lastPosition).Len() > moveEPS ||
		1-cam.Front.Dot(oc.lastFront) > moveEPS
	oc.lastPosition = cam.Position
	oc.lastFront = cam.Front
	return moved
}

// Pending reports whether rotation or pan input is still being applied.
func (oc *OrbitControls) Pending() bool {
	return math.Abs(oc.sphericalDelta.Theta) > controlsEPS ||
		math.Abs(oc.sphericalDelta.Phi) > controlsEPS ||
		oc.panOffset.Len() > controlsEPS
}
