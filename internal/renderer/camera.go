package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. The orbit controls move Position and aim
// it with LookAt; the viewport handler owns AspectRatio.
type Camera struct {
	Position   mgl32.Vec3
	Front      mgl32.Vec3 // unit view direction
	Up         mgl32.Vec3 // orthogonal to Front
	Projection mgl32.Mat4

	WorldUp     mgl32.Vec3
	Fov         float32 // vertical, degrees
	Near, Far   float32
	AspectRatio float32
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum holds the six clip planes with normals pointing inwards.
type Frustum struct {
	Planes [6]Plane
}

// NewPerspectiveCamera returns a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Fov:         fov,
		Near:        near,
		Far:         far,
		AspectRatio: aspect,
	}
	c.UpdateProjection()
	return c
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// SetAspectRatio is the resize hook: it stores w/h and rebuilds the
// projection so the next frame uses it.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.AspectRatio = aspect
	c.UpdateProjection()
}

// LookAt turns the camera towards target. A target at the eye position is
// ignored.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return
	}
	c.Front = dir.Normalize()
	right := c.Front.Cross(c.WorldUp)
	if right.Len() < 1e-6 {
		// Looking straight up or down: keep the previous up to pick a side.
		right = c.Front.Cross(c.Up)
	}
	c.Up = right.Normalize().Cross(c.Front).Normalize()
}

// Right is the camera's +X axis in world space.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// CalculateFrustum extracts the clip planes from the view-projection
// matrix, in the order left, right, bottom, top, near, far.
func (c *Camera) CalculateFrustum() Frustum {
	vp := c.GetViewProjection()
	w := vp.Row(3)

	var f Frustum
	for axis := 0; axis < 3; axis++ {
		row := vp.Row(axis)
		f.Planes[2*axis] = planeFrom(w.Add(row))
		f.Planes[2*axis+1] = planeFrom(w.Sub(row))
	}
	return f
}

func planeFrom(v mgl32.Vec4) Plane {
	n := v.Vec3()
	inv := 1 / n.Len()
	return Plane{Normal: n.Mul(inv), Distance: v.W() * inv}
}

func (p Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// IntersectsSphere reports whether any part of the sphere lies inside.
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
