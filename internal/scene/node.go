package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's local placement. Rotation is Euler angles in radians
// applied in XYZ order.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translation.Mul4(t.RotationMatrix()).Mul4(scale)
}

func (t Transform) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(t.Rotation[0]).
		Mul4(mgl32.HomogRotate3DY(t.Rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
}

// EulerFromQuat converts a rotation quaternion into XYZ Euler angles.
func EulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y := float32(math.Asin(float64(mgl32.Clamp(m13, -1, 1))))
	var x, z float32
	if mgl32.Abs(m13) < 0.9999999 {
		x = float32(math.Atan2(float64(-m23), float64(m33)))
		z = float32(math.Atan2(float64(-m12), float64(m11)))
	} else {
		x = float32(math.Atan2(float64(m32), float64(m22)))
	}
	return mgl32.Vec3{x, y, z}
}

// Node is one entry of the scene graph. Geometry and Material are optional;
// a node without geometry only groups its children.
type Node struct {
	Name          string
	Transform     Transform
	Geometry      *Geometry
	Material      *Material
	CastShadow    bool
	ReceiveShadow bool
	Hidden        bool // excludes the node and its subtree from rendering

	parent   NodeID
	children []NodeID
}

// IsMesh reports whether the node has something to draw.
func (n *Node) IsMesh() bool {
	return n.Geometry != nil && n.Material != nil
}
