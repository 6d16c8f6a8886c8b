package scene

import "github.com/go-gl/mathgl/mgl32"

// LightShadow configures the orthographic shadow camera of a directional
// light and the depth comparison offsets.
type LightShadow struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
	Bias        float32
	NormalBias  float32
	MapWidth    int
	MapHeight   int
}

func DefaultLightShadow() LightShadow {
	return LightShadow{
		Left:      -5,
		Right:     5,
		Bottom:    -5,
		Top:       5,
		Near:      0.5,
		Far:       500,
		MapWidth:  512,
		MapHeight: 512,
	}
}

// DirectionalLight shines from Position towards Target.
type DirectionalLight struct {
	Name       string
	Color      mgl32.Vec3
	Intensity  float32
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	CastShadow bool
	Shadow     LightShadow
}

func NewDirectionalLight(color mgl32.Vec3, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Name:      "DirectionalLight",
		Color:     color,
		Intensity: intensity,
		Position:  mgl32.Vec3{0, 1, 0},
		Shadow:    DefaultLightShadow(),
	}
}

// Direction is the unit vector the light travels along.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// ShadowViewProjection maps world space into the light's shadow clip space.
// A light whose Target sits on its Position looks straight down.
func (l *DirectionalLight) ShadowViewProjection() mgl32.Mat4 {
	dir := l.Direction()
	up := mgl32.Vec3{0, 1, 0}
	if mgl32.Abs(dir.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(l.Position, l.Position.Add(dir), up)
	s := l.Shadow
	proj := mgl32.Ortho(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
	return proj.Mul4(view)
}
