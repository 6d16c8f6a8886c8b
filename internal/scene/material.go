package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialKind tags which shading model a Material uses.
type MaterialKind int

const (
	// MaterialBasic is unlit: color and map only.
	MaterialBasic MaterialKind = iota
	// MaterialStandard is metallic-roughness PBR and responds to the
	// environment map.
	MaterialStandard
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialBasic:
		return "basic"
	case MaterialStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// Texture is a decoded 2D image.
type Texture struct {
	Name  string
	Image *image.RGBA
	SRGB  bool
}

// Material is shared by pointer between every node that uses it and is
// mutated in place.
type Material struct {
	Name        string
	Kind        MaterialKind
	Color       mgl32.Vec3
	Opacity     float32
	Map         *Texture
	DoubleSided bool

	// Standard only.
	Metallic        float32
	Roughness       float32
	EnvMap          *EnvironmentTexture // nil means the scene environment
	EnvMapIntensity float32
}

func NewStandardMaterial(name string) *Material {
	return &Material{
		Name:            name,
		Kind:            MaterialStandard,
		Color:           mgl32.Vec3{1, 1, 1},
		Opacity:         1,
		Metallic:        0,
		Roughness:       1,
		EnvMapIntensity: 1,
	}
}

func NewBasicMaterial(name string) *Material {
	return &Material{
		Name:    name,
		Kind:    MaterialBasic,
		Color:   mgl32.Vec3{1, 1, 1},
		Opacity: 1,
	}
}

// IsStandard reports whether the material responds to environment lighting.
func (m *Material) IsStandard() bool {
	return m != nil && m.Kind == MaterialStandard
}
