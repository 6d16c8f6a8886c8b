package scene

import "image"

// ColorEncoding is the transfer function of stored or displayed colors.
type ColorEncoding int

const (
	LinearEncoding ColorEncoding = iota
	SRGBEncoding
)

func (e ColorEncoding) String() string {
	if e == SRGBEncoding {
		return "sRGB"
	}
	return "linear"
}

// CubeFace indexes the six faces of a cube map.
type CubeFace int

const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

var faceNames = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

func (f CubeFace) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "invalid"
	}
	return faceNames[f]
}

// EnvironmentTexture is a cube map used as the scene background and as the
// image based lighting source for standard materials.
type EnvironmentTexture struct {
	Faces    [6]*image.RGBA
	Size     int
	Encoding ColorEncoding
}
