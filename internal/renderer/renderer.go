package renderer

import (
	"fmt"

	"RealisticRender/internal/scene"
)

type ToneMapping int

const (
	NoToneMapping ToneMapping = iota
	LinearToneMapping
	ReinhardToneMapping
	CineonToneMapping
	ACESFilmicToneMapping
)

var toneMappingNames = [...]string{"No", "Linear", "Reinhard", "Cineon", "ACESFilmic"}

func (t ToneMapping) String() string {
	if t < 0 || int(t) >= len(toneMappingNames) {
		return fmt.Sprintf("ToneMapping(%d)", int(t))
	}
	return toneMappingNames[t]
}

// ParseToneMapping accepts the names returned by ToneMapping.String.
func ParseToneMapping(name string) (ToneMapping, error) {
	for i, n := range toneMappingNames {
		if n == name {
			return ToneMapping(i), nil
		}
	}
	return NoToneMapping, fmt.Errorf("unknown tone mapping %q", name)
}

// ToneMappings lists every operator in enum order.
func ToneMappings() []ToneMapping {
	out := make([]ToneMapping, len(toneMappingNames))
	for i := range out {
		out[i] = ToneMapping(i)
	}
	return out
}

type ShadowMapType int

const (
	BasicShadowMap ShadowMapType = iota
	PCFShadowMap
	PCFSoftShadowMap
)

func (t ShadowMapType) String() string {
	switch t {
	case BasicShadowMap:
		return "Basic"
	case PCFShadowMap:
		return "PCF"
	case PCFSoftShadowMap:
		return "PCFSoft"
	}
	return fmt.Sprintf("ShadowMapType(%d)", int(t))
}

type ShadowMapSettings struct {
	Enabled bool
	Type    ShadowMapType
}

// Settings are the renderer properties that may be changed between frames.
// They are read once at the start of every RenderFrame.
type Settings struct {
	Antialias               bool
	PhysicallyCorrectLights bool
	OutputEncoding          scene.ColorEncoding
	ToneMapping             ToneMapping
	ToneMappingExposure     float32
	ShadowMap               ShadowMapSettings
	ClearColor              [3]float32
}

func DefaultSettings() Settings {
	return Settings{
		OutputEncoding:      scene.LinearEncoding,
		ToneMapping:         NoToneMapping,
		ToneMappingExposure: 1,
		ShadowMap:           ShadowMapSettings{Type: PCFShadowMap},
	}
}

// Renderer draws a scene from a camera into the drawable surface.
type Renderer interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float32)
	Settings() *Settings
	RenderFrame(s *scene.Scene, camera *Camera)
}

// DrawingBufferSize is the pixel size of the render target for a surface of
// width x height logical pixels at the given pixel ratio.
func DrawingBufferSize(width, height int, ratio float32) (int, int) {
	return int(float32(width) * ratio), int(float32(height) * ratio)
}
