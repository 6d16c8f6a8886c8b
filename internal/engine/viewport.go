package engine

import (
	"RealisticRender/internal/logger"
	"RealisticRender/internal/renderer"

	"go.uber.org/zap"
)

// MaxPixelRatio caps the device pixel ratio handed to the renderer.
const MaxPixelRatio = 2

// Surface is the drawable area the scene is shown on.
type Surface interface {
	// Size is the logical size in screen units.
	Size() (width, height int)
	// ContentScale is the device pixel ratio.
	ContentScale() float32
}

// Viewport is the surface state last applied to the camera and renderer.
type Viewport struct {
	Width, Height int
	PixelRatio    float32
}

// ResizeHandler keeps the camera aspect and the renderer output size in
// step with the surface.
type ResizeHandler struct {
	Surface  Surface
	Camera   *renderer.Camera
	Renderer renderer.Renderer

	current Viewport
}

// Handle reads the surface and applies it. Calling it again without a
// surface change yields the same state. A zero-sized surface (minimised
// window) is ignored and the previous state is kept.
func (h *ResizeHandler) Handle() Viewport {
	w, hgt := h.Surface.Size()
	if w <= 0 || hgt <= 0 {
		logger.Log.Debug("Ignoring empty surface", zap.Int("width", w), zap.Int("height", hgt))
		return h.current
	}
	ratio := h.Surface.ContentScale()
	if ratio <= 0 {
		ratio = 1
	}
	if ratio > MaxPixelRatio {
		ratio = MaxPixelRatio
	}

	h.Camera.SetAspectRatio(float32(w) / float32(hgt))
	h.Renderer.SetSize(w, hgt)
	h.Renderer.SetPixelRatio(ratio)

	vp := Viewport{Width: w, Height: hgt, PixelRatio: ratio}
	if vp != h.current {
		logger.Log.Debug("Viewport resized",
			zap.Int("width", w),
			zap.Int("height", hgt),
			zap.Float32("pixelRatio", ratio))
	}
	h.current = vp
	return vp
}

// Current returns the last applied viewport.
func (h *ResizeHandler) Current() Viewport {
	return h.current
}
