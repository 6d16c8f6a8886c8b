package engine

import (
	"RealisticRender/internal/debug"
	"RealisticRender/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

// pointer turns cursor drags and wheel notches into orbit control input:
// left drag orbits, right drag pans, the wheel dollies. Presses and wheel
// notches the GUI has captured never reach the controls; a drag that began
// over the scene keeps going when it crosses the GUI.
type pointer struct {
	controls *renderer.OrbitControls
	height   func() int
	captured func() bool // optional

	mode         dragMode
	lastX, lastY float64
}

func (p *pointer) press(mode dragMode, x, y float64) {
	if p.isCaptured() {
		return
	}
	p.mode = mode
	p.lastX, p.lastY = x, y
}

func (p *pointer) release() {
	p.mode = dragNone
}

func (p *pointer) move(x, y float64) {
	if p.mode == dragNone {
		return
	}
	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	switch p.mode {
	case dragRotate:
		p.controls.HandleRotate(dx, dy, p.height())
	case dragPan:
		p.controls.HandlePan(dx, dy, p.height())
	}
}

func (p *pointer) scroll(yoffset float64) {
	if p.isCaptured() {
		return
	}
	p.controls.HandleWheel(float32(yoffset))
}

func (p *pointer) isCaptured() bool {
	return p.captured != nil && p.captured()
}

func buttonMode(button glfw.MouseButton) dragMode {
	switch button {
	case glfw.MouseButtonLeft:
		return dragRotate
	case glfw.MouseButtonRight, glfw.MouseButtonMiddle:
		return dragPan
	}
	return dragNone
}

// handleKey maps key presses onto the debug panel. Tab and Shift+Tab pick a
// control, Left and Right nudge it (ten steps with Shift), P logs a snapshot.
// It reports whether the key was used.
func handleKey(d *debug.Driver, key glfw.Key, action glfw.Action, mods glfw.ModifierKey) bool {
	if action == glfw.Release {
		return false
	}
	shift := mods&glfw.ModShift != 0
	switch key {
	case glfw.KeyTab:
		if action == glfw.Repeat {
			return false
		}
		if shift {
			d.Prev()
		} else {
			d.Next()
		}
	case glfw.KeyRight, glfw.KeyUp:
		d.Nudge(1, shift)
	case glfw.KeyLeft, glfw.KeyDown:
		d.Nudge(-1, shift)
	case glfw.KeyP:
		if action == glfw.Repeat {
			return false
		}
		d.Snapshot()
	default:
		return false
	}
	return true
}
