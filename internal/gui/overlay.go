package gui

import (
	"fmt"

	"RealisticRender/internal/debug"
	"RealisticRender/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

const panelTitle = "Controls"

// Overlay owns the imgui context and draws the debug panel on top of each
// frame. It must be created and used on the thread that owns the GL context.
type Overlay struct {
	context  *imgui.Context
	io       imgui.IO
	platform *GLFW
	renderer *OpenGL3
	panel    *debug.Panel
}

// New creates the imgui context for window and uploads its GL objects.
func New(window *glfw.Window, panel *debug.Panel) (*Overlay, error) {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")

	platform, err := NewGLFWFromExistingWindow(window, io)
	if err != nil {
		context.Destroy()
		return nil, fmt.Errorf("gui platform: %w", err)
	}
	renderer, err := NewOpenGL3(io)
	if err != nil {
		context.Destroy()
		return nil, fmt.Errorf("gui renderer: %w", err)
	}
	applyDarkTheme()

	logger.Log.Info("GUI overlay initialized")
	return &Overlay{
		context:  context,
		io:       io,
		platform: platform,
		renderer: renderer,
		panel:    panel,
	}, nil
}

// Draw builds this frame's panel and renders it over the framebuffer.
func (o *Overlay) Draw() {
	o.platform.NewFrame()
	imgui.NewFrame()
	drawPanel(o.panel, Widgets{})
	imgui.Render()
	o.renderer.Render(o.platform.DisplaySize(), o.platform.FramebufferSize(), imgui.RenderedDrawData())
}

func drawPanel(panel *debug.Panel, w debug.Widgets) int {
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 340, Y: 0}, imgui.ConditionFirstUseEver)
	edited := 0
	if imgui.BeginV(panelTitle, nil, imgui.WindowFlagsAlwaysAutoResize) {
		edited = debug.Draw(panel, w)
	}
	imgui.End()
	return edited
}

// WantCaptureMouse reports whether the last frame's panel is under or
// dragging the mouse, in which case camera controls must ignore it.
func (o *Overlay) WantCaptureMouse() bool { return o.io.WantCaptureMouse() }

// WantCaptureKeyboard reports whether a panel widget has keyboard focus.
func (o *Overlay) WantCaptureKeyboard() bool { return o.io.WantCaptureKeyboard() }

func (o *Overlay) MouseButton(button glfw.MouseButton, action glfw.Action) {
	o.platform.MouseButton(button, action)
}

func (o *Overlay) Scroll(x, y float64) { o.platform.Scroll(x, y) }

func (o *Overlay) Key(key glfw.Key, action glfw.Action) { o.platform.Key(key, action) }

func (o *Overlay) Char(char rune) { o.platform.Char(char) }

// Destroy frees the GL objects and the imgui context.
func (o *Overlay) Destroy() {
	o.renderer.Dispose()
	o.context.Destroy()
}

// applyDarkTheme is a dark style with Go cyan (#00ADD8) accents.
func applyDarkTheme() {
	style := imgui.CurrentStyle()

	goCyan := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 1.0}
	goCyanHover := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.6}
	goCyanActive := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.8}
	goCyanDim := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.4}

	style.SetColor(imgui.StyleColorWindowBg, imgui.Vec4{X: 0.1, Y: 0.1, Z: 0.1, W: 0.85})
	style.SetColor(imgui.StyleColorTitleBg, imgui.Vec4{X: 0.08, Y: 0.08, Z: 0.08, W: 1.0})
	style.SetColor(imgui.StyleColorTitleBgActive, goCyan)
	style.SetColor(imgui.StyleColorBorder, goCyanDim)

	style.SetColor(imgui.StyleColorFrameBg, imgui.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 0.54})
	style.SetColor(imgui.StyleColorFrameBgHovered, imgui.Vec4{X: 0.25, Y: 0.25, Z: 0.25, W: 0.78})
	style.SetColor(imgui.StyleColorFrameBgActive, imgui.Vec4{X: 0.3, Y: 0.3, Z: 0.3, W: 0.67})

	// Sliders and the combo list
	style.SetColor(imgui.StyleColorSliderGrab, goCyan)
	style.SetColor(imgui.StyleColorSliderGrabActive, goCyanActive)
	style.SetColor(imgui.StyleColorHeader, goCyanDim)
	style.SetColor(imgui.StyleColorHeaderHovered, goCyanHover)
	style.SetColor(imgui.StyleColorHeaderActive, goCyan)
	style.SetColor(imgui.StyleColorButton, imgui.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 1.0})
	style.SetColor(imgui.StyleColorButtonHovered, goCyanHover)
	style.SetColor(imgui.StyleColorButtonActive, goCyanActive)

	style.SetWindowBorderSize(1.0)
}
