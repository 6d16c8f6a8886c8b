package gui

import (
	"testing"

	"RealisticRender/internal/debug"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headless runs imgui frames without a window or GL context.
type headless struct {
	context *imgui.Context
	io      imgui.IO
}

func newHeadless(t *testing.T) *headless {
	t.Helper()
	context := imgui.CreateContext(nil)
	t.Cleanup(context.Destroy)
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	io.SetDisplaySize(imgui.Vec2{X: 1280, Y: 720})
	io.Fonts().TextureDataAlpha8()
	return &headless{context: context, io: io}
}

func (h *headless) frame(panel *debug.Panel, mouse imgui.Vec2) int {
	h.io.SetMousePosition(mouse)
	imgui.NewFrame()
	edited := drawPanel(panel, Widgets{})
	imgui.Render()
	return edited
}

func demoPanel() (*debug.Panel, *float32, *int) {
	p := debug.NewPanel()
	intensity := float32(1)
	mode := 1
	p.Add(&intensity, "lightIntensity").Range(0, 10).Step(0.001)
	debug.AddEnum(p, &mode, "toneMapping", []debug.Option{{Label: "No", Value: 0}, {Label: "ACESFilmic", Value: 1}})
	return p, &intensity, &mode
}

func TestPanelDrawsWithoutEdits(t *testing.T) {
	h := newHeadless(t)
	p, intensity, mode := demoPanel()

	edited := h.frame(p, imgui.Vec2{X: -1, Y: -1})

	assert.Zero(t, edited)
	assert.Equal(t, float32(1), *intensity)
	assert.Equal(t, 1, *mode)
	assert.NotEmpty(t, imgui.RenderedDrawData().CommandLists())
}

func TestPanelCapturesHoveringMouse(t *testing.T) {
	h := newHeadless(t)
	p, _, _ := demoPanel()

	for i := 0; i < 4; i++ {
		h.frame(p, imgui.Vec2{X: 30, Y: 30})
	}
	require.True(t, h.io.WantCaptureMouse(), "mouse over the panel belongs to the panel")

	for i := 0; i < 4; i++ {
		h.frame(p, imgui.Vec2{X: 1200, Y: 700})
	}
	assert.False(t, h.io.WantCaptureMouse(), "mouse over the scene belongs to the camera")
}
