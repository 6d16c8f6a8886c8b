package gui

import (
	"RealisticRender/internal/debug"

	"github.com/inkyblackness/imgui-go/v4"
)

// Widgets draws debug controls with imgui.
type Widgets struct{}

var _ debug.Widgets = Widgets{}

func (Widgets) SliderFloat(label string, value *float32, min, max float32, format string) bool {
	return imgui.SliderFloatV(label, value, min, max, format, 0)
}

func (Widgets) Combo(label string, selected *int, options []string) bool {
	preview := ""
	if *selected >= 0 && *selected < len(options) {
		preview = options[*selected]
	}
	changed := false
	if imgui.BeginCombo(label, preview) {
		for i, option := range options {
			isSelected := i == *selected
			if imgui.SelectableV(option, isSelected, 0, imgui.Vec2{}) {
				*selected = i
				changed = true
			}
			if isSelected {
				imgui.SetItemDefaultFocus()
			}
		}
		imgui.EndCombo()
	}
	return changed
}
